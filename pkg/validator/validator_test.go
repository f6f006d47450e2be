package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permaqr/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("nil when every rule passes", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RangeNum("size", 512, 128, 4096),
			validator.HexColor("color", "#000000"),
			validator.InList("level", "H", []string{"L", "M", "Q", "H"}),
			validator.LenRange("content", "hello", 1, 2048),
			validator.RequiredString("name", "x"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.RangeNum("size", 5000, 128, 4096),
			validator.HexColor("color", "red"),
			validator.InList("level", "X", []string{"L", "M", "Q", "H"}),
			validator.LenRange("content", "", 1, 2048),
		)
		require.Error(t, err)
		assert.True(t, errors.Is(err, validator.ErrValidationFailed))

		verrs := validator.ExtractValidationErrors(fmt.Errorf("wrapped: %w", err))
		require.Len(t, verrs, 4)
		assert.Equal(t, []string{"size", "color", "level", "content"}, verrs.Fields())
		assert.True(t, verrs.Has("color"))
		assert.Equal(t, []string{"must be between 128 and 4096"}, verrs.Get("size"))
		assert.Contains(t, verrs.Map(), "level")
		assert.Contains(t, err.Error(), "size: must be between 128 and 4096")
	})
}

func TestNumericRules(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.MinNum("n", 0.10, 0.10).Check())
	assert.False(t, validator.MinNum("n", 0.09, 0.10).Check())
	assert.True(t, validator.MaxNum("n", 0.25, 0.25).Check())
	assert.False(t, validator.MaxNum("n", 0.26, 0.25).Check())
	assert.True(t, validator.RangeNum("n", 128, 128, 4096).Check())
	assert.True(t, validator.RangeNum("n", 4096, 128, 4096).Check())
	assert.False(t, validator.RangeNum("n", 127, 128, 4096).Check())
}

func TestStringRules(t *testing.T) {
	t.Parallel()

	assert.False(t, validator.RequiredString("f", "  \t").Check())
	// counts runes, not bytes
	assert.True(t, validator.LenRange("f", "ééé", 1, 3).Check())
	assert.False(t, validator.LenRange("f", "éééé", 1, 3).Check())
}

func TestFormatRules(t *testing.T) {
	t.Parallel()

	schemes := []string{"http", "https"}
	tests := []struct {
		value string
		want  bool
	}{
		{"https://example.com/path?q=1", true},
		{"HTTP://example.com", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"https://", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validator.ValidURLWithScheme("url", tt.value, schemes).Check(), tt.value)
	}

	assert.True(t, validator.HexColor("c", "ABCDEF").Check())
	assert.False(t, validator.HexColor("c", "#ABCDE").Check())
}

func TestIsValidationError(t *testing.T) {
	t.Parallel()

	assert.False(t, validator.IsValidationError(nil))
	assert.False(t, validator.IsValidationError(errors.New("plain")))
	assert.True(t, validator.IsValidationError(validator.Apply(validator.RequiredString("f", ""))))
}
