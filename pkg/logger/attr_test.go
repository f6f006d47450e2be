package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permaqr/pkg/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()

	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attr    slog.Attr
		wantKey string
		want    any
	}{
		{logger.RequestID("abc"), "request_id", "abc"},
		{logger.Slug("Ab3dE9xYz"), "slug", "Ab3dE9xYz"},
		{logger.CodeID(7), "code_id", int64(7)},
		{logger.ExportFormat("png"), "format", "png"},
		{logger.Attempt(3), "attempt", int64(3)},
		{logger.Component("export"), "component", "export"},
		{logger.Duration(1500 * time.Microsecond), "duration_ms", 1.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantKey, tt.attr.Key)
		assert.Equal(t, tt.want, tt.attr.Value.Any(), tt.wantKey)
	}

	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.CodeID(nil).Equal(slog.Attr{}))
}
