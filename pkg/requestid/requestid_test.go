package requestid_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permaqr/pkg/logger"
	"github.com/dmitrymomot/permaqr/pkg/requestid"
)

func serve(t *testing.T, incoming string) (ctxID, headerID string) {
	t.Helper()
	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(requestid.Header, incoming)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return ctxID, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates an ID", func(t *testing.T) {
		t.Parallel()
		ctxID, headerID := serve(t, "")
		assert.NotEmpty(t, ctxID)
		assert.Equal(t, ctxID, headerID)
	})

	t.Run("keeps valid IDs", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"abc123", "ABC-123_xyz", "550e8400-e29b-41d4-a716-446655440000"} {
			ctxID, headerID := serve(t, id)
			assert.Equal(t, id, ctxID)
			assert.Equal(t, id, headerID)
		}
	})

	t.Run("replaces invalid IDs", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"a b", "x/y", "<script>", strings.Repeat("a", 129)} {
			ctxID, headerID := serve(t, id)
			assert.NotEqual(t, id, ctxID)
			assert.True(t, requestid.Valid(ctxID))
			assert.Equal(t, ctxID, headerID)
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id-1", requestid.FromContext(requestid.WithContext(context.Background(), "id-1")))
	assert.Empty(t, requestid.FromContext(context.Background()))
}

func TestLogExtractor(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(requestid.LogExtractor()))

	log.InfoContext(requestid.WithContext(context.Background(), "req-7"), "with id")
	log.InfoContext(context.Background(), "without id")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "req-7", first["request_id"])
	assert.NotContains(t, second, "request_id")
}
