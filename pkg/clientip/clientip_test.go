package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permaqr/pkg/clientip"
)

func request(remote string, headers map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = remote
	for k, v := range headers {
		r.Header.Set(k, v)
	}
	return r
}

func TestResolver_IP(t *testing.T) {
	t.Parallel()

	forwarded := map[string]string{"X-Forwarded-For": "garbage, 203.0.113.7, 10.0.0.1"}

	tests := []struct {
		name    string
		trust   bool
		remote  string
		headers map[string]string
		want    string
	}{
		{name: "peer address", remote: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "peer without port", remote: "192.0.2.1", want: "192.0.2.1"},
		{name: "ipv6 peer", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "headers ignored when untrusted", remote: "192.0.2.1:1", headers: forwarded, want: "192.0.2.1"},
		{name: "first valid forwarded entry", trust: true, remote: "192.0.2.1:1", headers: forwarded, want: "203.0.113.7"},
		{
			name:    "cloudflare header wins",
			trust:   true,
			remote:  "192.0.2.1:1",
			headers: map[string]string{"CF-Connecting-IP": "198.51.100.2", "X-Real-IP": "198.51.100.3"},
			want:    "198.51.100.2",
		},
		{
			name:    "invalid headers fall back to peer",
			trust:   true,
			remote:  "192.0.2.1:1",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			want:    "192.0.2.1",
		},
		{name: "unparseable peer", remote: "nope", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := clientip.New(clientip.Config{TrustProxy: tt.trust})
			assert.Equal(t, tt.want, res.IP(request(tt.remote, tt.headers)))
		})
	}
}

func TestResolver_Middleware(t *testing.T) {
	t.Parallel()

	var got string
	h := clientip.New(clientip.Config{}).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = clientip.FromRequest(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), request("192.0.2.9:80", nil))
	assert.Equal(t, "192.0.2.9", got)
}

func TestLogExtractor(t *testing.T) {
	t.Parallel()

	extract := clientip.LogExtractor()
	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(clientip.WithContext(context.Background(), "192.0.2.1"))
	require.True(t, ok)
	assert.Equal(t, "client_ip", attr.Key)
	assert.Equal(t, "192.0.2.1", attr.Value.String())
}
