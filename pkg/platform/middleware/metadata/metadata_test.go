package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIPFromRequest(t *testing.T) {
	newReq := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/search", nil)
		r.RemoteAddr = "192.0.2.10:54321"
		return r
	}

	t.Run("prefers X-Client-IP", func(t *testing.T) {
		r := newReq()
		r.Header.Set("X-Client-IP", "203.0.113.7")
		r.Header.Set("X-Forwarded-For", "198.51.100.1")
		assert.Equal(t, "203.0.113.7", ClientIPFromRequest(r))
	})

	t.Run("falls back to first X-Forwarded-For entry", func(t *testing.T) {
		r := newReq()
		r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
		assert.Equal(t, "198.51.100.1", ClientIPFromRequest(r))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		r := newReq()
		r.Header.Set("X-Real-IP", "198.51.100.2")
		assert.Equal(t, "198.51.100.2", ClientIPFromRequest(r))
	})

	t.Run("falls back to RemoteAddr host", func(t *testing.T) {
		r := newReq()
		assert.Equal(t, "192.0.2.10", ClientIPFromRequest(r))
	})

	t.Run("unknown client when nothing is set", func(t *testing.T) {
		r := newReq()
		r.RemoteAddr = ""
		assert.Equal(t, "unknown_client", ClientIPFromRequest(r))
	})
}

func TestClientMetadata(t *testing.T) {
	var gotIP, gotUA string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = GetClientIP(r.Context())
		gotUA = GetUserAgent(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/search", nil)
	r.Header.Set("X-Client-IP", "203.0.113.7")
	r.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()

	ClientMetadata(next).ServeHTTP(w, r)

	require.Equal(t, "203.0.113.7", gotIP)
	require.Equal(t, "test-agent", gotUA)
}
