//go:build e2e

package e2e

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiBase() string {
	if v := os.Getenv("E2E_API_BASE"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func do(t *testing.T, method, target string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, apiBase()+target, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func requireCommonHeaders(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestE2E_Contract(t *testing.T) {
	t.Run("preflight", func(t *testing.T) {
		resp, body := do(t, http.MethodOptions, "/check")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Empty(t, body)
		requireCommonHeaders(t, resp)
	})

	t.Run("unknown path", func(t *testing.T) {
		resp, body := do(t, http.MethodGet, "/nope")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"not found"}`, string(body))
		requireCommonHeaders(t, resp)
	})

	t.Run("missing url", func(t *testing.T) {
		resp, _ := do(t, http.MethodGet, "/?host=e2e")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		requireCommonHeaders(t, resp)
	})

	t.Run("unreachable site is down", func(t *testing.T) {
		q := url.Values{"host": {"e2e-down"}, "url": {"http://127.0.0.1:1"}}
		resp, body := do(t, http.MethodGet, "/check?"+q.Encode())
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		requireCommonHeaders(t, resp)

		var r struct {
			Up    bool `json:"up"`
			Stats struct {
				Checks int64 `json:"checks"`
				LastUp *bool `json:"lastUp"`
			} `json:"stats"`
		}
		require.NoError(t, json.Unmarshal(body, &r))
		assert.False(t, r.Up)
		assert.GreaterOrEqual(t, r.Stats.Checks, int64(1))
		require.NotNil(t, r.Stats.LastUp)
		assert.False(t, *r.Stats.LastUp)
	})
}
