package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL: srv.URL,
		Token:   "secret",
		Repo:    "owner/repo",
		Path:    "data.xlsx",
		Branch:  "main",
	}, srv.Client())
}

func TestClient_Get(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/contents/data.xlsx", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"path":     "data.xlsx",
			"sha":      "abc123",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte("hello")),
		})
	})

	f, err := client.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", f.SHA)
	assert.Equal(t, []byte("hello"), f.Content)
}

func TestClient_Get_LargeFileFallsBackToBlob(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/repo/contents/data.xlsx":
			_ = json.NewEncoder(w).Encode(map[string]string{"path": "data.xlsx", "sha": "big", "content": ""})
		case "/repos/owner/repo/git/blobs/big":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"sha":      "big",
				"encoding": "base64",
				"content":  base64.StdEncoding.EncodeToString([]byte("large")),
			})
		default:
			http.NotFound(w, r)
		}
	})

	f, err := client.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("large"), f.Content)
}

func TestClient_Get_NotFound(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	_, err := client.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrMissingDataSource)
	assert.Contains(t, err.Error(), "Not Found")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClient_Put(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req updateRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "abc123", req.SHA)
		assert.Equal(t, "main", req.Branch)
		assert.Equal(t, "update", req.Message)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("new")), req.Content)

		_, _ = w.Write([]byte(`{"content":{"sha":"def456"}}`))
	})

	sha, err := client.Put(context.Background(), []byte("new"), "abc123", "update")
	require.NoError(t, err)
	assert.Equal(t, "def456", sha)
}

func TestClient_Put_Conflict(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"data.xlsx does not match abc123"}`))
	})

	_, err := client.Put(context.Background(), []byte("new"), "abc123", "update")
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrVersionConflict)
	assert.Contains(t, err.Error(), "data.xlsx does not match abc123")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "writes are never retried")
}

func TestClient_Put_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Resource not accessible by integration"}`))
	})

	_, err := client.Put(context.Background(), []byte("new"), "abc123", "update")
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrRemoteWrite)
	assert.Contains(t, err.Error(), "Resource not accessible by integration")
}
