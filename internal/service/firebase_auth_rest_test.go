package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts:signInWithPassword", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_PASSWORD"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"idToken":"id-1","refreshToken":"refresh-1","email":"a@b.c","expiresIn":"3600"}`))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("refresh_token") != "refresh-1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_REFRESH_TOKEN"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id_token":"id-2","refresh_token":"refresh-2","expires_in":"3600","user_id":"u1"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSignInWithEmailAndPassword(t *testing.T) {
	srv := newAuthTestServer(t)
	client := NewFirebaseAuthRestClient("test-key", "project").WithBaseURLs(srv.URL, srv.URL)

	resp, err := client.SignInWithEmailAndPassword(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "id-1", resp.IdToken)
	assert.Equal(t, "refresh-1", resp.RefreshToken)

	_, err = client.SignInWithEmailAndPassword(context.Background(), "a@b.c", "wrong")
	var apiErr *ErrorResponse
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_PASSWORD", apiErr.Message)
}

func TestRefreshIdToken(t *testing.T) {
	srv := newAuthTestServer(t)
	client := NewFirebaseAuthRestClient("test-key", "project").WithBaseURLs(srv.URL, srv.URL)

	resp, err := client.RefreshIdToken(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "id-2", resp.IdToken)
	assert.Equal(t, "refresh-2", resp.RefreshToken)

	_, err = client.RefreshIdToken(context.Background(), "stale")
	assert.Error(t, err)
}
