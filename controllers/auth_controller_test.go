package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perguntaquedoi/api/store"
)

func authRouter(st *store.Store, disabled bool) http.Handler {
	r := newTestRouter()
	c := NewAuthController(st, disabled)
	r.POST("/auth/anonymous", c.Anonymous)
	return r
}

func TestAnonymousProvisionsIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	st := newTestStore(t)
	r := authRouter(st, false)

	w := postJSON(t, r, "/auth/anonymous", nil)

	require.Equal(t, http.StatusOK, w.Code)
	code, data := decodeEnvelope(t, w)
	assert.Zero(t, code)
	assert.NotEmpty(t, data["token"])
	ident, ok := data["identity"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, ident["id"])
}

func TestAnonymousReusesValidBearer(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	st := newTestStore(t)
	r := authRouter(st, false)

	w := postJSON(t, r, "/auth/anonymous", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	firstID := data["identity"].(map[string]any)["id"].(string)
	token := data["token"].(string)

	req := httptest.NewRequest(http.MethodPost, "/auth/anonymous", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	require.Equal(t, http.StatusOK, w2.Code)
	_, data2 := decodeEnvelope(t, w2)
	assert.Equal(t, firstID, data2["identity"].(map[string]any)["id"])
}

func TestAnonymousIgnoresGarbageBearer(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	st := newTestStore(t)
	r := authRouter(st, false)

	req := httptest.NewRequest(http.MethodPost, "/auth/anonymous", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeEnvelope(t, w)
	assert.NotEmpty(t, data["identity"].(map[string]any)["id"])
}

func TestAnonymousDisabledByConfiguration(t *testing.T) {
	st := newTestStore(t)
	r := authRouter(st, true)

	w := postJSON(t, r, "/auth/anonymous", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	code, _ := decodeEnvelope(t, w)
	assert.Equal(t, 50310, code)
}
