package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func newRouter(tokens *Tokens) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(), RequestLogger(zap.NewNop()))

	api := r.Group("/api", AuthMiddleware(tokens))
	api.GET("/me", func(c *gin.Context) {
		a := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": a.ID, "role": a.Role})
	})
	api.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	r := newRouter(tokens)

	token, err := tokens.Issue("user-1", models.RoleCustomer)
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/api/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"user-1","role":"customer"}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing_authorization_header")

	forged, err := NewTokens("other", time.Hour).Issue("user-1", models.RoleAdmin)
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/api/me", forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token")
}

func TestExpiredToken(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := tokens.Issue("user-1", models.RoleCustomer)
	require.NoError(t, err)

	w := do(newRouter(NewTokens("secret", time.Hour)), http.MethodGet, "/api/me", old)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	r := newRouter(tokens)

	customer, _ := tokens.Issue("c", models.RoleCustomer)
	admin, _ := tokens.Issue("a", models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/admin", customer).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/api/admin", admin).Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(NewTokens("secret", time.Hour))

	req := httptest.NewRequest(http.MethodOptions, "/api/me", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowList(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://app.barber.test/"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for origin, want := range map[string]string{
		"https://app.barber.test":  "https://app.barber.test",
		"https://evil.barber.test": "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, w.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}
