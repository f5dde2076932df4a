package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saascom/storefront-gateway/internal/app/session"
	"github.com/saascom/storefront-gateway/internal/middleware"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionCookieName = "@nextauth.token"

func newAuthControllerRig(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer valid-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(storeapi.User{ID: 42, Name: "Maria"})
	}))
	t.Cleanup(upstream.Close)

	client, err := storeapi.NewClient(storeapi.Config{BaseURL: upstream.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	bridge := session.NewBridge(func(token string) session.Resolver {
		return client.WithToken(token)
	}, nil, nil)
	authMiddleware := middleware.NewAuthMiddleware(bridge, sessionCookieName)
	ctrl := NewAuthController(bridge, sessionCookieName)

	engine := gin.New()
	engine.GET("/api/v1/me", authMiddleware.Authenticate(), ctrl.GetMe)
	engine.POST("/api/v1/logout", authMiddleware.OptionalAuthenticate(), ctrl.Logout)
	return engine
}

func TestGetMe(t *testing.T) {
	engine := newAuthControllerRig(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Cookie", sessionCookieName+"=valid-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"id":42`)
}

func TestLogout_DisposesSessionCookie(t *testing.T) {
	engine := newAuthControllerRig(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
	req.Header.Set("Cookie", sessionCookieName+"=valid-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	disposed := false
	for _, header := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(header, sessionCookieName+"=;") && strings.Contains(header, "Max-Age=0") {
			disposed = true
		}
	}
	assert.True(t, disposed, "logout must dispose the session cookie")
}
