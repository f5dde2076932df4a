package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/saascom/storefront-gateway/internal/app/model"
	"github.com/saascom/storefront-gateway/internal/app/session"
	apierrors "github.com/saascom/storefront-gateway/internal/errors"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
)

// Context keys for session information
const (
	UserKey  = "session_user"
	TokenKey = "session_token"
)

// AuthMiddleware resolves the session token carried in the storefront cookie
// (or an Authorization bearer header) through the identity bridge. Validation
// itself is delegated to the upstream /meauth endpoint.
type AuthMiddleware struct {
	bridge     *session.Bridge
	cookieName string
}

func NewAuthMiddleware(bridge *session.Bridge, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		bridge:     bridge,
		cookieName: cookieName,
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return SessionCookie(c, m.cookieName)
}

// SessionCookie reads the named cookie from the raw header. The storefront's
// cookie name starts with "@", which net/http rejects as a cookie name, so
// Request.Cookie never finds it.
func SessionCookie(c *gin.Context, name string) string {
	for _, header := range c.Request.Header.Values("Cookie") {
		for _, pair := range strings.Split(header, ";") {
			pair = strings.TrimSpace(pair)
			if value, ok := strings.CutPrefix(pair, name+"="); ok {
				return value
			}
		}
	}
	return ""
}

// DisposeSessionCookie expires the session cookie, writing the header
// directly for the same reason SessionCookie parses it directly.
func DisposeSessionCookie(c *gin.Context, name string) {
	c.Writer.Header().Add("Set-Cookie", name+"=; Path=/; Max-Age=0; HttpOnly")
}

// disposeToken clears the storefront session cookie
func (m *AuthMiddleware) disposeToken(c *gin.Context) {
	DisposeSessionCookie(c, m.cookieName)
}

// Authenticate requires a resolved identity (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token := m.extractToken(c)
		if token == "" {
			log.Warn("Missing session token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := m.bridge.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrTokenInvalid) {
				log.Warn("Session token rejected", map[string]interface{}{
					"path": c.Request.URL.Path,
				})
				m.disposeToken(c)
				apierrors.RespondWithError(c, 401, apierrors.AuthTokenInvalid, "Sessão expirada. Faça login novamente")
				c.Abort()
				return
			}
			log.Error("Identity resolution failed", err, map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apierrors.BadGateway(c, "")
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Set(TokenKey, token)
		c.Request = c.Request.WithContext(
			storeapi.ContextWithToken(c.Request.Context(), token),
		)

		log.Debug("Session resolved", map[string]interface{}{
			"user_id": user.ID,
		})
		c.Next()
	}
}

// OptionalAuthenticate resolves the identity when a token is present but lets
// anonymous requests through.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := m.bridge.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrTokenInvalid) {
				m.disposeToken(c)
			}
			c.Next()
			return
		}

		c.Set(UserKey, user)
		c.Set(TokenKey, token)
		c.Request = c.Request.WithContext(
			storeapi.ContextWithToken(c.Request.Context(), token),
		)
		c.Next()
	}
}

// GetUser returns the resolved user from the request context
func GetUser(c *gin.Context) (*model.User, bool) {
	if v, exists := c.Get(UserKey); exists {
		if user, ok := v.(*model.User); ok {
			return user, true
		}
	}
	return nil, false
}

// GetToken returns the session token from the request context
func GetToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}
