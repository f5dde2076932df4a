package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saascom/storefront-gateway/internal/app/session"
	apierrors "github.com/saascom/storefront-gateway/internal/errors"
	"github.com/saascom/storefront-gateway/internal/middleware"
)

type AuthController struct {
	bridge     *session.Bridge
	cookieName string
}

func NewAuthController(bridge *session.Bridge, cookieName string) *AuthController {
	return &AuthController{
		bridge:     bridge,
		cookieName: cookieName,
	}
}

// GetMe returns the resolved session identity
// GET /api/v1/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout disposes of the session token and drops dependent state
// POST /api/v1/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	if token := middleware.GetToken(c); token != "" {
		ctrl.bridge.Invalidate(c.Request.Context(), token)
	}
	middleware.DisposeSessionCookie(c, ctrl.cookieName)
	c.Status(http.StatusNoContent)
}
