package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// AuthModule serves login and token identity.
// Public: POST /api/auth
// Protected: GET /api/auth
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth", m.Handler.Login)
	rg.GET("/auth", middleware.Auth(m.JWT), m.Handler.Me)
}
