package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// UserModule wires registration and avatar upload.
// Public: POST /api/users
// Protected: PUT /api/users/avatar
type UserModule struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
	JWT   *helpers.JWTManager
}

func NewUserModule(auth *handlers.AuthHandler, users *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Auth: auth, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Auth.Register)

	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.PUT("/avatar", m.Users.UploadAvatar)
	}
}
