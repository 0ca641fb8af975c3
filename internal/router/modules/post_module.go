package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// PostModule serves /api/posts; every route requires a token.
type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager) *PostModule {
	return &PostModule{Handler: h, JWT: jwt}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/posts")
	g.Use(middleware.Auth(m.JWT))
	{
		g.POST("", m.Handler.Create)
		g.GET("", m.Handler.List)
		g.GET("/:id", m.Handler.Get)
		g.DELETE("/:id", m.Handler.Delete)
		g.PUT("/like/:id", m.Handler.Like)
		g.PUT("/unlike/:id", m.Handler.Unlike)
		g.POST("/comment/:id", m.Handler.Comment)
		g.DELETE("/comment/:id/:comment_id", m.Handler.DeleteComment)
		g.DELETE("/:id/comment/:comment_id", m.Handler.DeleteComment)
	}
}
