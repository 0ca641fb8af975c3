package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/response"
)

const (
	// TokenHeader carries the session token on private routes.
	TokenHeader  = "x-auth-token"
	CtxUserIDKey = "userID"
)

// Auth validates the x-auth-token header and sets userID in the Gin context on success.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			response.Msg(c, http.StatusUnauthorized, "No token, authorization denied")
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			response.Msg(c, http.StatusUnauthorized, "Token is not valid")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}
