package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/pkg/response"
)

const maxAvatarBytes = 2 << 20

type UserHandler struct {
	Avatars *app.AvatarService
	Logger  *logrus.Logger
}

func NewUserHandler(avatars *app.AvatarService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Avatars: avatars, Logger: logger}
}

// UploadAvatar PUT /api/users/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Errors(c, http.StatusBadRequest, response.FieldError{Msg: "Avatar image is required", Param: "avatar"})
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Errors(c, http.StatusBadRequest, response.FieldError{Msg: "Avatar must be 2MB or smaller", Param: "avatar"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Errors(c, http.StatusBadRequest, response.FieldError{Msg: "Avatar must be an image", Param: "avatar"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Avatars.Upload(c.Request.Context(), userID(c), f, fh.Filename, contentType)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, u)
}
