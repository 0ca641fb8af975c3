package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/pkg/response"
	"github.com/oksasatya/devconnector/pkg/validation"
)

type PostHandler struct {
	Svc    *app.PostService
	Logger *logrus.Logger
}

func NewPostHandler(svc *app.PostService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Logger: logger}
}

type textRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

var textMessages = validation.Messages{"text": "Text is required"}

func bindText(c *gin.Context) (string, bool) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, textMessages)...)
		return "", false
	}
	return req.Text, true
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), userID(c), text)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// List GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	ps, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, ps)
}

// Get GET /api/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// Delete DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, response.Message{Msg: "Post removed"})
}

// Like PUT /api/posts/like/:id
func (h *PostHandler) Like(c *gin.Context) {
	likes, err := h.Svc.Like(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, likes)
}

// Unlike PUT /api/posts/unlike/:id
func (h *PostHandler) Unlike(c *gin.Context) {
	likes, err := h.Svc.Unlike(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, likes)
}

// Comment POST /api/posts/comment/:id
func (h *PostHandler) Comment(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	comments, err := h.Svc.Comment(c.Request.Context(), c.Param("id"), userID(c), text)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, comments)
}

// DeleteComment DELETE /api/posts/comment/:id/:comment_id
func (h *PostHandler) DeleteComment(c *gin.Context) {
	comments, err := h.Svc.DeleteComment(c.Request.Context(), c.Param("id"), c.Param("comment_id"), userID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, comments)
}
