package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/pkg/response"
)

type errorMapping struct {
	err    error
	status int
	msg    string
	list   bool   // render as {errors:[{msg,param}]}
	param  string // only with list
}

var errorTable = []errorMapping{
	{app.ErrUserExists, http.StatusBadRequest, "User already exists", true, ""},
	{app.ErrInvalidCredentials, http.StatusBadRequest, "Invalid Credentials", true, ""},
	{app.ErrPasswordTooLong, http.StatusBadRequest, "Please enter a password with 72 or fewer characters", true, "password"},
	{app.ErrUserNotFound, http.StatusNotFound, "User not found", false, ""},
	{app.ErrNotAuthorized, http.StatusUnauthorized, "User not authorized", false, ""},
	{app.ErrProfileNotFound, http.StatusBadRequest, "There is no profile for this user", false, ""},
	{app.ErrExperienceNotFound, http.StatusNotFound, "Experience not found", false, ""},
	{app.ErrEducationNotFound, http.StatusNotFound, "Education not found", false, ""},
	{app.ErrPostNotFound, http.StatusNotFound, "Post not found", false, ""},
	{app.ErrCommentNotFound, http.StatusNotFound, "Comment does not exist", false, ""},
	{app.ErrAlreadyLiked, http.StatusBadRequest, "Post already liked", false, ""},
	{app.ErrNotLiked, http.StatusBadRequest, "Post has not yet been liked", false, ""},
	{app.ErrGitHubNotFound, http.StatusNotFound, "No Github profile found", false, ""},
	{app.ErrAvatarUnavailable, http.StatusServiceUnavailable, "Avatar upload is not available", false, ""},
}

// writeError renders err with its mapped status. Unmapped errors are logged and reported as 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			if m.list {
				response.Errors(c, m.status, response.FieldError{Msg: m.msg, Param: m.param})
				return
			}
			response.Msg(c, m.status, m.msg)
			return
		}
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
	}
	response.Msg(c, http.StatusInternalServerError, "Server Error")
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}
