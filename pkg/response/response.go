package response

import (
	"github.com/gin-gonic/gin"
)

// Message is the {msg} body used for non-validation errors and confirmations.
type Message struct {
	Msg string `json:"msg"`
}

// FieldError is one entry of a validation or credential failure.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// ErrorList is the {errors:[...]} body.
type ErrorList struct {
	Errors []FieldError `json:"errors"`
}

// JSON writes data as the response body.
func JSON(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

// Msg aborts the chain with a {msg} body.
func Msg(ctx *gin.Context, status int, msg string) {
	ctx.AbortWithStatusJSON(status, Message{Msg: msg})
}

// Errors aborts the chain with an {errors:[...]} body.
func Errors(ctx *gin.Context, status int, errs ...FieldError) {
	if errs == nil {
		errs = []FieldError{}
	}
	ctx.AbortWithStatusJSON(status, ErrorList{Errors: errs})
}
