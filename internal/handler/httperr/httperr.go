package httperr

import (
	"shop-order-scheduler/internal/domain/order"

	"github.com/gin-gonic/gin"
)

// Response is the error envelope: {"error":{"message":...},"detail":...}.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

func NewResponse(status int, msg string, detail any) Response {
	resp := Response{Status: status, Detail: detail}
	resp.Error.Message = msg
	return resp
}

// AbortWithError records err on the context for logging and writes the
// public envelope.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := NewResponse(status, msg, detail)

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// FieldErrors is the 422 detail payload.
func FieldErrors(verrs order.ValidationErrors) []order.FieldError {
	if verrs == nil {
		return []order.FieldError{}
	}
	return verrs
}
