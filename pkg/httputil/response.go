package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.uber.org/zap"

	"github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/errsink"
	"github.com/jwalitptl/practice-dashboard/pkg/validator"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func NewSuccessResponse(message string, data interface{}) *Response {
	return &Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  StatusError,
		Message: message,
	}
}

// RespondWithSuccess sends a 200 response
func RespondWithSuccess(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(message, data))
}

func RespondWithCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, NewSuccessResponse(message, data))
}

// RespondWithError maps err onto a status code. Application errors keep
// their message; anything else is hidden behind a 500 and sent to the
// error sink.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok || appErr.Code == errors.ErrInternal {
		errsink.Capture(c.Request.Context(), err, "request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()))
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		return
	}

	resp := NewErrorResponse(appErr.Message)
	var fieldErrs validator.Errors
	if appErr.Err != nil && stderrors.As(appErr.Err, &fieldErrs) {
		resp.Errors = fieldErrs
	}
	c.AbortWithStatusJSON(appErr.StatusCode(), resp)
}

// RespondWithBindError reports a request body that gin could not bind.
func RespondWithBindError(c *gin.Context, err error) {
	RespondWithError(c, errors.BadRequest("invalid request body", err))
}
