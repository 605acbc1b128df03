// Package handler holds what the HTTP handlers in its subpackages share:
// request binding and error reporting through the gin error chain.
package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-dashboard/internal/repository"
	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/validator"
)

// Fail attaches err to the request for middleware.ErrorHandler to render.
// A bare repository.ErrNotFound becomes a 404 for the named resource.
func Fail(c *gin.Context, resource string, err error) {
	if errors.Is(err, repository.ErrNotFound) && !apperrors.IsClassified(err) {
		err = apperrors.NotFound(resource, err)
	}
	_ = c.Error(err)
}

// Bind decodes the JSON body into dst. On failure it reports a 422 for
// field validation errors, a 400 for anything else, and returns false.
func Bind(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	err = validator.Translate(err)
	var fieldErrs validator.Errors
	if errors.As(err, &fieldErrs) {
		_ = c.Error(apperrors.Validation("invalid request body", fieldErrs))
	} else {
		_ = c.Error(apperrors.BadRequest("invalid request body", err))
	}
	return false
}
