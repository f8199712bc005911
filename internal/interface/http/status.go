package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rizqidamar/timely/internal/domain/domainerr"
	"github.com/rizqidamar/timely/pkg/response"
)

// kindStatus is the single lookup table mapping domain error kinds to
// transport statuses.
var kindStatus = map[domainerr.Kind]int{
	domainerr.DuplicateEntity:    http.StatusConflict,
	domainerr.NotFound:           http.StatusNotFound,
	domainerr.ValidationError:    http.StatusUnprocessableEntity,
	domainerr.RuleViolation:      http.StatusBadRequest,
	domainerr.PermissionDenied:   http.StatusForbidden,
	domainerr.InvalidOperation:   http.StatusBadRequest,
	domainerr.InvalidCredentials: http.StatusUnauthorized,
}

// respondDomainError maps a domain error to its status; anything else is an
// infrastructure failure and surfaces as 500 without leaking internals.
func respondDomainError(c *gin.Context, err error) {
	if kind, ok := domainerr.KindOf(err); ok {
		response.Error[any](c, kindStatus[kind], err.Error(), nil)
		return
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}
