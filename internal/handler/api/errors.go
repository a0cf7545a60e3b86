package api

import (
	"net/http"

	"shop-order-scheduler/internal/handler/httperr"
	"shop-order-scheduler/internal/pkg/errs"
	"shop-order-scheduler/internal/usecase/commands"
	"shop-order-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const (
	MsgInvalidRequest         = "Invalid request"
	MsgValidationFailed       = "Validation failed"
	MsgOrderNotFound          = "Order not found"
	MsgResourceNotFound       = "Resource not found"
	MsgIdempotencyMismatch    = "Idempotency key was used with a different request"
	MsgIdempotencyInProgress  = "A request with this idempotency key is being processed"
	MsgIdempotencyUnavailable = "Idempotency check unavailable"
	MsgPersistFailed          = "Failed to persist change"
	MsgInternal               = "Internal server error"
)

// abortWithUsecaseError maps usecase sentinels onto HTTP statuses.
func abortWithUsecaseError(c *gin.Context, err error) {
	if verrs, ok := commands.ValidationErrors(err); ok {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, MsgValidationFailed, httperr.FieldErrors(verrs))
		return
	}

	switch {
	case errs.Is(err, errs.ErrOrderNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, MsgOrderNotFound, nil)
	case errs.Is(err, errs.ErrResourceNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, MsgResourceNotFound, nil)
	case errs.Is(err, errs.ErrIdempotencyKeyMismatch):
		httperr.AbortWithError(c, http.StatusConflict, err, MsgIdempotencyMismatch, nil)
	case errs.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, MsgIdempotencyInProgress, nil)
	case errs.Is(err, errs.ErrIdempotencyCheckFailed):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, MsgIdempotencyUnavailable, nil)
	case errs.Is(err, queries.ErrInvalidCursor), errs.Is(err, queries.ErrInvalidFilter):
		httperr.AbortWithError(c, http.StatusBadRequest, err, MsgInvalidRequest, err.Error())
	case errs.Is(err, errs.ErrJournalCommitFailed):
		httperr.AbortWithError(c, http.StatusInternalServerError, err, MsgPersistFailed, nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, MsgInternal, nil)
	}
}
