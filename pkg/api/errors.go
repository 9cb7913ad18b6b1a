package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/inbox/pkg/apperrors"
)

// writeError maps err to a status code and JSON error body, translating
// the teacher's mapServiceError pattern to gin and to this module's
// apperrors sentinel set.
func writeError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
		return
	}
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, apperrors.ErrValidationRejected):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConfirmationExpired):
		c.JSON(http.StatusGone, errorResponse{Error: err.Error()})
	default:
		slog.Error("unhandled api error", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
