package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
)

// respondError maps service errors to HTTP responses. Unexpected errors are logged
// and hidden behind a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	var verr *service.ValidationError
	var refErr *service.ReferenceError

	switch {
	case errors.As(err, &verr):
		body := gin.H{"error": verr.Error()}
		if len(verr.Fields) > 0 {
			body["fields"] = verr.Fields
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
	case errors.As(err, &refErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": refErr.Error(), "ids": refErr.IDs})
	case errors.Is(err, service.ErrInvalidDayNumber):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrPlanDayNotFound),
		errors.Is(err, service.ErrTraineeNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrTaskBlockNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrPlanCancelled):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExportUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error(fallback, "path", c.FullPath(), "error", err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
