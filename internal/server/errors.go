package server

import (
	"errors"
	"net/http"

	"github.com/carcarahealth/glica/internal/apperrors"
	"github.com/carcarahealth/glica/internal/logger"

	"github.com/gin-gonic/gin"
)

// statusByType maps the error taxonomy to HTTP statuses. Reasoning failures
// are recoverable upstream problems, so they surface as 503 rather than 500.
var statusByType = map[apperrors.ErrorType]int{
	apperrors.ErrorTypeValidation:  http.StatusBadRequest,
	apperrors.ErrorTypeConflict:    http.StatusConflict,
	apperrors.ErrorTypeNotFound:    http.StatusNotFound,
	apperrors.ErrorTypeReasoning:   http.StatusServiceUnavailable,
	apperrors.ErrorTypePersistence: http.StatusInternalServerError,
	apperrors.ErrorTypeInternal:    http.StatusInternalServerError,
}

// respondError logs through the error handler and translates an application
// error into a JSON error response with a stable, user-facing message.
func respondError(c *gin.Context, err error) {
	apperrors.NewHandler(logger.GetLogger()).Handle(c.Request.Context(), err)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno."})
		return
	}

	status, ok := statusByType[appErr.Type]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": appErr.Message, "type": string(appErr.Type)})
}

func bindError(c *gin.Context, err error) {
	respondError(c, apperrors.NewValidationError("Corpo da requisição inválido: "+err.Error()))
}
