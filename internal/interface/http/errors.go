package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devarta/taskboard/internal/application"
	"github.com/devarta/taskboard/pkg/response"
)

// writeServiceError maps application errors onto HTTP statuses. Records
// hidden by access scoping surface as 404, never 403.
func writeServiceError(c *gin.Context, err error) {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{ve.Field: ve.Reason})
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrQueueUnavailable):
		// The mutation committed before the enqueue was attempted.
		response.Error[any](c, http.StatusBadGateway, "saved, but notification could not be enqueued", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// notifyMeta attaches a degraded-success warning when notifications were
// accepted by the mutation but rejected by the queue backend.
func notifyMeta(report application.NotifyReport) map[string]any {
	if !report.Degraded() {
		return nil
	}
	return map[string]any{
		"warning":              "task saved, but some notifications could not be enqueued",
		"notifications_failed": report.Failed,
	}
}
