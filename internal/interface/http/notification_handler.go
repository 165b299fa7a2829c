package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/devarta/taskboard/internal/application"
	"github.com/devarta/taskboard/pkg/mailer"
	"github.com/devarta/taskboard/pkg/response"
	"github.com/devarta/taskboard/pkg/validation"
)

// NotificationHandler exposes the direct enqueue endpoint. It hands a
// well-formed job to the queue and returns 202; delivery is the worker's
// problem.
type NotificationHandler struct {
	Pub         application.QueuePublisher
	Logger      *logrus.Logger
	SendEnabled bool
}

func NewNotificationHandler(pub application.QueuePublisher, logger *logrus.Logger, sendEnabled bool) *NotificationHandler {
	return &NotificationHandler{Pub: pub, Logger: logger, SendEnabled: sendEnabled}
}

type sendNotificationRequest struct {
	ToEmail string `json:"to_email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Send POST /api/notifications/send
func (h *NotificationHandler) Send(c *gin.Context) {
	var req sendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if !h.SendEnabled {
		response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": false, "disabled": true}, "email sending disabled", nil)
		return
	}

	job := mailer.EmailJob{To: req.ToEmail, Subject: req.Subject, Text: req.Message}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("failed to publish email job")
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to enqueue", nil)
		return
	}
	response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": true}, "email enqueued", nil)
}
