package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tata-ai/tata/pkg/errors"
	"github.com/tata-ai/tata/pkg/http/response"
	"github.com/tata-ai/tata/pkg/notifications/service"
)

// StatusResponse reports how notifications are delivered
type StatusResponse struct {
	Email bool `json:"email"`
}

// TestResponse acknowledges a delivered test notification
type TestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", response.Middleware(h.GetStatus))
		r.Post("/test", response.Middleware(h.SendTest))
	})
}

// GetStatus godoc
// @Summary Get notification delivery status
// @Description Reports whether alerts are mailed in addition to being logged
// @Tags Notifications
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /notifications [get]
func (h *NotificationHandler) GetStatus(w http.ResponseWriter, r *http.Request) error {
	return response.WriteJSON(w, http.StatusOK, StatusResponse{Email: h.service.EmailEnabled()})
}

// SendTest godoc
// @Summary Send a test notification
// @Description Mails a test message to the configured recipients
// @Tags Notifications
// @Produce json
// @Success 200 {object} TestResponse
// @Failure 400 {object} response.ErrorResponse "Email notifications disabled"
// @Failure 500 {object} response.ErrorResponse "Delivery failed"
// @Router /notifications/test [post]
func (h *NotificationHandler) SendTest(w http.ResponseWriter, r *http.Request) error {
	if !h.service.EmailEnabled() {
		return errors.NewInvalidArgumentError("email notifications are not enabled", nil)
	}
	if err := h.service.SendTestNotification(r.Context()); err != nil {
		return errors.NewInternalError("failed to send test notification", err, nil)
	}
	return response.WriteJSON(w, http.StatusOK, TestResponse{
		Success: true,
		Message: "Test notification sent",
	})
}
