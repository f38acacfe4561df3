package http

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tata-ai/tata/pkg/errors"
	"github.com/tata-ai/tata/pkg/http/response"
	"github.com/tata-ai/tata/pkg/monitoring"
)

// Handler handles HTTP requests for the monitoring service
type Handler struct {
	service monitoring.Service
}

// NewHandler creates a new monitoring HTTP handler
func NewHandler(service monitoring.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the monitoring routes with the provided router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/monitoring", func(r chi.Router) {
		r.Get("/services", response.Middleware(h.GetAllServiceStatuses))
		r.Get("/services/{name}", response.Middleware(h.GetServiceStatus))
		r.Post("/check", response.Middleware(h.CheckNow))
	})
}

// GetAllServiceStatuses godoc
// @Summary List monitored services
// @Description Latest health check result of every monitored service
// @Tags Monitoring
// @Produce json
// @Success 200 {array} monitoring.ServiceCheck
// @Router /monitoring/services [get]
func (h *Handler) GetAllServiceStatuses(w http.ResponseWriter, r *http.Request) error {
	return response.WriteJSON(w, http.StatusOK, h.service.GetAllServiceStatuses())
}

// GetServiceStatus godoc
// @Summary Get a monitored service
// @Tags Monitoring
// @Produce json
// @Param name path string true "Service name"
// @Success 200 {object} monitoring.ServiceCheck
// @Failure 404 {object} response.ErrorResponse "Service not monitored"
// @Router /monitoring/services/{name} [get]
func (h *Handler) GetServiceStatus(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	status, err := h.service.GetServiceStatus(name)
	if err != nil {
		if stderrors.Is(err, monitoring.ErrServiceNotFound) {
			return errors.NewNotFoundError("service is not monitored", map[string]interface{}{
				"service": name,
			})
		}
		return errors.NewInternalError("failed to get service status", err, nil)
	}
	return response.WriteJSON(w, http.StatusOK, status)
}

// CheckNow godoc
// @Summary Run a check round
// @Description Checks every monitored service immediately and returns the results
// @Tags Monitoring
// @Produce json
// @Success 200 {array} monitoring.ServiceCheck
// @Router /monitoring/check [post]
func (h *Handler) CheckNow(w http.ResponseWriter, r *http.Request) error {
	return response.WriteJSON(w, http.StatusOK, h.service.CheckNow(r.Context()))
}
