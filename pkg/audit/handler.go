package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tata-ai/tata/pkg/errors"
	"github.com/tata-ai/tata/pkg/http/response"
)

// Handler handles HTTP requests for audit logs
type Handler struct {
	service *AuditService
}

// NewHandler creates a new audit handler
func NewHandler(service *AuditService) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the audit routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Get("/logs", response.Middleware(h.ListLogs))
		r.Get("/logs/{id}", response.Middleware(h.GetLog))
	})
}

// ListLogsResponse represents the response for listing audit logs
type ListLogsResponse struct {
	Items      []Event `json:"items"`
	TotalCount int     `json:"total_count"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
}

// ListLogs retrieves a list of audit logs
// @Summary List audit logs
// @Description Retrieves a page of recent audit events, newest first
// @Tags audit
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 10)"
// @Param outcome query string false "Filter by outcome (SUCCESS or FAILURE)"
// @Success 200 {object} ListLogsResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /audit/logs [get]
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) error {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		return err
	}
	pageSize, err := intQuery(r, "page_size", 10)
	if err != nil {
		return err
	}

	outcome := EventOutcome(r.URL.Query().Get("outcome"))
	switch outcome {
	case "", EventOutcomeSuccess, EventOutcomeFailure:
	default:
		return errors.NewInvalidArgumentError("invalid outcome", map[string]interface{}{
			"allowed": []EventOutcome{EventOutcomeSuccess, EventOutcomeFailure},
		})
	}

	return response.WriteJSON(w, http.StatusOK, h.service.ListLogs(page, pageSize, outcome))
}

// GetLog retrieves a specific audit log
// @Summary Get audit log
// @Tags audit
// @Produce json
// @Param id path string true "Log ID"
// @Success 200 {object} Event
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /audit/logs/{id} [get]
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return errors.NewInvalidArgumentError("invalid log ID", nil)
	}
	event, ok := h.service.GetLog(id)
	if !ok {
		return errors.NewNotFoundError("audit log not found", map[string]interface{}{"id": id})
	}
	return response.WriteJSON(w, http.StatusOK, event)
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errors.NewInvalidArgumentError("invalid "+key, map[string]interface{}{key: raw})
	}
	return v, nil
}
