package http

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tata-ai/tata/pkg/backups/service"
	"github.com/tata-ai/tata/pkg/errors"
	"github.com/tata-ai/tata/pkg/http/response"
)

type Handler struct {
	service *service.BackupService
}

func NewHandler(service *service.BackupService) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the snapshot routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", response.Middleware(h.ListSnapshots))
		r.Post("/", response.Middleware(h.CreateSnapshot))
		r.Get("/{name}", response.Middleware(h.GetSnapshot))
		r.Post("/{name}/restore", response.Middleware(h.RestoreSnapshot))
	})
}

// ListSnapshots godoc
// @Summary List template snapshots
// @Description Snapshot files in the snapshot directory, newest first
// @Tags snapshots
// @Produce json
// @Success 200 {array} service.SnapshotDTO
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /snapshots [get]
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) error {
	snapshots, err := h.service.ListSnapshots(r.Context())
	if err != nil {
		return errors.NewStoreIOError("failed to list snapshots", err, nil)
	}
	return response.WriteJSON(w, http.StatusOK, snapshots)
}

// CreateSnapshot godoc
// @Summary Create a template snapshot
// @Description Exports every template to a new snapshot file
// @Tags snapshots
// @Produce json
// @Success 201 {object} service.SnapshotDTO
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /snapshots [post]
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) error {
	snapshot, err := h.service.CreateSnapshot(r.Context())
	if err != nil {
		return errors.NewStoreIOError("failed to create snapshot", err, nil)
	}
	return response.WriteJSON(w, http.StatusCreated, snapshot)
}

// GetSnapshot godoc
// @Summary Download a template snapshot
// @Tags snapshots
// @Produce json
// @Param name path string true "Snapshot file name"
// @Success 200 {object} object
// @Failure 400 {object} response.ErrorResponse "Invalid snapshot name"
// @Failure 404 {object} response.ErrorResponse "Snapshot not found"
// @Router /snapshots/{name} [get]
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	content, err := h.service.GetSnapshot(r.Context(), name)
	if err != nil {
		return snapshotError(name, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(content)
	return err
}

// RestoreSnapshot godoc
// @Summary Restore a template snapshot
// @Description Replaces the templates contained in the snapshot
// @Tags snapshots
// @Produce json
// @Param name path string true "Snapshot file name"
// @Success 200 {object} service.RestoreResult
// @Failure 400 {object} response.ErrorResponse "Invalid snapshot"
// @Failure 404 {object} response.ErrorResponse "Snapshot not found"
// @Router /snapshots/{name}/restore [post]
func (h *Handler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	result, err := h.service.RestoreSnapshot(r.Context(), name)
	if err != nil {
		return snapshotError(name, err)
	}
	return response.WriteJSON(w, http.StatusOK, result)
}

func snapshotError(name string, err error) error {
	details := map[string]interface{}{"name": name}
	switch {
	case stderrors.Is(err, service.ErrInvalidSnapshotName):
		return errors.NewInvalidArgumentError("invalid snapshot name", details)
	case stderrors.Is(err, service.ErrSnapshotNotFound):
		return errors.NewNotFoundError("snapshot not found", details)
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.NewStoreIOError("failed to read snapshot", err, details)
}
