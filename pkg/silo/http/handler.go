package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/tata-ai/tata/pkg/errors"
	"github.com/tata-ai/tata/pkg/http/response"
	"github.com/tata-ai/tata/pkg/silo"
	"github.com/tata-ai/tata/pkg/silo/compare"
	"github.com/tata-ai/tata/pkg/silo/service"
)

const maxImportSize = 10 << 20

type Handler struct {
	service  *service.TemplateService
	validate *validator.Validate
}

func NewHandler(service *service.TemplateService) *Handler {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the template silo routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/template-silos", func(r chi.Router) {
		r.Get("/", response.Middleware(h.ListTemplates))
		r.Post("/", response.Middleware(h.UpdateBand))

		r.Get("/bands", response.Middleware(h.ListBands))
		r.Get("/nodes", response.Middleware(h.ListNodeTypes))
		r.Get("/summary", response.Middleware(h.GetSummary))
		r.Get("/compare/{bandId}", response.Middleware(h.CompareBand))
		r.Get("/export", response.Middleware(h.Export))
		r.Post("/import", response.Middleware(h.Import))

		r.Get("/{nodeType}", response.Middleware(h.GetTemplate))
		r.Get("/{nodeType}/env", response.Middleware(h.GetEnv))
		r.Get("/{nodeType}/{bandId}", response.Middleware(h.GetBand))
	})
}

// ListTemplates godoc
// @Summary List all templates
// @Description Get every node type's template keyed by node type. An empty store yields an empty object.
// @Tags template-silos
// @Produce json
// @Success 200 {object} TemplatesResponse
// @Failure 500 {object} response.ErrorResponse "Store failure"
// @Router /template-silos [get]
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) error {
	templates, err := h.service.LoadAll(r.Context())
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, TemplatesResponse{Templates: templates})
}

// UpdateBand godoc
// @Summary Replace a template band
// @Description Replace the configuration of one band for one node type
// @Tags template-silos
// @Accept json
// @Produce json
// @Param request body UpdateBandRequest true "Band update"
// @Success 200 {object} UpdateBandResponse
// @Failure 400 {object} response.ErrorResponse "Missing fields or invalid node type/band"
// @Failure 422 {object} response.ErrorResponse "Band data is not valid JSON"
// @Failure 500 {object} response.ErrorResponse "Store failure"
// @Router /template-silos [post]
func (h *Handler) UpdateBand(w http.ResponseWriter, r *http.Request) error {
	var req UpdateBandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return errors.NewParseError("invalid request body", err, map[string]interface{}{
			"detail": err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return missingFields(err)
	}

	ctx := r.Context()
	data := bytes.TrimSpace(req.Data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte(`""`)):
		return errors.NewMissingFieldsError("Missing required fields", map[string]interface{}{
			"fields": []string{"data"},
		})
	case data[0] == '{':
		var band silo.BandData
		if err := json.Unmarshal(data, &band); err != nil {
			return errors.NewParseError("band data is not a valid JSON object", err, nil)
		}
		if err := h.service.PutBand(ctx, req.NodeType, req.BandID, band); err != nil {
			return err
		}
	case data[0] == '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return errors.NewParseError("invalid data string", err, nil)
		}
		if err := h.service.PutBandRaw(ctx, req.NodeType, req.BandID, raw); err != nil {
			return err
		}
	default:
		return errors.NewInvalidArgumentError("data must be a JSON object or a string of JSON text", map[string]interface{}{
			"bandId": req.BandID,
		})
	}

	return response.WriteJSON(w, http.StatusOK, UpdateBandResponse{
		Success:  true,
		NodeType: req.NodeType,
		BandID:   req.BandID,
	})
}

// ListBands godoc
// @Summary List bands
// @Description Get the six configuration bands in display order
// @Tags template-silos
// @Produce json
// @Success 200 {array} silo.Band
// @Router /template-silos/bands [get]
func (h *Handler) ListBands(w http.ResponseWriter, r *http.Request) error {
	return response.WriteJSON(w, http.StatusOK, silo.ListBands())
}

// ListNodeTypes godoc
// @Summary List node types
// @Description Get the five node types with their completion percentage
// @Tags template-silos
// @Produce json
// @Success 200 {array} NodeTypeResponse
// @Failure 500 {object} response.ErrorResponse "Store failure"
// @Router /template-silos/nodes [get]
func (h *Handler) ListNodeTypes(w http.ResponseWriter, r *http.Request) error {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		return err
	}

	nodes := silo.ListNodeTypes()
	out := make([]NodeTypeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = NodeTypeResponse{
			ID:          n.ID,
			Service:     n.Service,
			Icon:        n.Icon,
			DefaultPort: n.DefaultPort,
			Completion:  compare.Completion(snap, n.ID),
		}
	}
	return response.WriteJSON(w, http.StatusOK, out)
}

// GetSummary godoc
// @Summary Completion summary
// @Description Get completion per node type and coverage per band
// @Tags template-silos
// @Produce json
// @Success 200 {object} compare.Overview
// @Failure 500 {object} response.ErrorResponse "Store failure"
// @Router /template-silos/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) error {
	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, compare.Summary(snap))
}

// CompareBand godoc
// @Summary Compare a band across node types
// @Description Compare field values of one band across every node type. Absent values read "-".
// @Tags template-silos
// @Produce json
// @Param bandId path string true "Band ID"
// @Param field query []string false "Dotted field path; repeatable. Defaults to the band's preset rows." collectionFormat(multi)
// @Success 200 {object} CompareResponse
// @Failure 400 {object} response.ErrorResponse "Invalid field path"
// @Failure 404 {object} response.ErrorResponse "Unknown band"
// @Router /template-silos/compare/{bandId} [get]
func (h *Handler) CompareBand(w http.ResponseWriter, r *http.Request) error {
	bandID := chi.URLParam(r, "bandId")
	band, ok := silo.LookupBand(bandID)
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("unknown band: %s", bandID), map[string]interface{}{
			"bandId": bandID,
		})
	}

	fields := compare.PresetFields(band.ID)
	if paths := r.URL.Query()["field"]; len(paths) > 0 {
		fields = make([]compare.Field, len(paths))
		for i, p := range paths {
			fields[i] = compare.Field{Label: p, Path: p, Kind: compare.FieldText}
		}
	}

	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		return err
	}
	rows, err := compare.Matrix(snap, band.ID, fields)
	if err != nil {
		return errors.NewInvalidArgumentError(err.Error(), map[string]interface{}{
			"bandId": bandID,
		})
	}
	return response.WriteJSON(w, http.StatusOK, CompareResponse{BandID: band.ID, Rows: rows})
}

// Export godoc
// @Summary Export templates
// @Description Download every template as a JSON or YAML document
// @Tags template-silos
// @Produce json
// @Produce application/yaml
// @Param format query string false "json (default) or yaml"
// @Success 200 {object} TemplatesResponse
// @Failure 400 {object} response.ErrorResponse "Unsupported format"
// @Router /template-silos/export [get]
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) error {
	format, err := service.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return err
	}
	content, err := h.service.Export(r.Context(), format)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tata-templates.%s"`, format))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(content)
	return err
}

// Import godoc
// @Summary Import templates
// @Description Replace the templates contained in a JSON or YAML document. Nothing is written if any entry is invalid.
// @Tags template-silos
// @Accept json
// @Accept application/yaml
// @Produce json
// @Param format query string false "json (default) or yaml"
// @Param request body TemplatesResponse true "Templates document"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} response.ErrorResponse "Invalid node type or band"
// @Failure 422 {object} response.ErrorResponse "Malformed document"
// @Router /template-silos/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) error {
	format, err := service.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return err
	}
	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		return errors.NewParseError("failed to read request body", err, nil)
	}

	result, err := h.service.Import(r.Context(), content, format)
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, ImportResponse{Success: true, Imported: result.Imported})
}

// GetTemplate godoc
// @Summary Get a node's template
// @Tags template-silos
// @Produce json
// @Param nodeType path string true "Node type"
// @Success 200 {object} object
// @Failure 404 {object} response.ErrorResponse "Unknown node type"
// @Router /template-silos/{nodeType} [get]
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) error {
	tpl, err := h.service.GetTemplate(r.Context(), chi.URLParam(r, "nodeType"))
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, tpl)
}

// GetEnv godoc
// @Summary Render a node's environment file
// @Description Render the node's template as KEY=value lines
// @Tags template-silos
// @Produce plain
// @Param nodeType path string true "Node type"
// @Success 200 {string} string
// @Failure 404 {object} response.ErrorResponse "Unknown node type"
// @Router /template-silos/{nodeType}/env [get]
func (h *Handler) GetEnv(w http.ResponseWriter, r *http.Request) error {
	env, err := h.service.RenderEnv(r.Context(), chi.URLParam(r, "nodeType"))
	if err != nil {
		return err
	}
	render.PlainText(w, r, env)
	return nil
}

// GetBand godoc
// @Summary Get one band of a node's template
// @Description An unconfigured band returns an empty object
// @Tags template-silos
// @Produce json
// @Param nodeType path string true "Node type"
// @Param bandId path string true "Band ID"
// @Success 200 {object} BandResponse
// @Failure 404 {object} response.ErrorResponse "Unknown node type or band"
// @Router /template-silos/{nodeType}/{bandId} [get]
func (h *Handler) GetBand(w http.ResponseWriter, r *http.Request) error {
	nodeType := chi.URLParam(r, "nodeType")
	bandID := chi.URLParam(r, "bandId")

	data, err := h.service.GetBand(r.Context(), nodeType, bandID)
	if err != nil {
		return err
	}
	return response.WriteJSON(w, http.StatusOK, BandResponse{
		NodeType:   nodeType,
		BandID:     bandID,
		Configured: data.Configured(),
		Data:       data,
	})
}

func missingFields(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewInvalidArgumentError("validation failed", map[string]interface{}{
			"detail": err.Error(),
		})
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return errors.NewMissingFieldsError("Missing required fields", map[string]interface{}{
		"fields": fields,
	})
}
