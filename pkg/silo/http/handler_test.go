package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tata-ai/tata/pkg/http/response"
	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/silo"
	"github.com/tata-ai/tata/pkg/silo/service"
	"github.com/tata-ai/tata/pkg/silo/store"
)

func setupRouter(t *testing.T, seed bool) (http.Handler, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	svc := service.NewTemplateService(st, logger.NewNop())
	if seed {
		_, err := svc.SeedSamples(context.Background())
		require.NoError(t, err)
	}

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		NewHandler(svc).RegisterRoutes(r)
	})
	return r, st
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListTemplatesEmpty(t *testing.T) {
	h, _ := setupRouter(t, false)

	rec := do(t, h, http.MethodGet, "/api/v1/template-silos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"templates":{}}`, rec.Body.String())
}

func TestUpdateBandThenRead(t *testing.T) {
	h, _ := setupRouter(t, false)

	rec := do(t, h, http.MethodPost, "/api/v1/template-silos",
		`{"nodeType":"Core","bandId":"database","data":{"type":"PostgreSQL"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"nodeType":"Core","bandId":"database"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/template-silos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"templates":{"Core":{"database":{"type":"PostgreSQL"}}}}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/template-silos/Core/database", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"nodeType":"Core","bandId":"database","configured":true,"data":{"type":"PostgreSQL"}}`, rec.Body.String())
}

func TestUpdateBandRawText(t *testing.T) {
	h, _ := setupRouter(t, false)

	rec := do(t, h, http.MethodPost, "/api/v1/template-silos",
		`{"nodeType":"Flow","bandId":"communication","data":"{\"protocol\":\"grpc\"}"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/template-silos/Flow/communication", "")
	assert.JSONEq(t, `{"nodeType":"Flow","bandId":"communication","configured":true,"data":{"protocol":"grpc"}}`, rec.Body.String())
}

func TestUpdateBandErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantType   string
	}{
		{
			name:       "missing data",
			body:       `{"nodeType":"Core","bandId":"database"}`,
			wantStatus: http.StatusBadRequest,
			wantType:   "MISSING_FIELDS",
		},
		{
			name:       "missing everything",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantType:   "MISSING_FIELDS",
		},
		{
			name:       "null data",
			body:       `{"nodeType":"Core","bandId":"database","data":null}`,
			wantStatus: http.StatusBadRequest,
			wantType:   "MISSING_FIELDS",
		},
		{
			name:       "unknown band",
			body:       `{"nodeType":"Core","bandId":"network","data":{"x":1}}`,
			wantStatus: http.StatusBadRequest,
			wantType:   "INVALID_ARGUMENT",
		},
		{
			name:       "unknown node type",
			body:       `{"nodeType":"Edge","bandId":"database","data":{"x":1}}`,
			wantStatus: http.StatusBadRequest,
			wantType:   "INVALID_ARGUMENT",
		},
		{
			name:       "array data",
			body:       `{"nodeType":"Core","bandId":"database","data":[1,2]}`,
			wantStatus: http.StatusBadRequest,
			wantType:   "INVALID_ARGUMENT",
		},
		{
			name:       "unparsable raw text",
			body:       `{"nodeType":"Core","bandId":"database","data":"{\"type\":"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "PARSE_ERROR",
		},
		{
			name:       "malformed body",
			body:       `{"nodeType":`,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   "PARSE_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, st := setupRouter(t, false)

			rec := do(t, h, http.MethodPost, "/api/v1/template-silos", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantType, body.Type)
			assert.NotEmpty(t, body.Error)

			all, err := st.LoadAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestMissingFieldsAreNamed(t *testing.T) {
	h, _ := setupRouter(t, false)

	rec := do(t, h, http.MethodPost, "/api/v1/template-silos", `{"bandId":"database"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.ElementsMatch(t, []any{"nodeType", "data"}, body.Details["fields"])
}

func TestGetBand(t *testing.T) {
	h, _ := setupRouter(t, true)

	rec := do(t, h, http.MethodGet, "/api/v1/template-silos/Moto/security", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"nodeType":"Moto","bandId":"security","configured":false,"data":{}}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/template-silos/Moto/network", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Type)

	rec = do(t, h, http.MethodGet, "/api/v1/template-silos/Edge", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBandsAndNodes(t *testing.T) {
	h, _ := setupRouter(t, true)

	rec := do(t, h, http.MethodGet, "/api/v1/template-silos/bands", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var bands []silo.Band
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bands))
	assert.Len(t, bands, 6)

	rec = do(t, h, http.MethodGet, "/api/v1/template-silos/nodes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var nodes []NodeTypeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nodes))
	require.Len(t, nodes, 5)
	assert.Equal(t, NodeTypeResponse{ID: silo.NodeMoto, Service: "tata-moto", Icon: "⚙️", DefaultPort: 8004, Completion: 33}, nodes[3])
}

func TestCompareBand(t *testing.T) {
	h, _ := setupRouter(t, true)

	rec := do(t, h, http.MethodGet, "/api/v1/template-silos/compare/communication", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var presets CompareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &presets))
	require.Len(t, presets.Rows, 3)
	assert.Equal(t, "Protocol", presets.Rows[0].Label)
	assert.Equal(t, "-", presets.Rows[0].Values[silo.NodeMemex])
	assert.Equal(t, "rest", presets.Rows[1].Values[silo.NodeMoto])

	rec = do(t, h, http.MethodGet, "/api/v1/template-silos/compare/resources?field=scaling.max_replicas&field=cpu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var custom CompareResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &custom))
	require.Len(t, custom.Rows, 2)
	assert.Equal(t, float64(6), custom.Rows[0].Values[silo.NodeMemex])
	assert.Equal(t, "-", custom.Rows[0].Values[silo.NodeMoto])

	rec = do(t, h, http.MethodGet, "/api/v1/template-silos/compare/network", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/template-silos/compare/resources?field=a..b", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummary(t *testing.T) {
	h, _ := setupRouter(t, true)

	rec := do(t, h, http.MethodGet, "/api/v1/template-silos/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Nodes []struct {
			NodeType   string `json:"nodeType"`
			Completion int    `json:"completion"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Nodes, 5)
	assert.Equal(t, 100, body.Nodes[0].Completion)
	assert.Equal(t, 33, body.Nodes[3].Completion)
}

func TestExportImport(t *testing.T) {
	src, _ := setupRouter(t, true)

	rec := do(t, src, http.MethodGet, "/api/v1/template-silos/export?format=yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "tata-templates.yaml")
	exported := rec.Body.String()
	assert.Contains(t, exported, "templates:")

	dst, _ := setupRouter(t, false)
	rec = do(t, dst, http.MethodPost, "/api/v1/template-silos/import?format=yaml", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"imported":["Core","Flow","Memex","Moto","ZKP"]}`, rec.Body.String())

	rec = do(t, dst, http.MethodGet, "/api/v1/template-silos/export?format=toml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, dst, http.MethodPost, "/api/v1/template-silos/import", `{"templates":{"Edge":{}}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEnv(t *testing.T) {
	h, _ := setupRouter(t, true)

	rec := do(t, h, http.MethodGet, "/api/v1/template-silos/ZKP/env", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "TATA_ZKP_DATABASE_DATABASE_NAME=tata_zkp_db\n")
}

func TestListTemplatesUnreadableStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.FileName(silo.NodeCore)), []byte("{not json"), 0644))
	st, err := store.NewFileStore(dir)
	require.NoError(t, err)
	svc := service.NewTemplateService(st, logger.NewNop())

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		NewHandler(svc).RegisterRoutes(r)
	})

	rec := do(t, r, http.MethodGet, "/api/v1/template-silos", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "STORE_IO_ERROR", body.Type)
}
