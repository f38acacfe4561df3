package common

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/silo"
	silohttp "github.com/tata-ai/tata/pkg/silo/http"
	"github.com/tata-ai/tata/pkg/silo/service"
	"github.com/tata-ai/tata/pkg/silo/store"
)

func newTestClient(t *testing.T, seed bool) *Client {
	t.Helper()
	svc := service.NewTemplateService(store.NewMemoryStore(), logger.NewNop())
	if seed {
		_, err := svc.SeedSamples(context.Background())
		require.NoError(t, err)
	}

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		silohttp.NewHandler(svc).RegisterRoutes(r)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/api/v1/")
}

func TestClientUpdateAndRead(t *testing.T) {
	c := newTestClient(t, false)

	res, err := c.UpdateBand("Flow", "resources", map[string]any{"cpu": 2})
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = c.UpdateBand("Flow", "security", `{"tls": true}`)
	require.NoError(t, err)

	band, err := c.GetBand("Flow", "security")
	require.NoError(t, err)
	assert.True(t, band.Configured)
	assert.Equal(t, true, band.Data["tls"])

	templates, err := c.ListTemplates()
	require.NoError(t, err)
	require.Contains(t, templates, silo.NodeFlow)
	assert.Equal(t, float64(2), templates[silo.NodeFlow].Band(silo.BandResources)["cpu"])

	nodes, err := c.ListNodeTypes()
	require.NoError(t, err)
	assert.Equal(t, 33, nodes[1].Completion)
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t, false)

	_, err := c.UpdateBand("Edge", "database", map[string]any{"x": 1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "INVALID_ARGUMENT", apiErr.Type)

	_, err = c.UpdateBand("Core", "database", "{not json")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "PARSE_ERROR", apiErr.Type)

	_, err = c.GetTemplate("Edge")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestClientExportImport(t *testing.T) {
	src := newTestClient(t, true)
	dst := newTestClient(t, false)

	content, err := src.Export("yaml")
	require.NoError(t, err)

	res, err := dst.Import(content, "yaml")
	require.NoError(t, err)
	assert.Len(t, res.Imported, 5)

	summary, err := dst.Summary()
	require.NoError(t, err)
	assert.Equal(t, 100, summary.Nodes[0].Completion)

	cmp, err := dst.Compare("resources", []string{"scaling.max_replicas"})
	require.NoError(t, err)
	require.Len(t, cmp.Rows, 1)

	env, err := dst.Env("Core")
	require.NoError(t, err)
	assert.Contains(t, env, "TATA_CORE_DATABASE_HOST=db.tata.local")
}
