package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tata-ai/tata/pkg/errors"
	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/silo"
	"github.com/tata-ai/tata/pkg/silo/compare"
	"github.com/tata-ai/tata/pkg/silo/store"
)

func newService(t *testing.T, opts ...Option) (*TemplateService, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewTemplateService(st, logger.NewNop(), opts...), st
}

func TestLoadAllEmptyStore(t *testing.T) {
	svc, _ := newService(t)

	templates, err := svc.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestPutBandThenGetBand(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.PutBand(ctx, "Core", "database", silo.BandData{"type": "PostgreSQL"}))

	got, err := svc.GetBand(ctx, "Core", "database")
	require.NoError(t, err)
	assert.Equal(t, silo.BandData{"type": "PostgreSQL"}, got)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 17, compare.Completion(snap, silo.NodeCore))
}

func TestGetBandUnconfigured(t *testing.T) {
	svc, _ := newService(t)

	got, err := svc.GetBand(context.Background(), "Moto", "security")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetBandUnknownIDs(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetBand(context.Background(), "Edge", "database")
	assert.True(t, errors.IsType(err, errors.NotFoundError))

	_, err = svc.GetBand(context.Background(), "Core", "network")
	assert.True(t, errors.IsType(err, errors.NotFoundError))
}

func TestPutBandReplacesWithoutMerge(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.PutBand(ctx, "Flow", "communication", silo.BandData{"protocol": "grpc", "fallback": "rest"}))
	require.NoError(t, svc.PutBand(ctx, "Flow", "communication", silo.BandData{"protocol": "http"}))

	got, err := svc.GetBand(ctx, "Flow", "communication")
	require.NoError(t, err)
	assert.Equal(t, silo.BandData{"protocol": "http"}, got)
}

func TestPutBandIsIdempotent(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	data := silo.BandData{"cpu": "2", "memory": "4Gi"}

	require.NoError(t, svc.PutBand(ctx, "Memex", "resources", data))
	first, err := st.LoadAll(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.PutBand(ctx, "Memex", "resources", data))
	second, err := st.LoadAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPutBandInvalidArgumentLeavesStoreUntouched(t *testing.T) {
	tests := []struct {
		name     string
		nodeType string
		bandID   string
		data     silo.BandData
	}{
		{name: "unknown band", nodeType: "Core", bandID: "network", data: silo.BandData{"x": 1}},
		{name: "unknown node", nodeType: "Edge", bandID: "database", data: silo.BandData{"x": 1}},
		{name: "lowercase node", nodeType: "core", bandID: "database", data: silo.BandData{"x": 1}},
		{name: "nil data", nodeType: "Core", bandID: "database", data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newService(t)
			ctx := context.Background()

			err := svc.PutBand(ctx, tt.nodeType, tt.bandID, tt.data)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.InvalidArgumentError), "got %v", err)

			all, err := st.LoadAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestPutBandRaw(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.PutBandRaw(ctx, "Core", "database", `{"type":"PostgreSQL","port":5432}`))

	err := svc.PutBandRaw(ctx, "Core", "database", `{"type": "MySQL"`)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ParseError))

	got, err := svc.GetBand(ctx, "Core", "database")
	require.NoError(t, err)
	assert.Equal(t, "PostgreSQL", got["type"], "failed parse must not modify the store")

	for _, raw := range []string{`null`, `[1,2]`, `"text"`, ``} {
		err := svc.PutBandRaw(ctx, "Core", "database", raw)
		assert.True(t, errors.IsType(err, errors.ParseError), "input %q: %v", raw, err)
	}

	err = svc.PutBandRaw(ctx, "Core", "network", `{"x":1}`)
	assert.True(t, errors.IsType(err, errors.InvalidArgumentError))
}

func TestStrictBands(t *testing.T) {
	svc, _ := newService(t, WithStrictBands())
	ctx := context.Background()

	err := svc.PutBand(ctx, "Core", "database", silo.BandData{"port": "not-a-port"})
	assert.True(t, errors.IsType(err, errors.InvalidArgumentError))

	assert.NoError(t, svc.PutBand(ctx, "Core", "database", silo.BandData{"port": float64(5432), "custom": "kept"}))

	loose, _ := newService(t)
	assert.NoError(t, loose.PutBand(ctx, "Core", "database", silo.BandData{"port": "not-a-port"}))
}

func TestSeedSamples(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	seeded, err := svc.SeedSamples(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap, 5)
	assert.Equal(t, 100, compare.Completion(snap, silo.NodeCore))
	assert.Equal(t, 50, compare.Completion(snap, silo.NodeFlow))
	assert.Equal(t, 50, compare.Completion(snap, silo.NodeMemex))
	assert.Equal(t, 33, compare.Completion(snap, silo.NodeMoto))
	assert.Equal(t, 50, compare.Completion(snap, silo.NodeZKP))
	assert.Equal(t, "4.1", snap[silo.NodeZKP].Version)

	require.NoError(t, svc.PutBand(ctx, "Moto", "resources", silo.BandData{"cpu": "1"}))
	seeded, err = svc.SeedSamples(ctx)
	require.NoError(t, err)
	assert.False(t, seeded, "a populated store is never reseeded")

	got, err := svc.GetBand(ctx, "Moto", "resources")
	require.NoError(t, err)
	assert.Equal(t, "1", got["cpu"])
}

func TestSamplesPassStrictValidation(t *testing.T) {
	svc, _ := newService(t, WithStrictBands())
	samples, err := SampleTemplates()
	require.NoError(t, err)

	for node, tpl := range samples {
		for band, data := range tpl.Bands {
			assert.NoError(t, svc.validateBand(band, data), "%s/%s", node, band)
		}
	}
}

func TestConcurrentPutBandDifferentBands(t *testing.T) {
	st, err := store.NewFileStore(filepath.Join(t.TempDir(), "templates"))
	require.NoError(t, err)
	svc := NewTemplateService(st, logger.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, band := range silo.BandIDs() {
		wg.Add(1)
		go func(band silo.BandID) {
			defer wg.Done()
			assert.NoError(t, svc.PutBand(ctx, "Core", string(band), silo.BandData{"owner": string(band)}))
		}(band)
	}
	wg.Wait()

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, compare.Completion(snap, silo.NodeCore))
}

func TestRenderEnv(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.SeedSamples(ctx)
	require.NoError(t, err)

	env, err := svc.RenderEnv(ctx, "Core")
	require.NoError(t, err)

	lines := strings.Split(env, "\n")
	assert.Equal(t, "# tata-core environment", lines[0])
	assert.Equal(t, "# template version: 4.1", lines[1])
	assert.Contains(t, lines, "TATA_CORE_DATABASE_HOST=db.tata.local")
	assert.Contains(t, lines, "TATA_CORE_DATABASE_PORT=5432")
	assert.Contains(t, lines, "TATA_CORE_DATABASE_AUTO_MIGRATION=true")
	assert.Contains(t, lines, `TATA_CORE_DATABASE_PASSWORD="${TATA_CORE_DB_PASSWORD}"`)
	assert.Contains(t, lines, `TATA_CORE_AUTHENTICATION_ENCRYPTION_PROTOCOL="TLS 1.3"`)
	assert.Contains(t, lines, "TATA_CORE_SCHEMA_MANAGEMENT_VERSIONING_RETAIN_VERSIONS=5")
	assert.Contains(t, lines, "TATA_CORE_SECURITY_AUDITING_AUDITLOGS_ENDPOINT=/audit/logs")

	empty, err := svc.RenderEnv(ctx, "Edge")
	assert.Empty(t, empty)
	assert.True(t, errors.IsType(err, errors.NotFoundError))
}

func TestRenderEnvUnconfiguredNode(t *testing.T) {
	svc, _ := newService(t)

	env, err := svc.RenderEnv(context.Background(), "Flow")
	require.NoError(t, err)
	assert.Equal(t, "# tata-flow environment\n# template version: unversioned\n", env)
}

func TestRenderEnvQuotesUnsafeValues(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.PutBand(ctx, "Flow", "database", silo.BandData{
		"banner": "line one\nline two\r\nline three",
		"dsn":    "host=db sslmode=disable",
		"token":  "a$b",
		"plain":  "postgres",
	}))

	env, err := svc.RenderEnv(ctx, "Flow")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(env, "\n"), "\n")
	assert.Contains(t, lines, `TATA_FLOW_DATABASE_BANNER="line one\nline two\r\nline three"`)
	assert.Contains(t, lines, `TATA_FLOW_DATABASE_DSN="host=db sslmode=disable"`)
	assert.Contains(t, lines, `TATA_FLOW_DATABASE_TOKEN="a$b"`)
	assert.Contains(t, lines, "TATA_FLOW_DATABASE_PLAIN=postgres")
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		assert.True(t, strings.HasPrefix(line, "TATA_FLOW_DATABASE_"), "stray line %q", line)
	}
}

type failingStore struct {
	store.Store
	fail bool
}

func (f *failingStore) LoadAll(ctx context.Context) (map[silo.NodeTypeID]*silo.Template, error) {
	if f.fail {
		return nil, fmt.Errorf("disk unavailable")
	}
	return f.Store.LoadAll(ctx)
}

func (f *failingStore) PutBand(ctx context.Context, node silo.NodeTypeID, band silo.BandID, data silo.BandData) error {
	if f.fail {
		return fmt.Errorf("disk unavailable")
	}
	return f.Store.PutBand(ctx, node, band, data)
}

func TestStoreFailureSurfacesAsStoreIOError(t *testing.T) {
	st := &failingStore{Store: store.NewMemoryStore()}
	svc := NewTemplateService(st, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.PutBand(ctx, "Core", "database", silo.BandData{"type": "PostgreSQL"}))

	st.fail = true
	err := svc.PutBand(ctx, "Core", "database", silo.BandData{"type": "MySQL"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.StoreIOError))

	_, err = svc.LoadAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.StoreIOError))

	st.fail = false
	got, err := svc.GetBand(ctx, "Core", "database")
	require.NoError(t, err)
	assert.Equal(t, silo.BandData{"type": "PostgreSQL"}, got)
}

func TestFileStoreOwnerMismatchIsStoreIOError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "templates")
	require.NoError(t, os.MkdirAll(dir, 0755))
	foreign := `{"nodeType": "Flow", "database": {"type": "SQLite"}}`
	path := filepath.Join(dir, store.FileName(silo.NodeCore))
	require.NoError(t, os.WriteFile(path, []byte(foreign), 0644))

	st, err := store.NewFileStore(dir)
	require.NoError(t, err)
	svc := NewTemplateService(st, logger.NewNop())
	ctx := context.Background()

	_, err = svc.LoadAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.StoreIOError))

	err = svc.PutBand(ctx, "Core", "database", silo.BandData{"type": "PostgreSQL"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.StoreIOError))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, foreign, string(content))
}
