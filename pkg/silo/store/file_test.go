package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tata-ai/tata/pkg/silo"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "enhanced-core-template.json", FileName(silo.NodeCore))
	assert.Equal(t, "enhanced-zkp-template.json", FileName(silo.NodeZKP))
}

func TestFileStoreWritesExplicitOwner(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PutBand(context.Background(), silo.NodeCore, silo.BandDatabase, silo.BandData{"type": "PostgreSQL"}))

	content, err := os.ReadFile(filepath.Join(dir, "enhanced-core-template.json"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Equal(t, "Core", doc["nodeType"])
	assert.Equal(t, map[string]any{"type": "PostgreSQL"}, doc["database"])

	leftovers, err := filepath.Glob(filepath.Join(dir, ".template-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStoreMissingDirIsEmpty(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)

	all, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStoreIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Core-notes.json"), []byte(`{"database":{"type":"x"}}`), 0644))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	all, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStoreRejectsDocumentsWithoutOwner(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{name: "missing nodeType", content: `{"version":"4.1"}`, errText: "tata silo migrate"},
		{name: "mismatched nodeType", content: `{"nodeType":"Flow","version":"4.1"}`, errText: `expected "Core"`},
		{name: "invalid json", content: `{"version":`, errText: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName(silo.NodeCore)), []byte(tt.content), 0644))

			s, err := NewFileStore(dir)
			require.NoError(t, err)

			_, err = s.LoadAll(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)

			err = s.PutBand(context.Background(), silo.NodeCore, silo.BandDatabase, silo.BandData{"type": "x"})
			assert.Error(t, err, "writes must not clobber an unreadable document")
		})
	}
}

func TestFileStoreCacheServesRepeatedReads(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, WithCacheTTL(time.Hour))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.PutBand(ctx, silo.NodeFlow, silo.BandSecurity, silo.BandData{"tls": true}))

	// Edit behind the store's back; without a watcher the cached copy wins.
	path := filepath.Join(dir, FileName(silo.NodeFlow))
	require.NoError(t, os.WriteFile(path, []byte(`{"nodeType":"Flow","security":{"tls":false}}`), 0644))

	tpl, ok, err := s.Get(ctx, silo.NodeFlow)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, true, tpl.Band(silo.BandSecurity)["tls"])
}

func TestFileStoreWatchFlushesCache(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, WithCacheTTL(time.Hour), WithWatch(), WithWatchDebounce(10*time.Millisecond))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.PutBand(ctx, silo.NodeFlow, silo.BandSecurity, silo.BandData{"tls": true}))

	path := filepath.Join(dir, FileName(silo.NodeFlow))
	require.NoError(t, os.WriteFile(path, []byte(`{"nodeType":"Flow","security":{"tls":false}}`), 0644))

	assert.Eventually(t, func() bool {
		tpl, ok, err := s.Get(ctx, silo.NodeFlow)
		return err == nil && ok && tpl.Band(silo.BandSecurity)["tls"] == false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestFileStoreCloseIsIdempotent(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), WithWatch())
	require.NoError(t, err)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestFileStoreReadAfterWriteWithConcurrentMisses(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), WithCacheTTL(time.Hour))
	require.NoError(t, err)
	ctx := context.Background()

	done := make(chan struct{})
	var wg sync.WaitGroup
	defer func() {
		close(done)
		wg.Wait()
	}()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				s.cache.Flush()
				_, _, err := s.Get(ctx, silo.NodeCore)
				assert.NoError(t, err)
			}
		}()
	}

	for i := 0; i < 200; i++ {
		want := "v" + strconv.Itoa(i)
		require.NoError(t, s.PutBand(ctx, silo.NodeCore, silo.BandDatabase, silo.BandData{"version": want}))
		tpl, ok, err := s.Get(ctx, silo.NodeCore)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want, tpl.Band(silo.BandDatabase)["version"], "write %d", i)
	}
}
