package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/silo"
)

const (
	defaultCacheTTL      = 30 * time.Second
	defaultWatchDebounce = 100 * time.Millisecond
)

var _ Store = (*FileStore)(nil)

// FileStore persists one JSON document per node type in a directory.
// Documents are named enhanced-<node>-template.json and must carry an
// explicit nodeType field matching their file name.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	cache  *gocache.Cache
	logger *logger.Logger

	watch    bool
	debounce time.Duration
	watcher  *dirWatcher
	stopped  chan struct{}
}

// FileOption configures a FileStore
type FileOption func(*FileStore)

// WithLogger sets the logger used for cache and watcher events
func WithLogger(l *logger.Logger) FileOption {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCacheTTL bounds how long a parsed document is served from memory
func WithCacheTTL(ttl time.Duration) FileOption {
	return func(s *FileStore) {
		s.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithWatch flushes the cache whenever a document changes on disk
func WithWatch() FileOption {
	return func(s *FileStore) {
		s.watch = true
	}
}

// WithWatchDebounce overrides the delay used to collapse change bursts
func WithWatchDebounce(d time.Duration) FileOption {
	return func(s *FileStore) {
		s.debounce = d
	}
}

// NewFileStore opens a directory-backed store. The directory is created
// on first write; a missing directory reads as an empty store.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("templates directory is required")
	}
	s := &FileStore{
		dir:      dir,
		cache:    gocache.New(defaultCacheTTL, 2*defaultCacheTTL),
		logger:   logger.NewNop(),
		debounce: defaultWatchDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.watch {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create templates directory: %w", err)
		}
		w, err := newDirWatcher(dir, s.debounce)
		if err != nil {
			return nil, err
		}
		changes, err := w.start()
		if err != nil {
			w.stop()
			return nil, err
		}
		s.watcher = w
		s.stopped = make(chan struct{})
		go s.invalidateOnChange(w, changes)
	}
	return s, nil
}

// FileName returns the canonical document name for a node type
func FileName(node silo.NodeTypeID) string {
	return fmt.Sprintf("enhanced-%s-template.json", strings.ToLower(string(node)))
}

// Dir returns the templates directory
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) LoadAll(ctx context.Context) (map[silo.NodeTypeID]*silo.Template, error) {
	out := make(map[silo.NodeTypeID]*silo.Template)
	for _, node := range silo.NodeTypeIDs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tpl, ok, err := s.load(node)
		if err != nil {
			return nil, err
		}
		if ok {
			out[node] = tpl.Clone()
		}
	}
	return out, nil
}

func (s *FileStore) Get(ctx context.Context, node silo.NodeTypeID) (*silo.Template, bool, error) {
	tpl, ok, err := s.load(node)
	if err != nil || !ok {
		return nil, ok, err
	}
	return tpl.Clone(), true, nil
}

func (s *FileStore) PutBand(ctx context.Context, node silo.NodeTypeID, band silo.BandID, data silo.BandData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Always start from disk so a stale cache entry cannot drop other bands.
	tpl, ok, err := s.read(node)
	if err != nil {
		return err
	}
	if !ok {
		tpl = silo.NewTemplate("")
	}
	tpl.SetBand(band, data.Clone())
	return s.write(node, tpl)
}

func (s *FileStore) PutTemplate(ctx context.Context, node silo.NodeTypeID, tpl *silo.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(node, tpl.Clone())
}

func (s *FileStore) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.stop()
	<-s.stopped
	s.watcher = nil
	return err
}

func (s *FileStore) load(node silo.NodeTypeID) (*silo.Template, bool, error) {
	if cached, found := s.cache.Get(string(node)); found {
		if tpl, ok := cached.(*silo.Template); ok {
			return tpl, true, nil
		}
	}

	// a miss reads under mu so a concurrent write cannot be overwritten
	// in the cache by the older document
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, found := s.cache.Get(string(node)); found {
		if tpl, ok := cached.(*silo.Template); ok {
			return tpl, true, nil
		}
	}
	tpl, ok, err := s.read(node)
	if err != nil || !ok {
		return nil, ok, err
	}
	s.cache.SetDefault(string(node), tpl)
	return tpl, true, nil
}

func (s *FileStore) read(node silo.NodeTypeID) (*silo.Template, bool, error) {
	path := filepath.Join(s.dir, FileName(node))
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	tpl, owner, err := decodeDocument(content)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if owner == "" {
		return nil, false, fmt.Errorf("%s has no %s field; run `tata silo migrate` to convert legacy templates", path, silo.NodeTypeKey)
	}
	if owner != node {
		return nil, false, fmt.Errorf("%s declares %s %q, expected %q", path, silo.NodeTypeKey, owner, node)
	}
	return tpl, true, nil
}

func (s *FileStore) write(node silo.NodeTypeID, tpl *silo.Template) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create templates directory: %w", err)
	}

	content, err := encodeDocument(node, tpl)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".template-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	path := filepath.Join(s.dir, FileName(node))
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	s.cache.SetDefault(string(node), tpl)
	return nil
}

func (s *FileStore) invalidateOnChange(w *dirWatcher, changes <-chan struct{}) {
	defer close(s.stopped)
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
			s.cache.Flush()
			s.logger.Debug("Templates changed on disk, cache flushed", "dir", s.dir)
		case err := <-w.errs:
			s.logger.Warn("Template watcher error", "dir", s.dir, "error", err)
		case <-w.done:
			return
		}
	}
}

// decodeDocument splits a persisted document into its owner and template
func decodeDocument(content []byte) (*silo.Template, silo.NodeTypeID, error) {
	var header struct {
		NodeType string `json:"nodeType"`
	}
	if err := json.Unmarshal(content, &header); err != nil {
		return nil, "", err
	}
	var tpl silo.Template
	if err := json.Unmarshal(content, &tpl); err != nil {
		return nil, "", err
	}
	return &tpl, silo.NodeTypeID(header.NodeType), nil
}

func encodeDocument(node silo.NodeTypeID, tpl *silo.Template) ([]byte, error) {
	fields := tpl.Fields()
	fields[silo.NodeTypeKey] = node
	content, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}
	return append(content, '\n'), nil
}
