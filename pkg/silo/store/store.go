// Package store holds the persistence backends behind the template silo.
// Every backend maps a node type to exactly one template document and
// serializes its own writers; the last completed write wins.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/silo"
)

// Store is the backing collection of templates keyed by node type.
// Callers are expected to have validated node and band ids.
type Store interface {
	// LoadAll returns a deep copy of every persisted template. An empty or
	// absent backing collection yields an empty map.
	LoadAll(ctx context.Context) (map[silo.NodeTypeID]*silo.Template, error)
	// Get returns a copy of one template and whether it exists
	Get(ctx context.Context, node silo.NodeTypeID) (*silo.Template, bool, error)
	// PutBand replaces one band of a template, creating the template on first write
	PutBand(ctx context.Context, node silo.NodeTypeID, band silo.BandID, data silo.BandData) error
	// PutTemplate replaces a whole template document
	PutTemplate(ctx context.Context, node silo.NodeTypeID, tpl *silo.Template) error
	Close() error
}

// Driver names accepted by Open
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config selects and configures a backend
type Config struct {
	Driver string `mapstructure:"driver"`
	// Path is the templates directory for the file driver and the
	// database file for the sqlite driver
	Path string `mapstructure:"path"`
	// Watch reloads the file driver's cache when files change on disk
	Watch    bool          `mapstructure:"watch"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Open builds the backend named by cfg.Driver
func Open(cfg Config, log *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverFile:
		opts := []FileOption{WithLogger(log)}
		if cfg.CacheTTL > 0 {
			opts = append(opts, WithCacheTTL(cfg.CacheTTL))
		}
		if cfg.Watch {
			opts = append(opts, WithWatch())
		}
		return NewFileStore(cfg.Path, opts...)
	case DriverSQLite:
		return OpenSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
