package service

import (
	"time"

	"github.com/tata-ai/tata/pkg/silo"
)

// Config controls scheduled template snapshots
type Config struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// Schedule is a cron expression with a leading seconds field
	Schedule string `mapstructure:"schedule" json:"schedule"`
	Dir      string `mapstructure:"dir" json:"dir"`
	// Retain is how many snapshots to keep; zero keeps all of them
	Retain int `mapstructure:"retain" json:"retain"`
}

// DefaultConfig snapshots hourly and keeps a day of history
func DefaultConfig() Config {
	return Config{
		Enabled:  false,
		Schedule: "0 0 * * * *",
		Dir:      "snapshots",
		Retain:   24,
	}
}

// SnapshotDTO describes one snapshot file
type SnapshotDTO struct {
	Name      string            `json:"name"`
	Size      int64             `json:"size"`
	CreatedAt time.Time         `json:"createdAt"`
	Nodes     []silo.NodeTypeID `json:"nodes,omitempty"`
}

// RestoreResult lists the node types replaced by a restore
type RestoreResult struct {
	Snapshot string            `json:"snapshot"`
	Restored []silo.NodeTypeID `json:"restored"`
}
