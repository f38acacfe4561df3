// Package config loads the server configuration from a YAML file, the
// environment (TATA_ prefix) and defaults, in that order of precedence
// below explicit flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	backupservice "github.com/tata-ai/tata/pkg/backups/service"
	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/monitoring"
	"github.com/tata-ai/tata/pkg/notifications"
	"github.com/tata-ai/tata/pkg/silo/store"
)

const envPrefix = "TATA"

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	Dev         bool     `mapstructure:"dev"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StoreConfig selects the template backend and its startup behaviour
type StoreConfig struct {
	store.Config `mapstructure:",squash"`
	// Seed writes the sample templates into an empty store
	Seed bool `mapstructure:"seed"`
	// Strict checks band data against the typed band views on write
	Strict bool `mapstructure:"strict"`
}

// NotificationsConfig configures alert delivery
type NotificationsConfig struct {
	SMTP notifications.SMTPConfig `mapstructure:"smtp"`
}

// Config is the complete server configuration
type Config struct {
	Server        ServerConfig         `mapstructure:"server"`
	Log           logger.Config        `mapstructure:"log"`
	Store         StoreConfig          `mapstructure:"store"`
	Monitoring    monitoring.Config    `mapstructure:"monitoring"`
	Notifications NotificationsConfig  `mapstructure:"notifications"`
	Snapshots     backupservice.Config `mapstructure:"snapshots"`
}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8100)
	v.SetDefault("server.dev", false)
	v.SetDefault("server.cors_origins", []string{"*"})

	logDefaults := logger.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.output", logDefaults.OutputPath)

	v.SetDefault("store.driver", store.DriverFile)
	v.SetDefault("store.path", "templates")
	v.SetDefault("store.watch", true)
	v.SetDefault("store.cache_ttl", "5m")
	v.SetDefault("store.seed", false)
	v.SetDefault("store.strict", false)

	mon := monitoring.DefaultConfig()
	v.SetDefault("monitoring.enabled", mon.Enabled)
	v.SetDefault("monitoring.interval", mon.Interval)
	v.SetDefault("monitoring.timeout", mon.Timeout)
	v.SetDefault("monitoring.failure_threshold", mon.FailureThreshold)
	v.SetDefault("monitoring.workers", mon.Workers)

	v.SetDefault("notifications.smtp.enabled", false)
	v.SetDefault("notifications.smtp.port", 587)

	snap := backupservice.DefaultConfig()
	v.SetDefault("snapshots.enabled", snap.Enabled)
	v.SetDefault("snapshots.schedule", snap.Schedule)
	v.SetDefault("snapshots.dir", snap.Dir)
	v.SetDefault("snapshots.retain", snap.Retain)
}

// Load reads cfgFile, or the first of ./tata.yaml and
// $HOME/.config/tata/config.yaml that exists. No config file at all is
// not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		cfgFile = findConfigFile()
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// findConfigFile returns the first default config file that exists, or ""
func findConfigFile() string {
	candidates := []string{"tata.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "tata", "config.yaml"))
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
