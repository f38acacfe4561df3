package monitoring

import (
	"fmt"
	"time"

	"github.com/tata-ai/tata/pkg/silo"
)

// TargetConfig describes one HTTP service to poll
type TargetConfig struct {
	Name string `mapstructure:"name" json:"name" yaml:"name" validate:"required"`
	URL  string `mapstructure:"url" json:"url" yaml:"url" validate:"required,url"`
	// ExpectedStatus defaults to 200
	ExpectedStatus int `mapstructure:"expected_status" json:"expectedStatus,omitempty" yaml:"expected_status,omitempty" validate:"omitempty,min=100,max=599"`
	// ExpectedResponse must be a subset of the decoded JSON body when set
	ExpectedResponse map[string]any `mapstructure:"expected_response" json:"expectedResponse,omitempty" yaml:"expected_response,omitempty"`
}

// Config represents the configuration for the monitoring service
type Config struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// Interval is the time between two check rounds
	Interval time.Duration `mapstructure:"interval" json:"interval" validate:"gt=0"`
	// Timeout bounds a single check
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" validate:"gt=0"`
	// FailureThreshold is the number of consecutive failures before a service is down
	FailureThreshold int `mapstructure:"failure_threshold" json:"failureThreshold" validate:"min=1"`
	// Workers is the number of concurrent checks per round
	Workers  int            `mapstructure:"workers" json:"workers" validate:"min=1"`
	Services []TargetConfig `mapstructure:"services" json:"services" validate:"dive"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Enabled:          false,
		Interval:         5 * time.Minute,
		Timeout:          10 * time.Second,
		FailureThreshold: 3,
		Workers:          5,
	}
}

// DefaultTargets polls the health endpoint of every stub backend on host
func DefaultTargets(host string) []TargetConfig {
	if host == "" {
		host = "localhost"
	}
	nodes := silo.ListNodeTypes()
	targets := make([]TargetConfig, 0, len(nodes))
	for _, n := range nodes {
		targets = append(targets, TargetConfig{
			Name:             n.Service,
			URL:              fmt.Sprintf("http://%s:%d/api/health", host, n.DefaultPort),
			ExpectedStatus:   200,
			ExpectedResponse: map[string]any{"status": "healthy"},
		})
	}
	return targets
}
