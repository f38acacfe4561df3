package monitor

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tata-ai/tata/cmd/common"
	"github.com/tata-ai/tata/pkg/config"
	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/monitoring"
)

func runtimeFor(services ...monitoring.TargetConfig) *common.Runtime {
	mon := *monitoring.DefaultConfig()
	mon.Timeout = time.Second
	mon.Services = services
	return &common.Runtime{
		Config: &config.Config{Monitoring: mon},
		Logger: logger.NewNop(),
	}
}

func TestRunOnce(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer healthy.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	var out bytes.Buffer
	cmd := NewMonitorCmd(runtimeFor(
		monitoring.TargetConfig{Name: "tata-core", URL: healthy.URL, ExpectedResponse: map[string]any{"status": "healthy"}},
		monitoring.TargetConfig{Name: "tata-flow", URL: broken.URL},
	))
	cmd.SetArgs([]string{"run", "--once"})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 services")
	assert.Contains(t, out.String(), "tata-core")
	assert.Contains(t, out.String(), "503")
}

func TestCountFailed(t *testing.T) {
	checks := []*monitoring.ServiceCheck{
		{Service: "a", Status: monitoring.ServiceStatusUp},
		{Service: "b", Status: monitoring.ServiceStatusUnknown, Error: "connection refused"},
	}
	assert.Equal(t, 1, countFailed(checks))

	var out bytes.Buffer
	require.NoError(t, printChecks(&out, checks))
	assert.Contains(t, out.String(), "connection refused")
}
