package e2e

import (
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"os"
	"time"

	"github.com/tata-ai/tata/cmd/common"
	"github.com/tata-ai/tata/pkg/audit"
)

const (
	defaultAPIURL = "http://localhost:8100/api/v1"
)

// TestClient drives a running tata server
type TestClient struct {
	*common.Client
}

// NewTestClient creates a new test client using environment variables
func NewTestClient() (*TestClient, error) {
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	c := common.NewClient(apiURL)

	resp, err := c.Get("/template-silos/bands")
	if err != nil {
		return nil, fmt.Errorf("server at %s is not reachable: %w", apiURL, err)
	}
	if err := common.CheckResponse(resp, nethttp.StatusOK); err != nil {
		return nil, err
	}
	resp.Body.Close()

	return &TestClient{Client: c}, nil
}

// RestoreSnapshot restores a snapshot by name
func (c *TestClient) RestoreSnapshot(name string) error {
	resp, err := c.Post(fmt.Sprintf("/snapshots/%s/restore", name), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return common.CheckResponse(resp, nethttp.StatusOK)
}

// ListAuditLogs returns the first page of failed or successful requests
func (c *TestClient) ListAuditLogs(outcome audit.EventOutcome) (*audit.ListLogsResponse, error) {
	resp, err := c.Get(fmt.Sprintf("/audit/logs?page_size=100&outcome=%s", outcome))
	if err != nil {
		return nil, err
	}
	if err := common.CheckResponse(resp, nethttp.StatusOK); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out audit.ListLogsResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func decode(resp *nethttp.Response, out interface{}) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

const (
	defaultWait  = 5 * time.Second
	pollInterval = 100 * time.Millisecond
)
