package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"net/url"

	"github.com/tata-ai/tata/pkg/backups/service"
	"github.com/tata-ai/tata/pkg/monitoring"
	"github.com/tata-ai/tata/pkg/silo"
	"github.com/tata-ai/tata/pkg/silo/compare"
	silohttp "github.com/tata-ai/tata/pkg/silo/http"
)

// ListTemplates returns every template keyed by node type
func (c *Client) ListTemplates() (map[silo.NodeTypeID]*silo.Template, error) {
	resp, err := c.Get("/template-silos")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	var out silohttp.TemplatesResponse
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// GetTemplate returns one node's template
func (c *Client) GetTemplate(nodeType string) (*silo.Template, error) {
	resp, err := c.Get("/template-silos/" + url.PathEscape(nodeType))
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	var out silo.Template
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBand returns one band of one node
func (c *Client) GetBand(nodeType, bandID string) (*silohttp.BandResponse, error) {
	resp, err := c.Get(fmt.Sprintf("/template-silos/%s/%s", url.PathEscape(nodeType), url.PathEscape(bandID)))
	if err != nil {
		return nil, fmt.Errorf("failed to get band: %w", err)
	}
	var out silohttp.BandResponse
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBand replaces a band. data is either a JSON object or raw JSON text.
func (c *Client) UpdateBand(nodeType, bandID string, data interface{}) (*silohttp.UpdateBandResponse, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal band data: %w", err)
	}
	resp, err := c.Post("/template-silos", silohttp.UpdateBandRequest{
		NodeType: nodeType,
		BandID:   bandID,
		Data:     raw,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update band: %w", err)
	}
	var out silohttp.UpdateBandResponse
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListNodeTypes returns the node catalog with completion percentages
func (c *Client) ListNodeTypes() ([]silohttp.NodeTypeResponse, error) {
	resp, err := c.Get("/template-silos/nodes")
	if err != nil {
		return nil, fmt.Errorf("failed to list node types: %w", err)
	}
	var out []silohttp.NodeTypeResponse
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary returns completion per node and coverage per band
func (c *Client) Summary() (*compare.Overview, error) {
	resp, err := c.Get("/template-silos/summary")
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	var out compare.Overview
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compare returns a band comparison; no fields means the preset rows
func (c *Client) Compare(bandID string, fields []string) (*silohttp.CompareResponse, error) {
	q := url.Values{}
	for _, f := range fields {
		q.Add("field", f)
	}
	path := "/template-silos/compare/" + url.PathEscape(bandID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to compare band: %w", err)
	}
	var out silohttp.CompareResponse
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export downloads every template in the given format
func (c *Client) Export(format string) ([]byte, error) {
	resp, err := c.Get("/template-silos/export?format=" + url.QueryEscape(format))
	if err != nil {
		return nil, fmt.Errorf("failed to export templates: %w", err)
	}
	if err := CheckResponse(resp, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return ReadBody(resp)
}

// Import uploads an exported document
func (c *Client) Import(content []byte, format string) (*silohttp.ImportResponse, error) {
	contentType := "application/json"
	if format == "yaml" || format == "yml" {
		contentType = "application/yaml"
	}
	resp, err := c.DoRaw(stdhttp.MethodPost, "/template-silos/import?format="+url.QueryEscape(format), contentType, bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to import templates: %w", err)
	}
	var out silohttp.ImportResponse
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Env returns a node's rendered environment file
func (c *Client) Env(nodeType string) (string, error) {
	resp, err := c.Get(fmt.Sprintf("/template-silos/%s/env", url.PathEscape(nodeType)))
	if err != nil {
		return "", fmt.Errorf("failed to render env: %w", err)
	}
	if err := CheckResponse(resp, stdhttp.StatusOK); err != nil {
		return "", err
	}
	body, err := ReadBody(resp)
	return string(body), err
}

// ListServiceStatuses returns the monitor's latest results
func (c *Client) ListServiceStatuses() ([]monitoring.ServiceCheck, error) {
	resp, err := c.Get("/monitoring/services")
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	var out []monitoring.ServiceCheck
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSnapshot asks the server to write a snapshot now
func (c *Client) CreateSnapshot() (*service.SnapshotDTO, error) {
	resp, err := c.Post("/snapshots", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}
	var out service.SnapshotDTO
	if err := decodeJSON(resp, &out, stdhttp.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSnapshots returns the server's snapshots, newest first
func (c *Client) ListSnapshots() ([]service.SnapshotDTO, error) {
	resp, err := c.Get("/snapshots")
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	var out []service.SnapshotDTO
	if err := decodeJSON(resp, &out, stdhttp.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}
