package http

import (
	"encoding/json"

	"github.com/tata-ai/tata/pkg/silo"
	"github.com/tata-ai/tata/pkg/silo/compare"
)

// UpdateBandRequest replaces one band of a node's template. Data is either
// a JSON object or a string holding JSON text.
type UpdateBandRequest struct {
	NodeType string          `json:"nodeType" validate:"required"`
	BandID   string          `json:"bandId" validate:"required"`
	Data     json.RawMessage `json:"data" validate:"required" swaggertype:"object"`
}

// UpdateBandResponse acknowledges a band update
type UpdateBandResponse struct {
	Success  bool   `json:"success"`
	NodeType string `json:"nodeType"`
	BandID   string `json:"bandId"`
}

// TemplatesResponse carries every template keyed by node type
type TemplatesResponse struct {
	Templates map[silo.NodeTypeID]*silo.Template `json:"templates" swaggertype:"object"`
}

// BandResponse is one band of one node
type BandResponse struct {
	NodeType   string        `json:"nodeType"`
	BandID     string        `json:"bandId"`
	Configured bool          `json:"configured"`
	Data       silo.BandData `json:"data" swaggertype:"object"`
}

// NodeTypeResponse describes a node type and its completion
type NodeTypeResponse struct {
	ID          silo.NodeTypeID `json:"id"`
	Service     string          `json:"service"`
	Icon        string          `json:"icon"`
	DefaultPort int             `json:"defaultPort"`
	Completion  int             `json:"completion"`
}

// CompareResponse is a cross-node comparison of one band
type CompareResponse struct {
	BandID silo.BandID   `json:"bandId"`
	Rows   []compare.Row `json:"rows"`
}

// ImportResponse lists the node types replaced by an import
type ImportResponse struct {
	Success  bool              `json:"success"`
	Imported []silo.NodeTypeID `json:"imported"`
}
