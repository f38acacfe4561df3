package nodes

import (
	"time"

	"github.com/tata-ai/tata/pkg/silo"
)

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// StatusResponse is the body of the status endpoint
type StatusResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	// Uptime in seconds
	Uptime float64 `json:"uptime"`
}

// Node is a placeholder backend for one node type. It answers health and
// status probes and nothing else.
type Node struct {
	nodeType silo.NodeType
	started  time.Time
	now      func() time.Time
}

// NewNode creates a stub backend for the given node type
func NewNode(nodeType silo.NodeType) *Node {
	return &Node{
		nodeType: nodeType,
		started:  time.Now(),
		now:      time.Now,
	}
}

// Type returns the node type served by this backend
func (n *Node) Type() silo.NodeType {
	return n.nodeType
}

// Health always reports healthy while the process is serving
func (n *Node) Health() HealthResponse {
	return HealthResponse{Status: "healthy"}
}

// Status reports the service name and its uptime
func (n *Node) Status() StatusResponse {
	return StatusResponse{
		Service: n.nodeType.Service,
		Status:  "active",
		Uptime:  n.now().Sub(n.started).Seconds(),
	}
}
