package silo

import "strings"

// NodeTypeID identifies one of the configurable backend services
type NodeTypeID string

const (
	NodeCore  NodeTypeID = "Core"
	NodeFlow  NodeTypeID = "Flow"
	NodeMemex NodeTypeID = "Memex"
	NodeMoto  NodeTypeID = "Moto"
	NodeZKP   NodeTypeID = "ZKP"
)

// NodeType describes a service category that owns a Template
type NodeType struct {
	ID      NodeTypeID `json:"id"`
	Service string     `json:"service"`
	Icon    string     `json:"icon"`
	// DefaultPort is where the stub backend listens unless overridden
	DefaultPort int `json:"defaultPort"`
}

var nodeTypes = []NodeType{
	{ID: NodeCore, Service: "tata-core", Icon: "🧠", DefaultPort: 8001},
	{ID: NodeFlow, Service: "tata-flow", Icon: "🔄", DefaultPort: 8002},
	{ID: NodeMemex, Service: "tata-memex", Icon: "🧩", DefaultPort: 8003},
	{ID: NodeMoto, Service: "tata-moto", Icon: "⚙️", DefaultPort: 8004},
	{ID: NodeZKP, Service: "tata-zkp", Icon: "🛡️", DefaultPort: 8005},
}

// ListNodeTypes returns the five node types in catalog order
func ListNodeTypes() []NodeType {
	out := make([]NodeType, len(nodeTypes))
	copy(out, nodeTypes)
	return out
}

// NodeTypeIDs returns the node type identifiers in catalog order
func NodeTypeIDs() []NodeTypeID {
	ids := make([]NodeTypeID, len(nodeTypes))
	for i, n := range nodeTypes {
		ids[i] = n.ID
	}
	return ids
}

// LookupNodeType returns the node type with the given id. Matching is exact.
func LookupNodeType(id string) (NodeType, bool) {
	for _, n := range nodeTypes {
		if string(n.ID) == id {
			return n, true
		}
	}
	return NodeType{}, false
}

// IsNodeType reports whether id names one of the five node types
func IsNodeType(id string) bool {
	_, ok := LookupNodeType(id)
	return ok
}

// ResolveNodeType accepts either the node id ("Core") or its service
// name ("tata-core"), case-insensitively.
func ResolveNodeType(name string) (NodeType, bool) {
	for _, n := range nodeTypes {
		if strings.EqualFold(string(n.ID), name) || strings.EqualFold(n.Service, name) {
			return n, true
		}
	}
	return NodeType{}, false
}
