// Package compare derives completion and cross-node comparisons from a
// snapshot of the template store. Everything here is read-only.
package compare

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/tata-ai/tata/pkg/silo"
)

// Placeholder is shown for a band or field a node has not configured
const Placeholder = "-"

const (
	toggleOn  = "Enabled"
	toggleOff = "Disabled"
)

// Snapshot is a point-in-time view of every template keyed by node type
type Snapshot map[silo.NodeTypeID]*silo.Template

// ConfiguredCount returns how many bands the node has configured
func ConfiguredCount(s Snapshot, node silo.NodeTypeID) int {
	tpl := s[node]
	n := 0
	for _, id := range silo.BandIDs() {
		if tpl.Configured(id) {
			n++
		}
	}
	return n
}

// Completion returns the configured share of bands as a percentage,
// rounded half up
func Completion(s Snapshot, node silo.NodeTypeID) int {
	total := silo.TotalBands()
	if total == 0 {
		return 0
	}
	return (200*ConfiguredCount(s, node) + total) / (2 * total)
}

// BandCoverage returns how many node types have the band configured
func BandCoverage(s Snapshot, band silo.BandID) int {
	n := 0
	for _, node := range silo.NodeTypeIDs() {
		if s[node].Configured(band) {
			n++
		}
	}
	return n
}

// CompareField looks up fieldPath inside each node's band and returns the
// value per node, or Placeholder when the band or field is absent.
// fieldPath is a dotted key path ("scaling.max_replicas") or a JSONPath
// expression starting with "$".
func CompareField(s Snapshot, band silo.BandID, fieldPath string) (map[silo.NodeTypeID]any, error) {
	expr, err := parseFieldPath(fieldPath)
	if err != nil {
		return nil, err
	}

	out := make(map[silo.NodeTypeID]any, len(silo.NodeTypeIDs()))
	for _, node := range silo.NodeTypeIDs() {
		out[node] = lookup(s[node].Band(band), expr)
	}
	return out, nil
}

func parseFieldPath(fieldPath string) (jp.Expr, error) {
	fieldPath = strings.TrimSpace(fieldPath)
	if fieldPath == "" {
		return nil, fmt.Errorf("field path is required")
	}
	if strings.HasPrefix(fieldPath, "$") {
		x, err := jp.ParseString(fieldPath)
		if err != nil {
			return nil, fmt.Errorf("invalid field path '%s': %w", fieldPath, err)
		}
		return x, nil
	}

	x := jp.R()
	for _, key := range strings.Split(fieldPath, ".") {
		if key == "" {
			return nil, fmt.Errorf("invalid field path '%s': empty segment", fieldPath)
		}
		x = x.C(key)
	}
	return x, nil
}

func lookup(data silo.BandData, expr jp.Expr) any {
	if data == nil {
		return Placeholder
	}
	results := expr.Get(map[string]any(data))
	if len(results) == 0 || results[0] == nil {
		return Placeholder
	}
	return results[0]
}

// FieldKind controls how a comparison cell is rendered
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldToggle FieldKind = "toggle"
)

// Field is one row of a detailed comparison table
type Field struct {
	Label string    `json:"label"`
	Path  string    `json:"path"`
	Kind  FieldKind `json:"kind"`
}

var presets = map[silo.BandID][]Field{
	silo.BandDatabase: {
		{Label: "Database Type", Path: "type", Kind: FieldText},
		{Label: "Auto Migration", Path: "auto_migration", Kind: FieldToggle},
		{Label: "Encryption", Path: "encryption", Kind: FieldText},
	},
	silo.BandCommunication: {
		{Label: "Protocol", Path: "protocol", Kind: FieldText},
		{Label: "Fallback", Path: "fallback", Kind: FieldText},
		{Label: "Heartbeat Interval", Path: "heartbeat_interval", Kind: FieldText},
	},
	silo.BandAuthentication: {
		{Label: "Method", Path: "method", Kind: FieldText},
		{Label: "Auto Rotate Keys", Path: "auto_rotate_keys", Kind: FieldToggle},
		{Label: "Rotation Interval (days)", Path: "rotation_interval_days", Kind: FieldText},
	},
	silo.BandSchemaManagement: {
		{Label: "Adaptive", Path: "adaptive", Kind: FieldToggle},
		{Label: "Validation Before Update", Path: "validation_before_update", Kind: FieldToggle},
		{Label: "Retained Versions", Path: "versioning.retain_versions", Kind: FieldText},
	},
	silo.BandResources: {
		{Label: "CPU", Path: "cpu", Kind: FieldText},
		{Label: "Memory", Path: "memory", Kind: FieldText},
		{Label: "Storage", Path: "storage", Kind: FieldText},
		{Label: "Max Replicas", Path: "scaling.max_replicas", Kind: FieldText},
	},
	silo.BandSecurity: {
		{Label: "Credential Rotation", Path: "credentialRotation.enabled", Kind: FieldToggle},
		{Label: "Rotation Interval", Path: "credentialRotation.rotationInterval", Kind: FieldText},
		{Label: "Auditing", Path: "auditing.enabled", Kind: FieldToggle},
	},
}

// PresetFields returns the default comparison rows for a band
func PresetFields(band silo.BandID) []Field {
	fields := presets[band]
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Row is one rendered comparison row
type Row struct {
	Field
	Values map[silo.NodeTypeID]any `json:"values"`
}

// Matrix renders the given fields for every node. Toggle fields read
// Enabled or Disabled; an unset toggle reads Disabled.
func Matrix(s Snapshot, band silo.BandID, fields []Field) ([]Row, error) {
	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		values, err := CompareField(s, band, f.Path)
		if err != nil {
			return nil, err
		}
		if f.Kind == FieldToggle {
			for node, v := range values {
				values[node] = toggle(v)
			}
		}
		rows = append(rows, Row{Field: f, Values: values})
	}
	return rows, nil
}

func toggle(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return toggleOn
		}
	case string:
		if x != Placeholder && x != "" && !strings.EqualFold(x, "false") {
			return toggleOn
		}
	case float64:
		if x != 0 {
			return toggleOn
		}
	case int64:
		if x != 0 {
			return toggleOn
		}
	case int:
		if x != 0 {
			return toggleOn
		}
	case map[string]any, []any:
		return toggleOn
	}
	return toggleOff
}

// NodeSummary is the completion state of one node type
type NodeSummary struct {
	NodeType   silo.NodeTypeID      `json:"nodeType"`
	Version    string               `json:"version,omitempty"`
	Configured int                  `json:"configured"`
	Total      int                  `json:"total"`
	Completion int                  `json:"completion"`
	Bands      map[silo.BandID]bool `json:"bands"`
}

// BandSummary is the coverage of one band across node types
type BandSummary struct {
	BandID   silo.BandID `json:"bandId"`
	Name     string      `json:"name"`
	Coverage int         `json:"coverage"`
	Total    int         `json:"total"`
}

// Overview aggregates completion per node and coverage per band
type Overview struct {
	Nodes []NodeSummary `json:"nodes"`
	Bands []BandSummary `json:"bands"`
}

// Summary computes the overview in catalog order
func Summary(s Snapshot) Overview {
	nodeIDs := silo.NodeTypeIDs()
	overview := Overview{
		Nodes: make([]NodeSummary, 0, len(nodeIDs)),
		Bands: make([]BandSummary, 0, silo.TotalBands()),
	}

	for _, node := range nodeIDs {
		tpl := s[node]
		ns := NodeSummary{
			NodeType:   node,
			Configured: ConfiguredCount(s, node),
			Total:      silo.TotalBands(),
			Completion: Completion(s, node),
			Bands:      make(map[silo.BandID]bool, silo.TotalBands()),
		}
		if tpl != nil {
			ns.Version = tpl.Version
		}
		for _, id := range silo.BandIDs() {
			ns.Bands[id] = tpl.Configured(id)
		}
		overview.Nodes = append(overview.Nodes, ns)
	}

	for _, b := range silo.ListBands() {
		overview.Bands = append(overview.Bands, BandSummary{
			BandID:   b.ID,
			Name:     b.Name,
			Coverage: BandCoverage(s, b.ID),
			Total:    len(nodeIDs),
		})
	}
	return overview
}
