package silo

import (
	"encoding/json"
	"fmt"
)

// NodeTypeKey is the document key naming the owning node type in persisted templates
const NodeTypeKey = "nodeType"

const versionKey = "version"

// BandData is the opaque configuration object for one (node type, band) pair
type BandData map[string]any

// Configured reports whether the band holds at least one key
func (d BandData) Configured() bool {
	return len(d) > 0
}

// Clone returns a deep copy of the band data
func (d BandData) Clone() BandData {
	if d == nil {
		return nil
	}
	return cloneValue(map[string]any(d)).(map[string]any)
}

// Template is the full configuration document owned by one node type.
// It serializes flat: {"version": ..., "<bandId>": {...}, ...}.
type Template struct {
	Version string
	Bands   map[BandID]BandData
	// Extra holds keys that are neither a band nor the version, such as
	// the legacy "nodeName" annotation. They are preserved on rewrite.
	Extra map[string]json.RawMessage
}

// NewTemplate returns an empty template with the given version tag
func NewTemplate(version string) *Template {
	return &Template{
		Version: version,
		Bands:   make(map[BandID]BandData),
	}
}

// Band returns the data for a band, or nil when the band is absent
func (t *Template) Band(id BandID) BandData {
	if t == nil || t.Bands == nil {
		return nil
	}
	return t.Bands[id]
}

// SetBand replaces the band data. It never merges with the previous value.
func (t *Template) SetBand(id BandID, data BandData) {
	if t.Bands == nil {
		t.Bands = make(map[BandID]BandData)
	}
	t.Bands[id] = data
}

// Configured reports whether the band is present and non-empty
func (t *Template) Configured(id BandID) bool {
	return t.Band(id).Configured()
}

// Clone returns a deep copy so snapshots never alias store state
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	out := &Template{
		Version: t.Version,
		Bands:   make(map[BandID]BandData, len(t.Bands)),
	}
	for id, data := range t.Bands {
		out.Bands[id] = data.Clone()
	}
	if len(t.Extra) > 0 {
		out.Extra = make(map[string]json.RawMessage, len(t.Extra))
		for k, v := range t.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// Fields flattens the template into its document form
func (t *Template) Fields() map[string]any {
	fields := make(map[string]any, len(t.Bands)+len(t.Extra)+1)
	for k, v := range t.Extra {
		fields[k] = v
	}
	if t.Version != "" {
		fields[versionKey] = t.Version
	}
	for id, data := range t.Bands {
		if data == nil {
			continue
		}
		fields[string(id)] = data
	}
	return fields
}

// MarshalJSON implements json.Marshaler
func (t *Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Fields())
}

// UnmarshalJSON implements json.Unmarshaler. The nodeType key is owned by
// the persistence layer and is not kept on the template.
func (t *Template) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	t.Version = ""
	t.Bands = make(map[BandID]BandData)
	t.Extra = nil

	for key, value := range raw {
		switch {
		case key == NodeTypeKey:
			continue
		case key == versionKey:
			version, err := decodeVersion(value)
			if err != nil {
				return err
			}
			t.Version = version
		case IsBand(key):
			var data BandData
			if err := json.Unmarshal(value, &data); err != nil {
				return fmt.Errorf("band %q: %w", key, err)
			}
			if data == nil {
				continue
			}
			t.Bands[BandID(key)] = data
		default:
			if t.Extra == nil {
				t.Extra = make(map[string]json.RawMessage)
			}
			t.Extra[key] = value
		}
	}
	return nil
}

// decodeVersion accepts "4.1" as well as a bare 4.1 written by hand.
func decodeVersion(value json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err != nil {
		return "", fmt.Errorf("version must be a string: %w", err)
	}
	return n.String(), nil
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = cloneValue(val)
		}
		return out
	case BandData:
		return BandData(cloneValue(map[string]any(x)).(map[string]any))
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
