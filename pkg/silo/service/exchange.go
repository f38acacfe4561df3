package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tata-ai/tata/pkg/errors"
	"github.com/tata-ai/tata/pkg/silo"
)

// Format is a serialization format for exported templates
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml; empty means json
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.NewInvalidArgumentError(fmt.Sprintf("unsupported format: %s", s), map[string]interface{}{
		"allowed": []Format{FormatJSON, FormatYAML},
	})
}

// ContentType returns the media type for the format
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Document is the exchange shape shared by the read API, export and import
type Document struct {
	Templates map[silo.NodeTypeID]*silo.Template `json:"templates"`
}

// ImportResult lists the node types replaced by an import
type ImportResult struct {
	Imported []silo.NodeTypeID `json:"imported"`
}

// Export serializes every template
func (s *TemplateService) Export(ctx context.Context, format Format) ([]byte, error) {
	templates, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	content, err := json.MarshalIndent(Document{Templates: templates}, "", "  ")
	if err != nil {
		return nil, errors.NewInternalError("failed to encode templates", err, nil)
	}
	if format != FormatYAML {
		return append(content, '\n'), nil
	}

	// Route through a generic tree so YAML sees the flattened template form.
	var tree any
	if err := json.Unmarshal(content, &tree); err != nil {
		return nil, errors.NewInternalError("failed to encode templates", err, nil)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, errors.NewInternalError("failed to encode templates as yaml", err, nil)
	}
	return out, nil
}

// Import replaces the templates named in content. Every node type and
// band is validated before anything is written; a single invalid entry
// aborts the whole import.
func (s *TemplateService) Import(ctx context.Context, content []byte, format Format) (*ImportResult, error) {
	doc, err := decodeDocument(content, format)
	if err != nil {
		return nil, err
	}

	nodes := make([]silo.NodeTypeID, 0, len(doc.Templates))
	for _, node := range silo.NodeTypeIDs() {
		if _, ok := doc.Templates[node]; ok {
			nodes = append(nodes, node)
		}
	}
	for node, tpl := range doc.Templates {
		if !silo.IsNodeType(string(node)) {
			return nil, errors.NewInvalidArgumentError(fmt.Sprintf("invalid node type: %s", node), map[string]interface{}{
				"nodeType": node,
				"allowed":  silo.NodeTypeIDs(),
			})
		}
		if tpl == nil {
			return nil, errors.NewInvalidArgumentError(fmt.Sprintf("template for %s must be an object", node), nil)
		}
		for band, data := range tpl.Bands {
			if err := s.validateBand(band, data); err != nil {
				return nil, err
			}
		}
	}

	result := &ImportResult{Imported: []silo.NodeTypeID{}}
	for _, node := range nodes {
		if err := s.store.PutTemplate(ctx, node, doc.Templates[node]); err != nil {
			s.logger.Error("Import stopped on store failure", "nodeType", node, "imported", result.Imported, "error", err)
			return result, errors.NewStoreIOError("failed to import templates", err, map[string]interface{}{
				"nodeType": node,
				"imported": result.Imported,
			})
		}
		result.Imported = append(result.Imported, node)
	}

	s.logger.Info("Imported templates", "nodeTypes", result.Imported)
	return result, nil
}

func decodeDocument(content []byte, format Format) (*Document, error) {
	if format == FormatYAML {
		var tree any
		if err := yaml.Unmarshal(content, &tree); err != nil {
			return nil, errors.NewParseError("invalid yaml document", err, nil)
		}
		converted, err := json.Marshal(tree)
		if err != nil {
			return nil, errors.NewParseError("yaml document cannot be represented as JSON", err, nil)
		}
		content = converted
	}

	var doc Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, errors.NewParseError("invalid template document", err, nil)
	}
	if doc.Templates == nil {
		return nil, errors.NewParseError("document has no templates key", nil, nil)
	}
	return &doc, nil
}
