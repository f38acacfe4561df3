package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tata-ai/tata/pkg/silo"
)

const legacyNodeNameKey = "nodeName"

// LegacyImport records one file adopted by MigrateLegacyDir
type LegacyImport struct {
	File     string          `json:"file"`
	NodeType silo.NodeTypeID `json:"nodeType"`
	// Rule names how ownership was decided: nodeType, filename,
	// filename-insensitive or nodeName
	Rule string `json:"rule"`
}

// LegacySkip records a file MigrateLegacyDir could not adopt
type LegacySkip struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// MigrationReport summarizes a legacy directory import
type MigrationReport struct {
	Imported []LegacyImport `json:"imported"`
	Skipped  []LegacySkip   `json:"skipped"`
}

// MigrateLegacyDir reads a directory of hand-written template files whose
// owner is implied by the file name or a nodeName annotation, and writes
// each resolved template to dst with an explicit owner. Files that cannot
// be parsed or attributed are reported, not fatal. When several files
// resolve to the same node type the first in name order wins.
func MigrateLegacyDir(ctx context.Context, dir string, dst Store) (*MigrationReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	report := &MigrationReport{
		Imported: []LegacyImport{},
		Skipped:  []LegacySkip{},
	}
	resolved := make(map[silo.NodeTypeID]*silo.Template)
	var order []silo.NodeTypeID

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			report.Skipped = append(report.Skipped, LegacySkip{File: name, Reason: err.Error()})
			continue
		}
		tpl, owner, err := decodeDocument(content)
		if err != nil {
			report.Skipped = append(report.Skipped, LegacySkip{File: name, Reason: fmt.Sprintf("invalid JSON: %v", err)})
			continue
		}

		node, rule := inferOwner(name, owner, tpl)
		if node == "" {
			report.Skipped = append(report.Skipped, LegacySkip{File: name, Reason: "could not determine node type"})
			continue
		}
		if _, dup := resolved[node]; dup {
			report.Skipped = append(report.Skipped, LegacySkip{
				File:   name,
				Reason: fmt.Sprintf("node type %s already provided by an earlier file", node),
			})
			continue
		}

		resolved[node] = tpl
		order = append(order, node)
		report.Imported = append(report.Imported, LegacyImport{File: name, NodeType: node, Rule: rule})
	}

	for _, node := range order {
		if err := dst.PutTemplate(ctx, node, resolved[node]); err != nil {
			return report, fmt.Errorf("failed to store %s template: %w", node, err)
		}
	}
	return report, nil
}

// inferOwner applies the legacy ownership rules in order: an explicit
// nodeType field, the file name (case-sensitive, then case-insensitive),
// then the dot segments of the nodeName annotation where the last
// matching segment wins.
func inferOwner(file string, declared silo.NodeTypeID, tpl *silo.Template) (silo.NodeTypeID, string) {
	if declared != "" {
		if nt, ok := silo.LookupNodeType(string(declared)); ok {
			return nt.ID, "nodeType"
		}
	}

	ids := silo.NodeTypeIDs()
	for _, id := range ids {
		if strings.Contains(file, string(id)) {
			return id, "filename"
		}
	}
	lower := strings.ToLower(file)
	for _, id := range ids {
		if strings.Contains(lower, strings.ToLower(string(id))) {
			return id, "filename-insensitive"
		}
	}

	raw, ok := tpl.Extra[legacyNodeNameKey]
	if !ok {
		return "", ""
	}
	var nodeName string
	if err := json.Unmarshal(raw, &nodeName); err != nil {
		return "", ""
	}
	var found silo.NodeTypeID
	for _, part := range strings.Split(nodeName, ".") {
		for _, id := range ids {
			if strings.Contains(part, string(id)) {
				found = id
				break
			}
		}
	}
	if found == "" {
		return "", ""
	}
	return found, "nodeName"
}
