package service

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/tata-ai/tata/pkg/silo"
)

//go:embed samples.json
var samplesJSON []byte

// SampleTemplates returns a fresh copy of the bundled sample templates
func SampleTemplates() (map[silo.NodeTypeID]*silo.Template, error) {
	var samples map[silo.NodeTypeID]*silo.Template
	if err := json.Unmarshal(samplesJSON, &samples); err != nil {
		return nil, fmt.Errorf("failed to decode sample templates: %w", err)
	}
	return samples, nil
}
