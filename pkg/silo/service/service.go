package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tata-ai/tata/pkg/errors"
	"github.com/tata-ai/tata/pkg/logger"
	"github.com/tata-ai/tata/pkg/silo"
	"github.com/tata-ai/tata/pkg/silo/compare"
	"github.com/tata-ai/tata/pkg/silo/store"
)

// TemplateService validates and persists band configuration for every
// node type. It owns no state of its own; the store is the source of truth.
type TemplateService struct {
	store  store.Store
	logger *logger.Logger
	strict bool
}

// Option configures a TemplateService
type Option func(*TemplateService)

// WithStrictBands rejects band data that does not decode into the band's
// typed view (for example a string where a port number is expected)
func WithStrictBands() Option {
	return func(s *TemplateService) {
		s.strict = true
	}
}

// NewTemplateService creates a new template service
func NewTemplateService(st store.Store, logger *logger.Logger, opts ...Option) *TemplateService {
	s := &TemplateService{
		store:  st,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll returns every persisted template keyed by node type. An empty
// store yields an empty map.
func (s *TemplateService) LoadAll(ctx context.Context) (map[silo.NodeTypeID]*silo.Template, error) {
	templates, err := s.store.LoadAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load templates", "error", err)
		return nil, errors.NewStoreIOError("failed to load templates", err, nil)
	}
	return templates, nil
}

// Snapshot is LoadAll typed for the comparison engine
func (s *TemplateService) Snapshot(ctx context.Context) (compare.Snapshot, error) {
	templates, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return compare.Snapshot(templates), nil
}

// GetTemplate returns the template for a node type. A node type with
// nothing stored yields an empty, unversioned template.
func (s *TemplateService) GetTemplate(ctx context.Context, nodeType string) (*silo.Template, error) {
	nt, ok := silo.LookupNodeType(nodeType)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("unknown node type: %s", nodeType), map[string]interface{}{
			"nodeType": nodeType,
		})
	}

	tpl, found, err := s.store.Get(ctx, nt.ID)
	if err != nil {
		return nil, errors.NewStoreIOError("failed to read template", err, map[string]interface{}{
			"nodeType": nodeType,
		})
	}
	if !found {
		return silo.NewTemplate(""), nil
	}
	return tpl, nil
}

// GetBand returns one band of a node's template. An unconfigured band is
// an empty object; an unknown node type or band is a NotFound error.
func (s *TemplateService) GetBand(ctx context.Context, nodeType, bandID string) (silo.BandData, error) {
	if _, ok := silo.LookupBand(bandID); !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("unknown band: %s", bandID), map[string]interface{}{
			"bandId": bandID,
		})
	}
	tpl, err := s.GetTemplate(ctx, nodeType)
	if err != nil {
		return nil, err
	}

	data := tpl.Band(silo.BandID(bandID))
	if data == nil {
		return silo.BandData{}, nil
	}
	return data, nil
}

// PutBand replaces one band of a node's template
func (s *TemplateService) PutBand(ctx context.Context, nodeType, bandID string, data silo.BandData) error {
	node, band, err := s.validateTarget(nodeType, bandID)
	if err != nil {
		return err
	}
	if data == nil {
		return errors.NewInvalidArgumentError("band data must be a JSON object", map[string]interface{}{
			"nodeType": nodeType,
			"bandId":   bandID,
		})
	}
	if err := s.validateBand(band, data); err != nil {
		return err
	}

	if err := s.store.PutBand(ctx, node, band, data); err != nil {
		s.logger.Error("Failed to save band", "nodeType", node, "bandId", band, "error", err)
		return errors.NewStoreIOError("failed to update template", err, map[string]interface{}{
			"nodeType": nodeType,
			"bandId":   bandID,
		})
	}

	s.logger.Info("Updated template band", "nodeType", node, "bandId", band, "keys", len(data))
	return nil
}

// PutBandRaw parses raw JSON text and stores it as the band's data. Text
// that is not a JSON object is a ParseError and leaves the store untouched.
func (s *TemplateService) PutBandRaw(ctx context.Context, nodeType, bandID, raw string) error {
	if _, _, err := s.validateTarget(nodeType, bandID); err != nil {
		return err
	}
	data, err := ParseBandData(raw)
	if err != nil {
		return err
	}
	return s.PutBand(ctx, nodeType, bandID, data)
}

// ParseBandData decodes raw JSON text into band data
func ParseBandData(raw string) (silo.BandData, error) {
	var data silo.BandData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, errors.NewParseError("band data is not a valid JSON object", err, map[string]interface{}{
			"input_length": len(raw),
		})
	}
	if data == nil {
		return nil, errors.NewParseError("band data must be a JSON object, got null", nil, nil)
	}
	return data, nil
}

// Seed stores the given templates when the store is empty. It reports
// whether anything was written.
func (s *TemplateService) Seed(ctx context.Context, templates map[silo.NodeTypeID]*silo.Template) (bool, error) {
	existing, err := s.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		s.logger.Debug("Template store already populated, skipping seed", "templates", len(existing))
		return false, nil
	}

	for _, node := range silo.NodeTypeIDs() {
		tpl, ok := templates[node]
		if !ok {
			continue
		}
		if err := s.store.PutTemplate(ctx, node, tpl); err != nil {
			return false, errors.NewStoreIOError("failed to seed templates", err, map[string]interface{}{
				"nodeType": node,
			})
		}
	}
	s.logger.Info("Seeded template store", "templates", len(templates))
	return true, nil
}

// SeedSamples seeds the store with the bundled sample templates
func (s *TemplateService) SeedSamples(ctx context.Context) (bool, error) {
	samples, err := SampleTemplates()
	if err != nil {
		return false, errors.NewInternalError("failed to load sample templates", err, nil)
	}
	return s.Seed(ctx, samples)
}

func (s *TemplateService) validateTarget(nodeType, bandID string) (silo.NodeTypeID, silo.BandID, error) {
	nt, ok := silo.LookupNodeType(nodeType)
	if !ok {
		return "", "", errors.NewInvalidArgumentError(fmt.Sprintf("invalid node type: %s", nodeType), map[string]interface{}{
			"nodeType": nodeType,
			"allowed":  silo.NodeTypeIDs(),
		})
	}
	band, ok := silo.LookupBand(bandID)
	if !ok {
		return "", "", errors.NewInvalidArgumentError(fmt.Sprintf("invalid band: %s", bandID), map[string]interface{}{
			"bandId":  bandID,
			"allowed": silo.BandIDs(),
		})
	}
	return nt.ID, band.ID, nil
}

func (s *TemplateService) validateBand(band silo.BandID, data silo.BandData) error {
	if !s.strict {
		return nil
	}
	view := silo.NewBandView(band)
	if view == nil {
		return nil
	}
	if err := silo.DecodeBand(data, view); err != nil {
		return errors.NewInvalidArgumentError(fmt.Sprintf("band data does not match the %s schema", band), map[string]interface{}{
			"bandId": band,
			"reason": err.Error(),
		})
	}
	return nil
}
