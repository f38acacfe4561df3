package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tata-ai/tata/pkg/db"
	"github.com/tata-ai/tata/pkg/silo"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps templates in a sqlite database, one row per band
type SQLiteStore struct {
	database *sql.DB
	queries  *db.Queries
	mu       sync.Mutex
}

// OpenSQLiteStore opens (creating if needed) the database at path and
// applies the embedded migrations
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializes writers anyway; one connection keeps the
	// single-writer contract explicit.
	database.SetMaxOpenConns(1)

	if _, err := db.Migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	return &SQLiteStore{
		database: database,
		queries:  db.New(database),
	}, nil
}

func (s *SQLiteStore) LoadAll(ctx context.Context) (map[silo.NodeTypeID]*silo.Template, error) {
	rows, err := s.queries.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	out := make(map[silo.NodeTypeID]*silo.Template, len(rows))
	for _, row := range rows {
		tpl, err := templateFromRow(row)
		if err != nil {
			return nil, err
		}
		out[silo.NodeTypeID(row.NodeType)] = tpl
	}

	bands, err := s.queries.ListTemplateBands(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list template bands: %w", err)
	}
	for _, band := range bands {
		tpl, ok := out[silo.NodeTypeID(band.NodeType)]
		if !ok {
			continue
		}
		data, err := bandFromRow(band)
		if err != nil {
			return nil, err
		}
		tpl.SetBand(silo.BandID(band.BandID), data)
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, node silo.NodeTypeID) (*silo.Template, bool, error) {
	row, err := s.queries.GetTemplate(ctx, string(node))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get template: %w", err)
	}
	tpl, err := templateFromRow(row)
	if err != nil {
		return nil, false, err
	}

	bands, err := s.queries.ListBandsForTemplate(ctx, string(node))
	if err != nil {
		return nil, false, fmt.Errorf("failed to list template bands: %w", err)
	}
	for _, band := range bands {
		data, err := bandFromRow(band)
		if err != nil {
			return nil, false, err
		}
		tpl.SetBand(silo.BandID(band.BandID), data)
	}
	return tpl, true, nil
}

func (s *SQLiteStore) PutBand(ctx context.Context, node silo.NodeTypeID, band silo.BandID, data silo.BandData) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal band data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.EnsureTemplate(ctx, &db.EnsureTemplateParams{NodeType: string(node)}); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	if err := qtx.UpsertTemplateBand(ctx, &db.UpsertTemplateBandParams{
		NodeType: string(node),
		BandID:   string(band),
		Data:     string(encoded),
	}); err != nil {
		return fmt.Errorf("failed to save band: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) PutTemplate(ctx context.Context, node silo.NodeTypeID, tpl *silo.Template) error {
	extra, err := json.Marshal(tpl.Extra)
	if err != nil {
		return fmt.Errorf("failed to marshal template extras: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.EnsureTemplate(ctx, &db.EnsureTemplateParams{NodeType: string(node), Version: tpl.Version}); err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	if err := qtx.UpdateTemplateMeta(ctx, &db.UpdateTemplateMetaParams{
		Version:  tpl.Version,
		Extra:    string(extra),
		NodeType: string(node),
	}); err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	if err := qtx.DeleteTemplateBands(ctx, string(node)); err != nil {
		return fmt.Errorf("failed to clear template bands: %w", err)
	}
	for id, data := range tpl.Bands {
		if data == nil {
			continue
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal band %s: %w", id, err)
		}
		if err := qtx.UpsertTemplateBand(ctx, &db.UpsertTemplateBandParams{
			NodeType: string(node),
			BandID:   string(id),
			Data:     string(encoded),
		}); err != nil {
			return fmt.Errorf("failed to save band %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.database.Close()
}

func templateFromRow(row *db.Template) (*silo.Template, error) {
	tpl := silo.NewTemplate(row.Version)
	if row.Extra != "" && row.Extra != "{}" && row.Extra != "null" {
		if err := json.Unmarshal([]byte(row.Extra), &tpl.Extra); err != nil {
			return nil, fmt.Errorf("failed to decode extras for %s: %w", row.NodeType, err)
		}
	}
	return tpl, nil
}

func bandFromRow(row *db.TemplateBand) (silo.BandData, error) {
	var data silo.BandData
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return nil, fmt.Errorf("failed to decode band %s/%s: %w", row.NodeType, row.BandID, err)
	}
	return data, nil
}
