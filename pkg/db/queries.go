package db

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Template struct {
	NodeType  string    `json:"node_type"`
	Version   string    `json:"version"`
	Extra     string    `json:"extra"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TemplateBand struct {
	NodeType  string    `json:"node_type"`
	BandID    string    `json:"band_id"`
	Data      string    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

const listTemplates = `SELECT node_type, version, extra, created_at, updated_at FROM templates ORDER BY node_type`

func (q *Queries) ListTemplates(ctx context.Context) ([]*Template, error) {
	rows, err := q.db.QueryContext(ctx, listTemplates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Template{}
	for rows.Next() {
		var i Template
		if err := rows.Scan(&i.NodeType, &i.Version, &i.Extra, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTemplate = `SELECT node_type, version, extra, created_at, updated_at FROM templates WHERE node_type = ?`

func (q *Queries) GetTemplate(ctx context.Context, nodeType string) (*Template, error) {
	row := q.db.QueryRowContext(ctx, getTemplate, nodeType)
	var i Template
	err := row.Scan(&i.NodeType, &i.Version, &i.Extra, &i.CreatedAt, &i.UpdatedAt)
	return &i, err
}

const ensureTemplate = `INSERT INTO templates (node_type, version) VALUES (?, ?)
ON CONFLICT(node_type) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`

type EnsureTemplateParams struct {
	NodeType string
	Version  string
}

func (q *Queries) EnsureTemplate(ctx context.Context, arg *EnsureTemplateParams) error {
	_, err := q.db.ExecContext(ctx, ensureTemplate, arg.NodeType, arg.Version)
	return err
}

const updateTemplateMeta = `UPDATE templates SET version = ?, extra = ?, updated_at = CURRENT_TIMESTAMP WHERE node_type = ?`

type UpdateTemplateMetaParams struct {
	Version  string
	Extra    string
	NodeType string
}

func (q *Queries) UpdateTemplateMeta(ctx context.Context, arg *UpdateTemplateMetaParams) error {
	_, err := q.db.ExecContext(ctx, updateTemplateMeta, arg.Version, arg.Extra, arg.NodeType)
	return err
}

const listTemplateBands = `SELECT node_type, band_id, data, updated_at FROM template_bands ORDER BY node_type, band_id`

func (q *Queries) ListTemplateBands(ctx context.Context) ([]*TemplateBand, error) {
	rows, err := q.db.QueryContext(ctx, listTemplateBands)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*TemplateBand{}
	for rows.Next() {
		var i TemplateBand
		if err := rows.Scan(&i.NodeType, &i.BandID, &i.Data, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listBandsForTemplate = `SELECT node_type, band_id, data, updated_at FROM template_bands WHERE node_type = ? ORDER BY band_id`

func (q *Queries) ListBandsForTemplate(ctx context.Context, nodeType string) ([]*TemplateBand, error) {
	rows, err := q.db.QueryContext(ctx, listBandsForTemplate, nodeType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*TemplateBand{}
	for rows.Next() {
		var i TemplateBand
		if err := rows.Scan(&i.NodeType, &i.BandID, &i.Data, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertTemplateBand = `INSERT INTO template_bands (node_type, band_id, data) VALUES (?, ?, ?)
ON CONFLICT(node_type, band_id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`

type UpsertTemplateBandParams struct {
	NodeType string
	BandID   string
	Data     string
}

func (q *Queries) UpsertTemplateBand(ctx context.Context, arg *UpsertTemplateBandParams) error {
	_, err := q.db.ExecContext(ctx, upsertTemplateBand, arg.NodeType, arg.BandID, arg.Data)
	return err
}

const deleteTemplateBands = `DELETE FROM template_bands WHERE node_type = ?`

func (q *Queries) DeleteTemplateBands(ctx context.Context, nodeType string) error {
	_, err := q.db.ExecContext(ctx, deleteTemplateBands, nodeType)
	return err
}
