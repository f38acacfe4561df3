package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsRepeatable(t *testing.T) {
	database, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "tata.db"))
	require.NoError(t, err)
	defer database.Close()

	version, err := Migrate(database)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	version, err = Migrate(database)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	templates, err := New(database).ListTemplates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, templates)
}
