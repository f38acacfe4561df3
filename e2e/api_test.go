//go:build e2e
// +build e2e

package e2e

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tata-ai/tata/cmd/common"
	"github.com/tata-ai/tata/pkg/audit"
	"github.com/tata-ai/tata/pkg/logger"
)

// TestBandLifecycle updates a band, reads it back through every view and
// restores the previous state from a snapshot
func TestBandLifecycle(t *testing.T) {
	client, err := NewTestClient()
	require.NoError(t, err)
	log := logger.NewDefault()

	before, err := client.CreateSnapshot()
	require.NoError(t, err)
	log.Info("Created snapshot", "name", before.Name)

	host := fmt.Sprintf("db-%s.tata.local", shortuuid.New())
	_, err = client.UpdateBand("Memex", "database", map[string]any{
		"type": "postgresql",
		"host": host,
	})
	require.NoError(t, err)

	band, err := client.GetBand("Memex", "database")
	require.NoError(t, err)
	assert.True(t, band.Configured)
	assert.Equal(t, host, band.Data["host"])

	cmp, err := client.Compare("database", []string{"host"})
	require.NoError(t, err)
	require.Len(t, cmp.Rows, 1)
	assert.Equal(t, host, cmp.Rows[0].Values["Memex"])

	env, err := client.Env("Memex")
	require.NoError(t, err)
	assert.Contains(t, env, host)

	overview, err := client.Summary()
	require.NoError(t, err)
	assert.Len(t, overview.Nodes, 5)

	require.NoError(t, client.RestoreSnapshot(before.Name))
	band, err = client.GetBand("Memex", "database")
	require.NoError(t, err)
	assert.NotEqual(t, host, band.Data["host"])
}

// TestRejectedUpdateIsAudited sends an invalid band update and finds it in
// the audit trail
func TestRejectedUpdateIsAudited(t *testing.T) {
	client, err := NewTestClient()
	require.NoError(t, err)

	bogus := fmt.Sprintf("band-%s", shortuuid.New())
	_, err = client.UpdateBand("Core", bogus, map[string]any{})
	require.Error(t, err)
	var apiErr *common.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)

	require.Eventually(t, func() bool {
		logs, err := client.ListAuditLogs(audit.EventOutcomeFailure)
		if err != nil {
			return false
		}
		for _, e := range logs.Items {
			if body, ok := e.Details["request_body"].(string); ok && strings.Contains(body, bogus) {
				return true
			}
		}
		return false
	}, defaultWait, pollInterval)
}

// TestExportImportRoundTrip re-imports an export unchanged
func TestExportImportRoundTrip(t *testing.T) {
	client, err := NewTestClient()
	require.NoError(t, err)

	exported, err := client.Export("yaml")
	require.NoError(t, err)

	templates, err := client.ListTemplates()
	require.NoError(t, err)

	result, err := client.Import(exported, "yaml")
	require.NoError(t, err)
	assert.Len(t, result.Imported, len(templates))

	after, err := client.ListTemplates()
	require.NoError(t, err)
	assert.Equal(t, templates, after)
}
