package docs

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type document struct {
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

func readDocument(t *testing.T) (document, string) {
	t.Helper()
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)
	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc, raw
}

func TestDocumentDefinitionsResolve(t *testing.T) {
	doc, raw := readDocument(t)

	refs := regexp.MustCompile(`#/definitions/([\w.]+)`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, ref := range refs {
		assert.Contains(t, doc.Definitions, ref[1])
	}
}

func TestDocumentDescribesResponseModels(t *testing.T) {
	doc, _ := readDocument(t)

	for _, name := range []string{
		"http.TemplatesResponse",
		"http.UpdateBandRequest",
		"http.UpdateBandResponse",
		"http.BandResponse",
		"http.NodeTypeResponse",
		"http.CompareResponse",
		"http.ImportResponse",
		"response.ErrorResponse",
		"monitoring.ServiceCheck",
		"service.SnapshotDTO",
		"audit.ListLogsResponse",
	} {
		assert.Contains(t, doc.Definitions, name)
	}

	var post struct {
		Parameters []struct {
			In     string `json:"in"`
			Schema struct {
				Ref string `json:"$ref"`
			} `json:"schema"`
		} `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(doc.Paths["/template-silos"]["post"], &post))
	require.Len(t, post.Parameters, 1)
	assert.Equal(t, "body", post.Parameters[0].In)
	assert.Equal(t, "#/definitions/http.UpdateBandRequest", post.Parameters[0].Schema.Ref)
}
