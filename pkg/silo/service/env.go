package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/tata-ai/tata/pkg/errors"
	"github.com/tata-ai/tata/pkg/silo"
)

const envTemplate = `# {{ .Service }} environment
# template version: {{ .Version | default "unversioned" }}
{{- range .Bands }}

# {{ .Name }}
{{- range .Entries }}
{{ list $.Prefix .Band .Key | join "_" | upper }}={{ if .Quote }}{{ .Value | quote }}{{ else }}{{ .Value }}{{ end }}
{{- end }}
{{- end }}
`

// values holding any of these are double-quoted; quote escapes line breaks
const envQuoteChars = " \t\r\n#\"'$=\\"

var envTmpl = template.Must(template.New("env").Funcs(sprig.TxtFuncMap()).Parse(envTemplate))

type envEntry struct {
	Band  string
	Key   string
	Value string
	Quote bool
}

type envBand struct {
	Name    string
	Entries []envEntry
}

type envData struct {
	Service string
	Version string
	Prefix  string
	Bands   []envBand
}

// RenderEnv renders a node's template as KEY=value lines, one per leaf
// value. Nested keys are joined with underscores and upper-cased, so
// database.host on Core becomes TATA_CORE_DATABASE_HOST.
func (s *TemplateService) RenderEnv(ctx context.Context, nodeType string) (string, error) {
	nt, ok := silo.LookupNodeType(nodeType)
	if !ok {
		return "", errors.NewNotFoundError(fmt.Sprintf("unknown node type: %s", nodeType), map[string]interface{}{
			"nodeType": nodeType,
		})
	}
	tpl, err := s.GetTemplate(ctx, nodeType)
	if err != nil {
		return "", err
	}

	data := envData{
		Service: nt.Service,
		Version: tpl.Version,
		Prefix:  "TATA_" + envKey(string(nt.ID)),
	}
	for _, band := range silo.ListBands() {
		values := tpl.Band(band.ID)
		if !values.Configured() {
			continue
		}
		eb := envBand{Name: band.Name}
		flattenEnv(string(band.ID), nil, map[string]any(values), &eb.Entries)
		sort.Slice(eb.Entries, func(i, j int) bool { return eb.Entries[i].Key < eb.Entries[j].Key })
		data.Bands = append(data.Bands, eb)
	}

	var buf bytes.Buffer
	if err := envTmpl.Execute(&buf, data); err != nil {
		return "", errors.NewInternalError("failed to render environment", err, nil)
	}
	return buf.String(), nil
}

func flattenEnv(band string, path []string, value any, out *[]envEntry) {
	if m, ok := value.(map[string]any); ok {
		for k, v := range m {
			flattenEnv(band, append(append([]string(nil), path...), envKey(k)), v, out)
		}
		return
	}
	if len(path) == 0 {
		return
	}

	text := envValue(value)
	*out = append(*out, envEntry{
		Band:  envKey(band),
		Key:   strings.Join(path, "_"),
		Value: text,
		Quote: strings.ContainsAny(text, envQuoteChars),
	})
}

func envKey(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		default:
			if !underscore {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

func envValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = envValue(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}
