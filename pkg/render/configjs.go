package render

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"text/template"

	"github.com/Vilsol/tailcfg/pkg/document"
	"github.com/samber/oops"
)

var configJSTemplate = template.Must(template.New("tailwind.config.js").Funcs(template.FuncMap{
	"js": jsLiteral,
}).Parse(`/** @type {import('tailwindcss').Config} */
module.exports = {
  content: {{ js .Content }},
  theme: {
    extend: {
      fontFamily: {
        sans: {{ js .Sans }},
{{- range $role, $fonts := .FontFamilies }}
        {{ js $role }}: {{ js $fonts }},
{{- end }}
      },
{{- range $key, $value := .Extend }}
      {{ js $key }}: {{ js $value }},
{{- end }}
    },
  },
  plugins: [{{ range $i, $name := .Plugins }}{{ if $i }}, {{ end }}require({{ js $name }}){{ end }}],
{{- range $name, $section := .Sections }}
  {{ js $name }}: {{ js $section }},
{{- end }}
};
`))

type configJSData struct {
	Content      []string
	Sans         []string
	FontFamilies map[string]any
	Extend       map[string]any
	Plugins      []string
	Sections     map[string]map[string]any
}

// ConfigJS writes a CommonJS tailwind.config.js equivalent to doc.
func ConfigJS(w io.Writer, doc *document.Document) error {
	sections := make(map[string]map[string]any)
	for _, name := range doc.Plugins() {
		if opts := doc.PluginOptions(name); opts != nil {
			sections[name] = opts
		}
	}

	daisy := doc.PluginOptions("daisyui")
	if daisy == nil {
		daisy = make(map[string]any)
	}
	daisy["themes"] = doc.Themes()
	sections["daisyui"] = daisy

	data := configJSData{
		Content:      doc.Content(),
		Sans:         doc.Sans(),
		FontFamilies: doc.FontFamilies(),
		Extend:       doc.Extend(),
		Plugins:      doc.Plugins(),
		Sections:     sections,
	}

	if err := configJSTemplate.Execute(w, data); err != nil {
		return oops.In("render").Wrapf(err, "failed to render tailwind.config.js")
	}
	return nil
}

// jsLiteral encodes v as JSON, which is a valid JavaScript expression.
func jsLiteral(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err //nolint:wrapcheck
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
