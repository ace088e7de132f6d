package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Vilsol/tailcfg/pkg/document"
	"github.com/Vilsol/tailcfg/pkg/plugin"
	"github.com/samber/oops"
)

// Format selects the Tailwind major version the artefacts target.
type Format string

const (
	// FormatV4 renders a CSS-first entry file with @source, @theme and @plugin.
	FormatV4 Format = "v4"

	// FormatV3 renders @tailwind directives plus a tailwind.config.js.
	FormatV3 Format = "v3"
)

// Entry describes the CSS entry file to render.
type Entry struct {
	// Format picks the directive style.
	Format Format

	// Root is the directory content patterns are relative to.
	Root string

	// Dir is the directory the entry file is written to. @source paths are relative to it.
	Dir string

	// ConfigPath is referenced with @config when set.
	ConfigPath string
}

// EntryCSS writes the CSS entry file for doc and its activated plugins.
func EntryCSS(w io.Writer, entry Entry, doc *document.Document, plugins []plugin.Plugin) error {
	var b strings.Builder

	switch entry.Format {
	case FormatV3:
		b.WriteString("@tailwind base;\n@tailwind components;\n@tailwind utilities;\n")
		if entry.ConfigPath != "" {
			fmt.Fprintf(&b, "@config %s;\n", strconv.Quote(relativeTo(entry.Dir, entry.ConfigPath)))
		}
	case FormatV4, "":
		b.WriteString("@import \"tailwindcss\";\n")
		if entry.ConfigPath != "" {
			fmt.Fprintf(&b, "@config %s;\n", strconv.Quote(relativeTo(entry.Dir, entry.ConfigPath)))
		}

		b.WriteString("\n")
		for _, pattern := range doc.Content() {
			source, negated := strings.CutPrefix(pattern, "!")
			source = relativeTo(entry.Dir, filepath.Join(entry.Root, source))
			if negated {
				fmt.Fprintf(&b, "@source not %s;\n", strconv.Quote(source))
			} else {
				fmt.Fprintf(&b, "@source %s;\n", strconv.Quote(source))
			}
		}

		fmt.Fprintf(&b, "\n@theme {\n  --font-sans: %s;\n}\n", FontStack(doc.Sans()))

		if len(plugins) > 0 {
			b.WriteString("\n")
		}
		for _, p := range plugins {
			if err := p.EmitStyles(&b); err != nil {
				return oops.In("render").With("plugin", p.Name()).Wrapf(err, "plugin %s failed to emit styles", p.Name())
			}
		}
	default:
		return oops.In("render").With("format", entry.Format).Errorf("unknown format %q", entry.Format)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return oops.In("render").Wrapf(err, "failed to write entry css")
	}
	return nil
}

// FontStack joins fonts into a CSS font-family value, quoting names with spaces.
func FontStack(fonts []string) string {
	quoted := make([]string, 0, len(fonts))
	for _, font := range fonts {
		if strings.ContainsAny(font, " ") && !strings.HasPrefix(font, `"`) && !strings.HasPrefix(font, "'") {
			font = strconv.Quote(font)
		}
		quoted = append(quoted, font)
	}
	return strings.Join(quoted, ", ")
}

func relativeTo(dir, path string) string {
	if dir == "" {
		return filepath.ToSlash(path)
	}

	absDir, errDir := filepath.Abs(dir)
	absPath, errPath := filepath.Abs(path)
	if errDir != nil || errPath != nil {
		return filepath.ToSlash(path)
	}

	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return filepath.ToSlash(path)
	}

	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}
