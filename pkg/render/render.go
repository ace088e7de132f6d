package render

import (
	"io"
	"path/filepath"

	"github.com/Vilsol/tailcfg/pkg/document"
	"github.com/Vilsol/tailcfg/pkg/plugin"
)

// Artifacts are the files produced for one document.
type Artifacts struct {
	// Format the artefacts were rendered for.
	Format Format

	// Input is the CSS entry file handed to the Tailwind binary.
	Input string

	// ConfigJS is the rendered tailwind.config.js, empty when it was not written.
	ConfigJS string

	// Changed reports whether any file content differed from what was on disk.
	Changed bool
}

// Render resolves and activates the document's plugins and writes the artefacts described by cfg.
func Render(cfg Config, doc *document.Document, registry *plugin.Registry) (Artifacts, error) {
	plugins, err := registry.Resolve(doc.Plugins())
	if err != nil {
		return Artifacts{}, err //nolint:wrapcheck
	}

	if err := plugin.Activate(doc, plugins); err != nil {
		return Artifacts{}, err //nolint:wrapcheck
	}

	out := Artifacts{Format: cfg.Format, Input: cfg.Input}

	write := WriteFile
	if cfg.DryRun {
		write = discard
	}

	if cfg.writesConfigJS() {
		changed, err := write(cfg.ConfigJS, func(w io.Writer) error {
			return ConfigJS(w, doc)
		})
		if err != nil {
			return Artifacts{}, err
		}
		out.ConfigJS = cfg.ConfigJS
		out.Changed = changed
	}

	entry := Entry{
		Format: cfg.Format,
		Root:   cfg.Root,
		Dir:    filepath.Dir(cfg.Input),
	}
	if cfg.Format == FormatV3 {
		entry.ConfigPath = cfg.ConfigJS
	}

	changed, err := write(cfg.Input, func(w io.Writer) error {
		return EntryCSS(w, entry, doc, plugins)
	})
	if err != nil {
		return Artifacts{}, err
	}
	out.Changed = out.Changed || changed

	return out, nil
}

func discard(_ string, fn func(w io.Writer) error) (bool, error) {
	return false, fn(io.Discard)
}
