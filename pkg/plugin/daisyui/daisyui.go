// Package daisyui is the plugin handle for the daisyUI component library.
package daisyui

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Vilsol/tailcfg/pkg/plugin"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/oops"
)

// Name is the name daisyUI is listed under in a document.
const Name = "daisyui"

var (
	_ plugin.Plugin       = (*Plugin)(nil)
	_ plugin.Configurable = (*Plugin)(nil)
	_ plugin.Catalogue    = (*Plugin)(nil)
)

// Options are the daisyui section keys besides themes.
type Options struct {
	// DarkTheme is marked --prefersdark when it is part of the theme list.
	DarkTheme string `mapstructure:"darkTheme"`

	// Root is the CSS selector theme variables are attached to.
	Root string `mapstructure:"root"`

	// Prefix is prepended to every daisyUI class name.
	Prefix string `mapstructure:"prefix"`

	// Include limits the emitted components.
	Include []string `mapstructure:"include"`

	// Exclude drops components.
	Exclude []string `mapstructure:"exclude"`

	// Logs toggles daisyUI's console output.
	Logs *bool `mapstructure:"logs"`
}

// Plugin validates the document's themes against the daisyUI catalogue and emits the
// @plugin directive for them.
type Plugin struct {
	options Options
	themes  []string
}

// New returns a daisyUI handle with default options.
func New() plugin.Plugin { //nolint:ireturn
	return &Plugin{options: Options{DarkTheme: "dark"}}
}

// Register adds daisyUI to registry.
func Register(registry *plugin.Registry) {
	registry.Register(Name, New)
}

func (p *Plugin) Name() string {
	return Name
}

func (p *Plugin) KnownThemes() []string {
	return slices.Clone(Themes)
}

// Configure decodes the daisyui section. Unknown keys are ignored.
func (p *Plugin) Configure(options map[string]any) error {
	if len(options) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p.options,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return oops.In("daisyui").Wrapf(err, "failed to create options decoder")
	}

	if err := decoder.Decode(options); err != nil {
		return oops.In("daisyui").Wrapf(err, "invalid daisyui options")
	}

	return nil
}

// RegisterThemes keeps themes in order. Every name, and a non-empty DarkTheme, must
// be part of the catalogue.
func (p *Plugin) RegisterThemes(themes []string) error {
	for _, theme := range themes {
		if _, ok := knownThemes[theme]; !ok {
			return unrecognized(theme)
		}
	}

	if p.options.DarkTheme != "" {
		if _, ok := knownThemes[p.options.DarkTheme]; !ok {
			return unrecognized(p.options.DarkTheme)
		}
	}

	p.themes = slices.Clone(themes)
	return nil
}

func unrecognized(theme string) error {
	return oops.
		In("daisyui").
		Code("unrecognized_theme").
		With("theme", theme).
		Wrap(&plugin.UnrecognizedThemeError{Plugin: Name, Theme: theme})
}

// EmitStyles writes the daisyUI @plugin block. The first theme is the default one.
func (p *Plugin) EmitStyles(w io.Writer) error {
	lines := p.directiveLines()
	if len(lines) == 0 {
		_, err := fmt.Fprintf(w, "@plugin %s;\n", strconv.Quote(Name))
		return err //nolint:wrapcheck
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@plugin %s {\n", strconv.Quote(Name))
	for _, line := range lines {
		fmt.Fprintf(&b, "  %s;\n", line)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err //nolint:wrapcheck
}

func (p *Plugin) directiveLines() []string {
	var lines []string

	if len(p.themes) > 0 {
		themes := make([]string, 0, len(p.themes))
		for i, theme := range p.themes {
			entry := theme
			if i == 0 {
				entry += " --default"
			}
			if theme == p.options.DarkTheme && i != 0 {
				entry += " --prefersdark"
			}
			themes = append(themes, entry)
		}
		lines = append(lines, "themes: "+strings.Join(themes, ", "))
	}

	if p.options.Root != "" {
		lines = append(lines, "root: "+strconv.Quote(p.options.Root))
	}
	if p.options.Prefix != "" {
		lines = append(lines, "prefix: "+strconv.Quote(p.options.Prefix))
	}
	if len(p.options.Include) > 0 {
		lines = append(lines, "include: "+strings.Join(p.options.Include, ", "))
	}
	if len(p.options.Exclude) > 0 {
		lines = append(lines, "exclude: "+strings.Join(p.options.Exclude, ", "))
	}
	if p.options.Logs != nil {
		lines = append(lines, "logs: "+strconv.FormatBool(*p.options.Logs))
	}

	return lines
}
