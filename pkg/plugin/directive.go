package plugin

import (
	"fmt"
	"io"
	"strconv"
)

var _ Plugin = (*Directive)(nil)

// Directive is a plugin without themes that only needs its @plugin line, such as
// @tailwindcss/typography or @tailwindcss/forms.
type Directive struct {
	name string
}

// NewDirective returns a factory for a theme-less plugin called name.
func NewDirective(name string) Factory {
	return func() Plugin {
		return &Directive{name: name}
	}
}

func (d *Directive) Name() string {
	return d.name
}

// RegisterThemes ignores themes; they belong to component-library plugins.
func (d *Directive) RegisterThemes(_ []string) error {
	return nil
}

func (d *Directive) EmitStyles(w io.Writer) error {
	_, err := fmt.Fprintf(w, "@plugin %s;\n", strconv.Quote(d.name))
	return err //nolint:wrapcheck
}
