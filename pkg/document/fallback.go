package document

import "slices"

// Fallback markers are replaced in place by the matching default stack.
const (
	SansFallbackMarker  = "...fontFamily.sans"
	SerifFallbackMarker = "...fontFamily.serif"
	MonoFallbackMarker  = "...fontFamily.mono"
)

// Default font stacks, as shipped in Tailwind's default theme.
var (
	DefaultSans = []string{
		"ui-sans-serif",
		"system-ui",
		"sans-serif",
		`"Apple Color Emoji"`,
		`"Segoe UI Emoji"`,
		`"Segoe UI Symbol"`,
		`"Noto Color Emoji"`,
	}

	DefaultSerif = []string{
		"ui-serif",
		"Georgia",
		"Cambria",
		`"Times New Roman"`,
		"Times",
		"serif",
	}

	DefaultMono = []string{
		"ui-monospace",
		"SFMono-Regular",
		"Menlo",
		"Monaco",
		"Consolas",
		`"Liberation Mono"`,
		`"Courier New"`,
		"monospace",
	}
)

var fallbackTables = map[string][]string{
	SansFallbackMarker:  DefaultSans,
	SerifFallbackMarker: DefaultSerif,
	MonoFallbackMarker:  DefaultMono,
}

// ExpandFallbacks returns fonts with every fallback marker replaced by its stack.
// Order is preserved; unmarked entries are copied verbatim.
func ExpandFallbacks(fonts []string) []string {
	out := make([]string, 0, len(fonts))
	for _, font := range fonts {
		if table, ok := fallbackTables[font]; ok {
			out = append(out, table...)
			continue
		}
		out = append(out, font)
	}
	return out
}

// WithSansFallback returns font followed by DefaultSans.
func WithSansFallback(font string) []string {
	return append([]string{font}, slices.Clone(DefaultSans)...)
}
