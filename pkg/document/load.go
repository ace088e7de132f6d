package document

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Load reads and validates the document at path. The file is read exactly once and
// its extension selects the parser (.json, .yaml, .yml or .toml).
//
// Load fails with a *MalformedConfigError when the file cannot be parsed or holds an
// invalid value, and with a *MissingFieldError when a required field is absent or of
// the wrong shape. Both are reachable through errors.As.
func Load(path string) (*Document, error) {
	parser := config.ParserFor(path)
	if parser == nil {
		return nil, malformed(path, "", fmt.Sprintf(
			"unsupported extension %q (want one of %s)",
			filepath.Ext(path),
			strings.Join(config.SupportedExtensions(), ", "),
		), nil)
	}

	raw, err := file.Provider(path).ReadBytes()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oops.
				In("document").
				Code(CodeNotFound).
				With("path", path).
				Wrapf(err, "config %s not found", path)
		}
		return nil, oops.In("document").With("path", path).Wrapf(err, "failed to read config %s", path)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(raw), parser); err != nil {
		return nil, malformed(path, "", "not a structured document", err)
	}

	return fromKoanf(path, k)
}

func fromKoanf(path string, k *koanf.Koanf) (*Document, error) {
	doc := &Document{path: path}

	var err error

	if doc.content, err = stringList(path, k, FieldContent); err != nil {
		return nil, err
	}
	if len(doc.content) == 0 {
		return nil, missing(path, FieldContent, "must not be empty")
	}
	for i, pattern := range doc.content {
		if err := validatePattern(pattern); err != nil {
			return nil, malformed(path, FieldContent, fmt.Sprintf("entry %d %q: %s", i, pattern, err), nil)
		}
	}

	sans, err := stringList(path, k, FieldSans)
	if err != nil {
		return nil, err
	}
	doc.sans = ExpandFallbacks(sans)
	if len(doc.sans) == 0 {
		return nil, missing(path, FieldSans, "must not be empty")
	}

	if doc.plugins, err = stringList(path, k, FieldPlugins); err != nil {
		return nil, err
	}
	for i, name := range doc.plugins {
		if strings.TrimSpace(name) == "" {
			return nil, malformed(path, FieldPlugins, fmt.Sprintf("entry %d is blank", i), nil)
		}
	}

	if doc.themes, err = stringList(path, k, FieldThemes); err != nil {
		return nil, err
	}
	for i, theme := range doc.themes {
		if strings.TrimSpace(theme) == "" {
			return nil, malformed(path, FieldThemes, fmt.Sprintf("entry %d is blank", i), nil)
		}
	}
	if dups := lo.FindDuplicates(doc.themes); len(dups) > 0 {
		return nil, malformed(path, FieldThemes, fmt.Sprintf("duplicate theme %q", dups[0]), nil)
	}

	doc.extend = subMap(k, "theme.extend")
	fontFamilies := subMap(k, "theme.extend.fontFamily")
	delete(doc.extend, "fontFamily")
	delete(fontFamilies, "sans")
	for role, value := range fontFamilies {
		if fonts, ok := asStrings(value); ok {
			fontFamilies[role] = ExpandFallbacks(fonts)
		}
	}
	doc.fontFamilies = fontFamilies

	doc.sections = make(map[string]map[string]any)
	for _, name := range doc.plugins {
		if section := subMap(k, name); section != nil {
			doc.sections[name] = section
		}
	}
	if _, ok := doc.sections["daisyui"]; !ok {
		doc.sections["daisyui"] = subMap(k, "daisyui")
	}

	return doc, nil
}

func stringList(path string, k *koanf.Koanf, field Field) ([]string, error) {
	key := string(field)
	if !k.Exists(key) || k.Get(key) == nil {
		return nil, missing(path, field, "is required")
	}

	raw := k.Get(key)
	items, ok := raw.([]any)
	if !ok {
		if list, ok := raw.([]string); ok {
			return list, nil
		}
		return nil, missing(path, field, fmt.Sprintf("must be a list of strings, got %T", raw))
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, missing(path, field, fmt.Sprintf("must be a list of strings, entry %d is %T", i, item))
		}
		out = append(out, s)
	}

	return out, nil
}

func asStrings(value any) ([]string, bool) {
	items, ok := value.([]any)
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}

	return out, true
}

func subMap(k *koanf.Koanf, key string) map[string]any {
	if !k.Exists(key) {
		return nil
	}
	section, ok := k.Get(key).(map[string]any)
	if !ok {
		return nil
	}
	return maps.Copy(section)
}

// validatePattern checks a content glob. A leading "!" marks an exclusion.
func validatePattern(pattern string) error {
	trimmed := strings.TrimPrefix(pattern, "!")
	if strings.TrimSpace(trimmed) == "" {
		return errors.New("pattern is empty")
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(trimmed)) {
		return errors.New("invalid glob syntax")
	}
	return nil
}
