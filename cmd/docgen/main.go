// docgen prints YAML documentation of every stage's settings: keys, types,
// defaults, environment variables and code-only options.
package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/content"
	"github.com/Vilsol/tailcfg/pkg/document"
	"github.com/Vilsol/tailcfg/pkg/logging/slog"
	"github.com/Vilsol/tailcfg/pkg/logging/tint"
	"github.com/Vilsol/tailcfg/pkg/render"
	"github.com/Vilsol/tailcfg/pkg/tailwind"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

const (
	yamlIndent = 2
	envPrefix  = "TAILCFG_"
)

type output struct {
	Module  string      `yaml:"module"`
	Modules []moduleDoc `yaml:"modules"`
}

type moduleDoc struct {
	Package     string        `yaml:"package"`
	ConfigPath  string        `yaml:"configPath"`
	Description string        `yaml:"description,omitempty"`
	Fields      []fieldDoc    `yaml:"fields,omitempty"`
	CodeOnly    []codeOnlyDoc `yaml:"codeOnly,omitempty"`
}

type fieldDoc struct {
	Key         string `yaml:"key"`
	Type        string `yaml:"type"`
	Default     string `yaml:"default,omitempty"`
	Enum        string `yaml:"enum,omitempty"`
	EnvVar      string `yaml:"envVar"`
	Description string `yaml:"description,omitempty"`
}

type codeOnlyDoc struct {
	Option      string `yaml:"option"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
}

// entry pairs a settings struct with the koanf path it is read from.
type entry struct {
	settings any
	path     string
	typeName string
}

func entries() []entry {
	return []entry{
		{settings: tint.NewDefaultConfig(), path: instancePath(tint.NewModule().ConfigPath()), typeName: "Config"},
		{settings: slog.NewDefaultConfig(), path: instancePath(slog.NewModule().ConfigPath()), typeName: "Config"},
		{settings: settingsDefaults(), path: document.SettingsPath, typeName: "Settings"},
		{settings: render.NewDefaultConfig(), path: instancePath(render.NewModule().ConfigPath()), typeName: "Config"},
		{settings: content.NewDefaultConfig(), path: instancePath(content.NewModule().ConfigPath()), typeName: "Config"},
		{settings: tailwind.NewDefaultConfig(), path: instancePath(tailwind.NewModule().ConfigPath()), typeName: "Config"},
	}
}

func settingsDefaults() document.Settings {
	defaults := document.DefaultSettings()
	path, _ := defaults[document.SettingsPath+".path"].(string)
	return document.Settings{Path: path}
}

// instancePath replaces the default instance name with a placeholder.
func instancePath(path string) string {
	return strings.TrimSuffix(path, config.DefaultInstanceName) + "<name>"
}

func main() {
	modulePath, err := parseModulePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read go.mod: %v\n", err)
		os.Exit(1)
	}

	out := output{Module: modulePath}
	for _, e := range entries() {
		out.Modules = append(out.Modules, processConfig(e, modulePath))
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode yaml: %v\n", err)
		os.Exit(1)
	}
}

func processConfig(e entry, modulePath string) moduleDoc {
	t := reflect.TypeOf(e.settings)
	v := reflect.ValueOf(e.settings)
	pkgPath := t.PkgPath()

	comments := extractComments(modulePath, pkgPath, e.typeName)

	doc := moduleDoc{
		Package:     pkgPath,
		ConfigPath:  e.path,
		Description: comments.structDoc,
	}

	for f := range t.Fields() {
		if !f.IsExported() {
			continue
		}

		koanfTag := f.Tag.Get("koanf")

		if koanfTag == "-" {
			if option := f.Tag.Get("code_only"); option != "" {
				doc.CodeOnly = append(doc.CodeOnly, codeOnlyDoc{
					Option:      option,
					Type:        formatType(f.Type),
					Description: comments.funcs[option],
				})
			}
			continue
		}

		if koanfTag == "" {
			continue
		}

		doc.Fields = append(doc.Fields, fieldDoc{
			Key:         koanfTag,
			Type:        formatType(f.Type),
			Default:     defaultValue(v.FieldByName(f.Name)),
			Enum:        f.Tag.Get("enum"),
			EnvVar:      config.EnvVarName(envPrefix, e.path+"."+koanfTag),
			Description: comments.fields[f.Name],
		})
	}

	return doc
}

// defaultValue returns a string representation of a field's value,
// or empty string if the value is the zero value for its type.
func defaultValue(v reflect.Value) string {
	if !v.IsValid() || v.IsZero() {
		return ""
	}
	return fmt.Sprintf("%v", v.Interface())
}

func formatType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + formatType(t.Elem())
	case reflect.Slice:
		return "[]" + formatType(t.Elem())
	case reflect.Map:
		return "map[" + formatType(t.Key()) + "]" + formatType(t.Elem())
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return "any"
		}
		name := t.Name()
		if name == "" {
			return "interface{}"
		}
		pkg := t.PkgPath()
		if pkg != "" {
			return pkgAlias(pkg) + "." + name
		}
		return name
	default:
		name := t.Name()
		pkg := t.PkgPath()
		if pkg != "" && !isBuiltin(name) {
			return pkgAlias(pkg) + "." + name
		}
		return name
	}
}

// pkgAlias returns a human-friendly package alias, skipping version suffixes
// like "v3" or "v2" to use the actual package name instead.
// For hyphenated module names, returns the part before the hyphen.
func pkgAlias(pkg string) string {
	parts := strings.Split(pkg, "/")
	last := parts[len(parts)-1]
	if len(parts) >= 2 && len(last) >= 2 && last[0] == 'v' && last[1] >= '0' && last[1] <= '9' {
		last = parts[len(parts)-2]
	}
	if idx := strings.Index(last, "-"); idx > 0 {
		last = last[:idx]
	}
	return last
}

func isBuiltin(name string) bool {
	switch name {
	case "bool", "string",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64",
		"complex64", "complex128",
		"byte", "rune", "error":
		return true
	}
	return false
}

type sourceComments struct {
	structDoc string
	fields    map[string]string
	funcs     map[string]string
}

// extractComments parses the Go source of a package and extracts doc comments
// from the settings struct typeName (type + fields) and WithXxx option functions.
func extractComments(modulePath, pkgPath, typeName string) sourceComments {
	sc := sourceComments{
		fields: make(map[string]string),
		funcs:  make(map[string]string),
	}

	// Resolve package path to filesystem directory
	rel, found := strings.CutPrefix(pkgPath, modulePath+"/")
	if !found {
		return sc
	}
	dir := filepath.Join(".", rel)

	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, nil, parser.ParseComments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not parse %s: %v\n", dir, err)
		return sc
	}

	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				switch d := decl.(type) {
				case *ast.GenDecl:
					extractStructComments(d, typeName, &sc)
				case *ast.FuncDecl:
					extractFuncComment(d, &sc)
				}
			}
		}
	}

	return sc
}

func extractStructComments(decl *ast.GenDecl, typeName string, sc *sourceComments) {
	if decl.Tok != token.TYPE {
		return
	}
	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok || ts.Name.Name != typeName {
			continue
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			continue
		}

		if decl.Doc != nil {
			sc.structDoc = cleanComment(decl.Doc.Text())
		}

		for _, field := range st.Fields.List {
			if len(field.Names) == 0 || !field.Names[0].IsExported() {
				continue
			}
			name := field.Names[0].Name
			// Prefer doc comment (above), fall back to inline comment
			switch {
			case field.Doc != nil:
				sc.fields[name] = cleanComment(field.Doc.Text())
			case field.Comment != nil:
				sc.fields[name] = cleanComment(field.Comment.Text())
			}
		}
	}
}

func extractFuncComment(decl *ast.FuncDecl, sc *sourceComments) {
	if decl.Doc == nil {
		return
	}
	name := decl.Name.Name
	if !strings.HasPrefix(name, "With") {
		return
	}
	sc.funcs[name] = cleanComment(decl.Doc.Text())
}

// cleanComment trims whitespace and trailing periods from a doc comment.
func cleanComment(s string) string {
	s = strings.TrimSpace(s)
	// Take only the first line for brevity
	if i := strings.IndexByte(s, '\n'); i > 0 {
		s = s[:i]
	}
	// Strip conventional "FuncName ..." prefix (e.g. "WithPort sets the port number.")
	if idx := strings.Index(s, " "); idx > 0 {
		prefix := s[:idx]
		if strings.HasPrefix(prefix, "With") || prefix == "Config" || prefix == "Settings" {
			s = s[idx+1:]
		}
	}
	// Lowercase first letter, trim trailing period
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		s = strings.ToLower(s[:1]) + s[1:]
	}
	s = strings.TrimRight(s, ".")
	return s
}

func parseModulePath() (string, error) {
	data, err := os.ReadFile("go.mod")
	if err != nil {
		return "", fmt.Errorf("reading go.mod: %w", err)
	}

	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		return "", fmt.Errorf("parsing go.mod: %w", err)
	}
	if f.Module == nil {
		return "", fmt.Errorf("go.mod has no module directive")
	}

	return f.Module.Mod.Path, nil
}
