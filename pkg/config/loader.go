package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

type configFile struct {
	path   string
	parser koanf.Parser
}

type formatDef struct {
	ext    string
	parser koanf.Parser
}

func getSupportedFormats() []formatDef {
	return []formatDef{
		{".yaml", yaml.Parser()},
		{".yml", yaml.Parser()},
		{".json", json.Parser()},
		{".toml", toml.Parser()},
	}
}

// ParserFor returns the koanf parser matching the extension of path, or nil.
func ParserFor(path string) koanf.Parser { //nolint:ireturn
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range getSupportedFormats() {
		if f.ext == ext {
			return f.parser
		}
	}
	return nil
}

// SupportedExtensions lists the file extensions a parser exists for.
func SupportedExtensions() []string {
	formats := getSupportedFormats()
	exts := make([]string, 0, len(formats))
	for _, f := range formats {
		exts = append(exts, f.ext)
	}
	return exts
}

func (m *Module) discoverConfigFiles() []configFile {
	var files []configFile

	for _, dir := range m.config.ConfigDirs {
		for _, f := range getSupportedFormats() {
			path := filepath.Join(dir, m.config.ConfigName+f.ext)
			if _, err := os.Stat(path); err == nil {
				files = append(files, configFile{
					path:   path,
					parser: f.parser,
				})
			}
		}
	}

	return files
}

func loadFiles(k *koanf.Koanf, files []configFile) error {
	for _, cf := range files {
		if err := k.Load(file.Provider(cf.path), cf.parser); err != nil {
			return oops.
				In("config").
				With("path", cf.path).
				Wrapf(err, "failed to load settings file %s", cf.path)
		}
	}
	return nil
}

func loadEnv(k *koanf.Koanf, prefix string) error {
	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		// TAILCFG_MODULES_TAILWIND_CLI_DEFAULT_MINIFY -> modules.tailwind.cli.default.minify
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, prefix), "_", "."))
	}), nil)
	if err != nil {
		return oops.In("config").Wrapf(err, "failed to load env vars")
	}
	return nil
}

func toEnvKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
