package document

import "github.com/samber/oops"

// SettingsPath is the settings key the document stage reads from.
const SettingsPath = "document"

// Settings selects the document file and whether it is watched for changes.
type Settings struct {
	// Path of the document file.
	Path string `koanf:"path"`

	// Watch reloads the document when its file changes.
	Watch bool `koanf:"watch"`
}

// DefaultSettings returns the settings used when nothing else is configured.
func DefaultSettings() map[string]any {
	return map[string]any{
		SettingsPath + ".path":  "tailwind.config.json",
		SettingsPath + ".watch": false,
	}
}

func (s *Settings) Validate() error {
	if s.Path == "" {
		return oops.In("document").Errorf("document path must not be empty")
	}
	return nil
}
