package render

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/samber/oops"
)

// WriteFile renders with fn and atomically replaces path with the result.
// An unchanged file is left untouched so watchers do not fire needlessly.
func WriteFile(path string, fn func(w io.Writer) error) (bool, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return false, err
	}

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, buf.Bytes()) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, oops.In("render").With("path", path).Wrapf(err, "failed to create directory")
	}

	if err := renameio.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return false, oops.In("render").With("path", path).Wrapf(err, "failed to write %s", path)
	}

	return true, nil
}
