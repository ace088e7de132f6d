// Package tailwind manages the Tailwind CSS standalone binary: downloading and
// caching it per version, and running it once or in watch mode.
package tailwind

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Vilsol/slox"
	"github.com/google/renameio/v2"
	"github.com/samber/oops"
)

const (
	// DefaultVersion is the Tailwind CSS release used when none is configured.
	// v4.0.0 to v4.0.5 exit immediately in --watch mode.
	DefaultVersion = "v4.1.18"

	// GitHubReleaseURL is the base URL release binaries are downloaded from.
	GitHubReleaseURL = "https://github.com/tailwindlabs/tailwindcss/releases/download"

	// DefaultBinDir is the binary cache, relative to the user's home directory.
	DefaultBinDir = ".tailcfg/bin"

	downloadTimeout = 5 * time.Minute
)

// Binary is one version of the Tailwind CSS standalone binary.
type Binary struct {
	// Version is the release tag, e.g. v4.1.18.
	Version string

	// BinDir is the cache directory. Binaries live in BinDir/<version>/.
	BinDir string

	// DownloadBaseURL replaces GitHubReleaseURL when set.
	DownloadBaseURL string

	// HTTPClient is used for downloads. A client with a generous timeout is used when nil.
	HTTPClient *http.Client

	mu   sync.Mutex
	path string
}

// NewBinary returns a binary for version cached under binDir. Empty values fall back to defaults.
func NewBinary(version, binDir, baseURL string) *Binary {
	if version == "" {
		version = DefaultVersion
	}
	if binDir == "" {
		binDir = defaultBinDir()
	}
	if baseURL == "" {
		baseURL = GitHubReleaseURL
	}
	return &Binary{
		Version:         version,
		BinDir:          binDir,
		DownloadBaseURL: baseURL,
	}
}

func defaultBinDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DefaultBinDir)
	}
	return filepath.Join(home, DefaultBinDir)
}

// Path returns the installed binary, or an error when it has not been downloaded.
func (b *Binary) Path() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.path != "" {
		return b.path, nil
	}

	path := b.binaryPath()
	if _, err := os.Stat(path); err != nil {
		return "", oops.
			In("tailwind").
			Code("binary_not_found").
			With("path", path).
			Wrapf(err, "tailwind binary %s not installed", b.Version)
	}

	b.path = path
	return path, nil
}

// IsInstalled reports whether the binary exists in the cache.
func (b *Binary) IsInstalled() bool {
	_, err := os.Stat(b.binaryPath())
	return err == nil
}

// EnsureInstalled downloads the binary when it is missing and returns its path.
func (b *Binary) EnsureInstalled(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.binaryPath()
	if _, err := os.Stat(path); err == nil {
		b.path = path
		return path, nil
	}

	if err := b.download(ctx, path); err != nil {
		return "", err
	}

	b.path = path
	return path, nil
}

func (b *Binary) binaryPath() string {
	return filepath.Join(b.BinDir, b.Version, binaryName())
}

func (b *Binary) downloadURL() string {
	base := b.DownloadBaseURL
	if base == "" {
		base = GitHubReleaseURL
	}
	return strings.TrimRight(base, "/") + "/" + b.Version + "/" + binaryName()
}

func (b *Binary) download(ctx context.Context, path string) error {
	url := b.downloadURL()
	errs := oops.In("tailwind").With("url", url).With("version", b.Version)

	slox.Info(ctx, "downloading tailwind", slog.String("version", b.Version), slog.String("url", url))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrapf(err, "failed to create bin directory")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.Wrapf(err, "failed to create request")
	}

	client := b.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return errs.Wrapf(err, "failed to download")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errs.Code("download_failed").With("status", resp.StatusCode).Errorf("download failed with status %d", resp.StatusCode)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o755))
	if err != nil {
		return errs.Wrapf(err, "failed to create pending file")
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			slox.Debug(ctx, "cleanup pending binary", slog.Any("error", err))
		}
	}()

	written, err := io.Copy(pending, resp.Body)
	if err != nil {
		return errs.Wrapf(err, "failed to write binary")
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errs.Wrapf(err, "failed to install binary")
	}

	slox.Info(ctx, "tailwind installed",
		slog.String("path", path),
		slog.Float64("size_mb", float64(written)/1024/1024),
	)

	return nil
}
