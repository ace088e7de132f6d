package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MarvinJWendt/testza"
	"github.com/Vilsol/tailcfg/pkg/config"
)

func awaitReload(t *testing.T, reloads <-chan struct{}) {
	t.Helper()

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
}

// replace writes content next to path and renames it over path, like editors do on save.
func replace(t *testing.T, path string, content string) {
	t.Helper()

	tmp := path + ".swp"
	testza.AssertNil(t, os.WriteFile(tmp, []byte(content), 0o600))
	testza.AssertNil(t, os.Rename(tmp, path))
}

func TestWatchFiles_FollowsRenamedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tailwind.config.json")
	testza.AssertNil(t, os.WriteFile(path, []byte(`{}`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reloads := make(chan struct{}, 8)
	testza.AssertNil(t, config.WatchFiles(ctx, []string{path}, func() error {
		reloads <- struct{}{}
		return nil
	}))

	replace(t, path, `{"content": ["a"]}`)
	awaitReload(t, reloads)

	replace(t, path, `{"content": ["b"]}`)
	awaitReload(t, reloads)

	testza.AssertNil(t, os.WriteFile(path, []byte(`{"content": ["c"]}`), 0o600))
	awaitReload(t, reloads)
}

func TestWatchFiles_IgnoresSiblings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tailcfg.yaml")
	testza.AssertNil(t, os.WriteFile(path, nil, 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reloads := make(chan struct{}, 8)
	testza.AssertNil(t, config.WatchFiles(ctx, []string{path}, func() error {
		reloads <- struct{}{}
		return nil
	}))

	testza.AssertNil(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	select {
	case <-reloads:
		t.Fatal("reloaded for an unwatched file")
	case <-time.After(500 * time.Millisecond):
	}
}
