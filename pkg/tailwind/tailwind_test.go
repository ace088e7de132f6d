package tailwind_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MarvinJWendt/testza"
	"github.com/Vilsol/tailcfg/pkg/tailwind"
)

const recordArgs = "#!/bin/sh\nprintf '%s\\n' \"$@\" > \"$(dirname \"$0\")/args.txt\"\n"

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake binaries are shell scripts")
	}
}

// installFake places script where binary expects its executable.
func installFake(t *testing.T, binary *tailwind.Binary, script string) string {
	t.Helper()

	path := filepath.Join(binary.BinDir, binary.Version, tailwind.BinaryName())
	testza.AssertNil(t, os.MkdirAll(filepath.Dir(path), 0o755))
	testza.AssertNil(t, os.WriteFile(path, []byte(script), 0o755)) //nolint:gosec
	return path
}

func TestNewBinary_Defaults(t *testing.T) {
	t.Parallel()

	b := tailwind.NewBinary("", "", "")
	testza.AssertEqual(t, tailwind.DefaultVersion, b.Version)
	testza.AssertEqual(t, tailwind.GitHubReleaseURL, b.DownloadBaseURL)
	testza.AssertNotEqual(t, "", b.BinDir)
}

func TestBinaryName(t *testing.T) {
	t.Parallel()

	name := tailwind.BinaryName()
	testza.AssertTrue(t, strings.HasPrefix(name, "tailwindcss-"))

	switch runtime.GOOS {
	case "linux":
		testza.AssertTrue(t, strings.HasPrefix(name, "tailwindcss-linux-"))
	case "darwin":
		testza.AssertTrue(t, strings.HasPrefix(name, "tailwindcss-macos-"))
	case "windows":
		testza.AssertEqual(t, "tailwindcss-windows-x64.exe", name)
	}
}

func TestBinary_PathNotInstalled(t *testing.T) {
	t.Parallel()

	b := tailwind.NewBinary("v4.1.18", t.TempDir(), "")
	testza.AssertFalse(t, b.IsInstalled())

	_, err := b.Path()
	testza.AssertNotNil(t, err)
}

func TestBinary_EnsureInstalledDownloads(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	var requested atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		requested.Store(r.URL.Path)
		_, _ = w.Write([]byte("binary"))
	}))
	t.Cleanup(server.Close)

	b := tailwind.NewBinary("v4.1.18", t.TempDir(), server.URL+"/")
	b.HTTPClient = server.Client()

	path, err := b.EnsureInstalled(context.Background())
	testza.AssertNil(t, err)
	testza.AssertEqual(t, filepath.Join(b.BinDir, "v4.1.18", tailwind.BinaryName()), path)
	testza.AssertEqual(t, "/v4.1.18/"+tailwind.BinaryName(), requested.Load())

	data, err := os.ReadFile(path)
	testza.AssertNil(t, err)
	testza.AssertEqual(t, "binary", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		testza.AssertNil(t, err)
		testza.AssertTrue(t, info.Mode().Perm()&0o100 != 0)
	}

	_, err = b.EnsureInstalled(context.Background())
	testza.AssertNil(t, err)
	testza.AssertEqual(t, int32(1), requests.Load())

	cached, err := b.Path()
	testza.AssertNil(t, err)
	testza.AssertEqual(t, path, cached)
}

func TestBinary_EnsureInstalledHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	b := tailwind.NewBinary("v0.0.0", t.TempDir(), server.URL)
	b.HTTPClient = server.Client()

	_, err := b.EnsureInstalled(context.Background())
	testza.AssertNotNil(t, err)
	testza.AssertContains(t, err.Error(), "404")
	testza.AssertFalse(t, b.IsInstalled())
}

func TestRunner_Build(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	b := tailwind.NewBinary("v4.1.18", t.TempDir(), "http://127.0.0.1:0")
	path := installFake(t, b, recordArgs)

	runner := tailwind.NewRunner(b, t.TempDir())
	err := runner.Build(context.Background(), tailwind.RunnerConfig{
		InputPath:  "in.css",
		OutputPath: "out.css",
		ConfigPath: "tailwind.config.js",
		Minify:     true,
	})
	testza.AssertNil(t, err)

	args, err := os.ReadFile(filepath.Join(filepath.Dir(path), "args.txt"))
	testza.AssertNil(t, err)
	testza.AssertEqual(t, "-i\nin.css\n-o\nout.css\n-c\ntailwind.config.js\n--minify\n", string(args))
}

func TestRunner_BuildFailure(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	b := tailwind.NewBinary("v4.1.18", t.TempDir(), "http://127.0.0.1:0")
	installFake(t, b, "#!/bin/sh\necho 'boom' >&2\nexit 3\n")

	var stderr bytes.Buffer
	runner := tailwind.NewRunner(b, t.TempDir())
	runner.Stderr = &stderr

	err := runner.Build(context.Background(), tailwind.RunnerConfig{InputPath: "in.css", OutputPath: "out.css"})
	testza.AssertNotNil(t, err)
	testza.AssertEqual(t, "boom\n", stderr.String())
}

func TestRunner_WatchAndStop(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	b := tailwind.NewBinary("v4.1.18", t.TempDir(), "http://127.0.0.1:0")
	installFake(t, b, "#!/bin/sh\nexec sleep 30\n")

	runner := tailwind.NewRunner(b, t.TempDir())
	testza.AssertFalse(t, runner.IsRunning())
	testza.AssertNil(t, runner.Done())

	cfg := tailwind.RunnerConfig{InputPath: "in.css", OutputPath: "out.css"}
	testza.AssertNil(t, runner.StartWatch(context.Background(), cfg))
	testza.AssertTrue(t, runner.IsRunning())
	testza.AssertNil(t, runner.StartWatch(context.Background(), cfg))

	done := runner.Done()
	runner.Stop()
	testza.AssertFalse(t, runner.IsRunning())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not exit")
	}
}
