package slog

import (
	"context"
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/MarvinJWendt/testza"
	"github.com/Vilsol/slox"
)

func callerPC() uintptr {
	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	return pcs[0]
}

func record(level slog.Level, msg string, pc uintptr) slog.Record {
	return slog.NewRecord(time.Now(), level, msg, pc)
}

func TestPackageOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"method on pointer receiver", "github.com/acme/site/pkg.(*Type).Method", "github.com/acme/site/pkg"},
		{"plain function", "github.com/acme/site/pkg.Function", "github.com/acme/site/pkg"},
		{"nested package", "github.com/acme/site/pkg/sub/deep.Function", "github.com/acme/site/pkg/sub/deep"},
		{"main package", "main.main", "main"},
		{"empty string", "", ""},
		{"closure", "github.com/Vilsol/tailcfg/pkg/render.(*Module).Init.func1", "github.com/Vilsol/tailcfg/pkg/render"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			testza.AssertEqual(t, tt.expected, packageOf(tt.input))
		})
	}
}

func TestExpandPackage(t *testing.T) {
	t.Parallel()

	testza.AssertEqual(t, "github.com/Vilsol/tailcfg/pkg/tailwind", expandPackage("tailwind"))
	testza.AssertEqual(t, "github.com/Vilsol/tailcfg/pkg/plugin/daisyui", expandPackage("plugin/daisyui"))
	testza.AssertEqual(t, "github.com/acme/site/pkg", expandPackage("github.com/acme/site/pkg"))
	testza.AssertEqual(t, "main", expandPackage("main"))
}

func TestThresholds_Match(t *testing.T) {
	t.Parallel()

	th := newThresholds(slog.LevelInfo, map[string]slog.Level{
		"plugin/daisyui":                     slog.LevelWarn,
		"plugin":                             slog.LevelDebug,
		"tailwind":                           slog.LevelError,
		"github.com/acme/site/internal/page": slog.LevelDebug,
	})

	tests := []struct {
		name     string
		pkgPath  string
		expected slog.Level
	}{
		{"exact match longest", "github.com/Vilsol/tailcfg/pkg/plugin/daisyui", slog.LevelWarn},
		{"sub-package of longest", "github.com/Vilsol/tailcfg/pkg/plugin/daisyui/themes", slog.LevelWarn},
		{"shorter prefix match", "github.com/Vilsol/tailcfg/pkg/plugin/builtin", slog.LevelDebug},
		{"different subtree", "github.com/Vilsol/tailcfg/pkg/tailwind", slog.LevelError},
		{"prefix without path boundary", "github.com/Vilsol/tailcfg/pkg/tailwindx", slog.LevelInfo},
		{"full import path", "github.com/acme/site/internal/page", slog.LevelDebug},
		{"no match falls to default", "github.com/Vilsol/tailcfg/pkg/render", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			testza.AssertEqual(t, tt.expected, th.match(tt.pkgPath))
		})
	}

	testza.AssertEqual(t, slog.LevelDebug, th.floor)
}

func TestLevelFilter_Enabled(t *testing.T) {
	t.Parallel()

	f := newLevelFilter(&recordingHandler{}, slog.LevelWarn, map[string]slog.Level{
		"render": slog.LevelDebug,
	})

	testza.AssertTrue(t, f.Enabled(context.Background(), slog.LevelDebug))
	testza.AssertTrue(t, f.Enabled(context.Background(), slog.LevelError))

	quiet := newLevelFilter(&recordingHandler{}, slog.LevelError, nil)
	testza.AssertFalse(t, quiet.Enabled(context.Background(), slog.LevelInfo))
	testza.AssertTrue(t, quiet.Enabled(WithLogLevel(context.Background(), slog.LevelDebug), slog.LevelDebug))
}

func TestLevelFilter_Handle(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	f := newLevelFilter(handler, slog.LevelWarn, map[string]slog.Level{
		"logging/slog": slog.LevelDebug,
	})

	testza.AssertNil(t, f.Handle(context.Background(), record(slog.LevelDebug, "rendered", callerPC())))
	testza.AssertEqual(t, 1, len(handler.records))
	testza.AssertEqual(t, "rendered", handler.records[0].Message)
}

func TestLevelFilter_AttributesSloxCallsToCaller(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	f := newLevelFilter(handler, slog.LevelInfo, map[string]slog.Level{
		"logging/slog": slog.LevelDebug,
	})
	ctx := slox.Into(context.Background(), slog.New(f))

	slox.Debug(ctx, "via slox")
	slox.Debug(ctx, "via slox again")
	slog.New(f).DebugContext(ctx, "direct")

	testza.AssertEqual(t, 3, len(handler.records))
	testza.AssertEqual(t, "via slox", handler.records[0].Message)
	testza.AssertEqual(t, "direct", handler.records[2].Message)
}

func TestLevelFilter_SloxCallsUseCallerThreshold(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	f := newLevelFilter(handler, slog.LevelInfo, map[string]slog.Level{
		"tailwind":               slog.LevelDebug,
		"github.com/Vilsol/slox": slog.LevelDebug,
	})
	ctx := slox.Into(context.Background(), slog.New(f))

	slox.Debug(ctx, "dropped")
	slox.Info(ctx, "kept")

	testza.AssertEqual(t, 1, len(handler.records))
	testza.AssertEqual(t, "kept", handler.records[0].Message)
}

func TestLevelFilter_HandleDropsBelowThreshold(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	f := newLevelFilter(handler, slog.LevelError, map[string]slog.Level{
		"github.com/some/other/pkg": slog.LevelDebug,
	})

	testza.AssertNil(t, f.Handle(context.Background(), record(slog.LevelInfo, "dropped", callerPC())))
	testza.AssertEqual(t, 0, len(handler.records))
}

func TestLevelFilter_ContextOverride(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	f := newLevelFilter(handler, slog.LevelInfo, nil)
	pc := callerPC()

	testza.AssertNil(t, f.Handle(WithLogLevel(context.Background(), slog.LevelDebug), record(slog.LevelDebug, "traced", pc)))
	testza.AssertNil(t, f.Handle(WithLogLevel(context.Background(), slog.LevelWarn), record(slog.LevelInfo, "silenced", pc)))

	testza.AssertEqual(t, 1, len(handler.records))
	testza.AssertEqual(t, "traced", handler.records[0].Message)
}

func TestLevelFilter_UpdateReachesDerivedHandlers(t *testing.T) {
	t.Parallel()

	handler := &recordingHandler{}
	f := newLevelFilter(handler, slog.LevelError, nil)
	derived, ok := f.WithGroup("render").(*levelFilter)
	testza.AssertTrue(t, ok)

	pc := callerPC()
	testza.AssertNil(t, f.Handle(context.Background(), record(slog.LevelDebug, "before", pc)))
	testza.AssertEqual(t, 0, len(handler.records))

	f.Update(slog.LevelError, map[string]slog.Level{"logging/slog": slog.LevelDebug})

	testza.AssertNil(t, f.Handle(context.Background(), record(slog.LevelDebug, "after", pc)))
	testza.AssertEqual(t, 1, len(handler.records))
	testza.AssertEqual(t, "after", handler.records[0].Message)

	testza.AssertTrue(t, derived.Enabled(context.Background(), slog.LevelDebug))
}

func TestLevelFilter_WithAttrs(t *testing.T) {
	t.Parallel()

	f := newLevelFilter(&recordingHandler{}, slog.LevelInfo, nil)

	wrapped, ok := f.WithAttrs([]slog.Attr{slog.String("stage", "render")}).(*levelFilter)
	testza.AssertTrue(t, ok)
	testza.AssertEqual(t, f.current, wrapped.current)
}

func TestWithLogLevel(t *testing.T) {
	t.Parallel()

	_, ok := LogLevelFromContext(context.Background())
	testza.AssertFalse(t, ok)

	level, ok := LogLevelFromContext(WithLogLevel(context.Background(), slog.LevelWarn))
	testza.AssertTrue(t, ok)
	testza.AssertEqual(t, slog.LevelWarn, level)
}

type recordingHandler struct {
	records []slog.Record
}

func (h *recordingHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	h.records = append(h.records, record)
	return nil
}

func (h *recordingHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *recordingHandler) WithGroup(_ string) slog.Handler {
	return h
}
