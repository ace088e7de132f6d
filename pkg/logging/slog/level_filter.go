package slog

import (
	"cmp"
	"context"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// packageRoot lets level overrides name tailcfg packages by their short path,
// e.g. "tailwind" or "plugin/daisyui".
const packageRoot = "github.com/Vilsol/tailcfg/pkg/"

var _ slog.Handler = (*levelFilter)(nil)

// wrapperPackages log on behalf of their caller, so records created inside
// them are attributed to the first frame above them.
var wrapperPackages = []string{"github.com/Vilsol/slox", "log/slog"}

// viaWrapper marks a cached PC that belongs to a wrapper package.
type viaWrapper struct{}

type prefixLevel struct {
	prefix string
	level  slog.Level
}

// thresholds is an immutable snapshot of the configured levels.
type thresholds struct {
	fallback slog.Level
	prefixes []prefixLevel // longest prefix first
	floor    slog.Level    // lowest level any record could pass with
}

func newThresholds(fallback slog.Level, levels map[string]slog.Level) *thresholds {
	t := &thresholds{fallback: fallback, floor: fallback}

	for name, level := range levels {
		t.prefixes = append(t.prefixes, prefixLevel{prefix: expandPackage(name), level: level})
		t.floor = min(t.floor, level)
	}

	slices.SortFunc(t.prefixes, func(a, b prefixLevel) int {
		if c := cmp.Compare(len(b.prefix), len(a.prefix)); c != 0 {
			return c
		}
		return strings.Compare(a.prefix, b.prefix)
	})

	return t
}

// expandPackage turns a short tailcfg package name into its import path.
// Names containing a dot (a domain) or "main" are kept as they are.
func expandPackage(name string) string {
	if name == "main" || strings.Contains(name, ".") {
		return name
	}
	return packageRoot + name
}

// match returns the level of the longest prefix covering pkgPath.
func (t *thresholds) match(pkgPath string) slog.Level {
	for _, p := range t.prefixes {
		if pkgPath == p.prefix || strings.HasPrefix(pkgPath, p.prefix+"/") {
			return p.level
		}
	}
	return t.fallback
}

// levelFilter drops records below the level configured for the package that logged them.
type levelFilter struct {
	upstream slog.Handler
	current  *atomic.Pointer[thresholds]
	byPC     *sync.Map // uintptr -> slog.Level
}

func newLevelFilter(upstream slog.Handler, fallback slog.Level, levels map[string]slog.Level) *levelFilter {
	f := &levelFilter{
		upstream: upstream,
		current:  &atomic.Pointer[thresholds]{},
		byPC:     &sync.Map{},
	}
	f.current.Store(newThresholds(fallback, levels))
	return f
}

// Update swaps the levels for this filter and every handler derived from it.
func (f *levelFilter) Update(fallback slog.Level, levels map[string]slog.Level) {
	f.current.Store(newThresholds(fallback, levels))
	f.byPC.Clear()
}

// Enabled has no caller information, so it only rules out levels no package could log at.
func (f *levelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	if override, ok := LogLevelFromContext(ctx); ok {
		return level >= override && f.upstream.Enabled(ctx, level)
	}
	return level >= f.current.Load().floor && f.upstream.Enabled(ctx, level)
}

func (f *levelFilter) Handle(ctx context.Context, record slog.Record) error {
	threshold, ok := LogLevelFromContext(ctx)
	if !ok {
		threshold = f.levelAt(record.PC)
	}

	if record.Level < threshold {
		return nil
	}
	return f.upstream.Handle(ctx, record) //nolint:wrapcheck
}

func (f *levelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelFilter{upstream: f.upstream.WithAttrs(attrs), current: f.current, byPC: f.byPC}
}

func (f *levelFilter) WithGroup(name string) slog.Handler {
	return &levelFilter{upstream: f.upstream.WithGroup(name), current: f.current, byPC: f.byPC}
}

func (f *levelFilter) levelAt(pc uintptr) slog.Level {
	if cached, ok := f.byPC.Load(pc); ok {
		if level, ok := cached.(slog.Level); ok {
			return level
		}
		return f.callerLevel()
	}

	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	pkg := packageOf(frame.Function)
	if slices.Contains(wrapperPackages, pkg) {
		f.byPC.Store(pc, viaWrapper{})
		return f.callerLevel()
	}

	level := f.current.Load().match(pkg)
	f.byPC.Store(pc, level)

	return level
}

// callerLevel walks the current stack to the first frame above the wrapper
// packages, e.g. the function that called slox.Info.
func (f *levelFilter) callerLevel() slog.Level {
	var pcs [32]uintptr
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs[:])])

	wrapped := false
	for {
		frame, more := frames.Next()
		pkg := packageOf(frame.Function)
		if slices.Contains(wrapperPackages, pkg) {
			wrapped = true
		} else if wrapped {
			return f.current.Load().match(pkg)
		}
		if !more {
			return f.current.Load().fallback
		}
	}
}

// packageOf returns the import path part of a qualified function name.
// "github.com/Vilsol/tailcfg/pkg/render.(*Module).Init" -> "github.com/Vilsol/tailcfg/pkg/render"
func packageOf(funcName string) string {
	dir, base := "", funcName
	if i := strings.LastIndexByte(funcName, '/'); i >= 0 {
		dir, base = funcName[:i+1], funcName[i+1:]
	}

	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return dir + base
}
