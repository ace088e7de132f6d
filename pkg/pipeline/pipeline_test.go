package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/MarvinJWendt/testza"
	"github.com/Vilsol/slox"
	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/samber/do/v2"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type stage struct {
	name     string
	rec      *recorder
	initErr  error
	startErr error
	block    bool
}

func (s *stage) Name() string { return s.name }

func (s *stage) Init(ctx context.Context) error {
	s.rec.add("init " + s.name)
	do.ProvideNamedValue(pipeline.GetInjector(ctx), s.name, s)
	return s.initErr
}

func (s *stage) Start(ctx context.Context) error {
	s.rec.add("start " + s.name)
	if s.block {
		<-ctx.Done()
	}
	return s.startErr
}

func (s *stage) Shutdown(_ context.Context) error {
	s.rec.add("shutdown " + s.name)
	return nil
}

type initOnly struct {
	rec *recorder
}

func (s *initOnly) Init(_ context.Context) error {
	s.rec.add("init bare")
	return nil
}

func (s *initOnly) Shutdown(_ context.Context) error {
	s.rec.add("shutdown bare")
	return nil
}

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	err := pipeline.New(
		&stage{name: "a", rec: rec},
		&initOnly{rec: rec},
		&stage{name: "b", rec: rec},
	).Run()
	testza.AssertNil(t, err)

	events := rec.list()
	testza.AssertEqual(t, []string{"init a", "init bare", "init b"}, events[:3])
	testza.AssertContains(t, events, "start a")
	testza.AssertContains(t, events, "start b")
	testza.AssertContains(t, events, "shutdown bare")
	testza.AssertLen(t, events, 8)
}

func TestPipeline_InitErrorStopsEarly(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	failure := errors.New("bad document")

	err := pipeline.New(
		&stage{name: "a", rec: rec, initErr: failure},
		&stage{name: "b", rec: rec},
	).Run()

	testza.AssertTrue(t, errors.Is(err, failure))
	testza.AssertContains(t, err.Error(), "(a)")
	testza.AssertEqual(t, []string{"init a"}, rec.list())
}

func TestPipeline_StartErrorCancelsOthers(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	failure := errors.New("build failed")

	done := make(chan error, 1)
	go func() {
		done <- pipeline.New(
			&stage{name: "watch", rec: rec, block: true},
			&stage{name: "build", rec: rec, startErr: failure},
		).Run()
	}()

	select {
	case err := <-done:
		testza.AssertTrue(t, errors.Is(err, failure))
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop")
	}

	testza.AssertContains(t, rec.list(), "shutdown watch")
}

func TestPipeline_ContextCancelStopsBlockingStages(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- pipeline.New(&stage{name: "watch", rec: rec, block: true}).RunContext(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		testza.AssertNil(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop")
	}
}

func TestPipeline_WithInjector(t *testing.T) {
	t.Parallel()

	injector := do.New()
	do.ProvideValue(injector, "shared")

	rec := &recorder{}
	var seen string
	s := &stage{name: "a", rec: rec}

	err := pipeline.New(s, &initHook{fn: func(ctx context.Context) {
		seen = do.MustInvoke[string](pipeline.GetInjector(ctx))
	}}).WithInjector(injector).Run()
	testza.AssertNil(t, err)

	testza.AssertEqual(t, "shared", seen)
	testza.AssertEqual(t, s, do.MustInvokeNamed[*stage](injector, "a"))
}

type initHook struct {
	fn func(ctx context.Context)
}

func (h *initHook) Init(ctx context.Context) error {
	h.fn(ctx)
	return nil
}

func (h *initHook) Shutdown(_ context.Context) error {
	return nil
}

func TestPipeline_ReturnsErrorsWithoutLogging(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx := slox.Into(context.Background(), logger)

	failure := errors.New("document missing")

	rec := &recorder{}
	err := pipeline.New(&stage{name: "document", rec: rec, initErr: failure}).RunContext(ctx)
	testza.AssertTrue(t, errors.Is(err, failure))

	err = pipeline.New(&stage{name: "tailwind", rec: rec, startErr: failure}).RunContext(ctx)
	testza.AssertTrue(t, errors.Is(err, failure))

	testza.AssertEqual(t, "", out.String())
}

func TestGetInjector_PanicsWithoutInjector(t *testing.T) {
	t.Parallel()

	testza.AssertPanics(t, func() {
		pipeline.GetInjector(context.Background())
	})
}
