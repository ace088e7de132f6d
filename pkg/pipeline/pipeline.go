package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vilsol/slox"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	"github.com/sourcegraph/conc/pool"
)

const DefaultShutdownTimeout = 10 * time.Second

// Pipeline initializes stages in order, starts them, and shuts them down again.
type Pipeline struct {
	stages   []Stage
	injector do.Injector
}

// New creates a pipeline with the given stages (order matters for init).
func New(stages ...Stage) *Pipeline {
	return &Pipeline{
		stages: stages,
	}
}

// WithInjector makes the pipeline use an existing injector instead of a fresh one.
// Values provided on it before Run are visible to every stage.
func (p *Pipeline) WithInjector(injector do.Injector) *Pipeline {
	p.injector = injector
	return p
}

// Run runs the pipeline with a background context.
func (p *Pipeline) Run() error {
	return p.RunContext(context.Background())
}

// RunContext initializes and starts every stage, then shuts them down once all
// start functions returned or a termination signal was received.
// Init and start failures are returned, not logged.
func (p *Pipeline) RunContext(ctx context.Context) error {
	injector := p.injector
	if injector == nil {
		injector = do.New()
	}
	ctx = WithInjector(ctx, injector)

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, stage := range p.stages {
		if err := stage.Init(signalCtx); err != nil {
			return oops.
				In("pipeline").
				With("stage", stageName(stage)).
				Wrapf(err, "failed initializing stage %s", stageName(stage))
		}
	}

	logger, err := do.Invoke[*slog.Logger](injector)
	if err != nil || logger == nil {
		logger = slox.From(ctx)
		do.Provide(injector, func(_ do.Injector) (*slog.Logger, error) {
			return logger, nil
		})
	}

	ctx = slox.Into(ctx, logger)
	signalCtx = slox.Into(signalCtx, logger)

	startPool := pool.New().
		WithErrors().
		WithContext(signalCtx).
		WithCancelOnError()

	for _, stage := range p.stages {
		startPool.Go(func(ctx context.Context) error {
			name := stageName(stage)

			switch s := stage.(type) {
			case AsyncStage:
				if err := s.StartAsync(ctx); err != nil {
					return oops.
						In("pipeline").
						With("stage", name).
						Wrapf(err, "failed starting stage %s", name)
				}
			case SyncStage:
				if err := s.Start(ctx); err != nil {
					return oops.
						In("pipeline").
						With("stage", name).
						Wrapf(err, "failed starting stage %s", name)
				}
			default:
				slox.Debug(ctx, "stage has no start function", slog.String("stage", name))
			}

			return nil
		})
	}

	startDone := make(chan error, 1)
	go func() {
		startDone <- startPool.Wait()
	}()

	var runErr error
	select {
	case <-signalCtx.Done():
		slox.Info(ctx, "shutdown signal received")
		runErr = <-startDone
	case runErr = <-startDone:
	}

	stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
	defer cancel()

	shutdownPool := pool.New().
		WithErrors().
		WithContext(shutdownCtx)

	for _, stage := range p.stages {
		shutdownPool.Go(func(ctx context.Context) error {
			if err := stage.Shutdown(ctx); err != nil {
				return oops.
					In("pipeline").
					With("stage", stageName(stage)).
					Wrapf(err, "failed shutting down stage %s", stageName(stage))
			}
			return nil
		})
	}

	// Errors are returned to the caller, which reports them. A shutdown error
	// that loses to runErr would vanish, so it is logged instead.
	if err := shutdownPool.Wait(); err != nil {
		if runErr == nil {
			return err //nolint:wrapcheck
		}
		slox.Error(ctx, "failed shutting down stages", slog.Any("error", err))
	}

	return runErr
}

func stageName(stage Stage) string {
	if named, ok := stage.(NamedStage); ok {
		return fmt.Sprintf("%T(%s)", stage, named.Name())
	}
	return fmt.Sprintf("%T", stage)
}
