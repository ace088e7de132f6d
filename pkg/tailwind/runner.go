package tailwind

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/Vilsol/slox"
	"github.com/samber/oops"
)

const stopTimeout = 2 * time.Second

// RunnerConfig configures one invocation of the binary.
type RunnerConfig struct {
	// InputPath is the CSS entry file.
	InputPath string

	// OutputPath is the generated stylesheet.
	OutputPath string

	// ConfigPath is passed with -c when set.
	ConfigPath string

	// Minify enables --minify.
	Minify bool
}

func (c RunnerConfig) args() []string {
	args := []string{"-i", c.InputPath, "-o", c.OutputPath}
	if c.ConfigPath != "" {
		args = append(args, "-c", c.ConfigPath)
	}
	if c.Minify {
		args = append(args, "--minify")
	}
	return args
}

// Runner runs the binary in a project directory.
type Runner struct {
	binary     *Binary
	projectDir string

	// Stdout and Stderr receive the binary's output.
	Stdout io.Writer
	Stderr io.Writer

	mu      sync.Mutex
	cmd     *exec.Cmd
	running bool
	done    chan struct{}
}

// NewRunner creates a runner for binary working in projectDir.
func NewRunner(binary *Binary, projectDir string) *Runner {
	return &Runner{
		binary:     binary,
		projectDir: projectDir,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// Build runs one build and waits for it.
func (r *Runner) Build(ctx context.Context, cfg RunnerConfig) error {
	path, err := r.binary.EnsureInstalled(ctx)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, path, cfg.args()...)
	cmd.Dir = r.projectDir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	slox.Debug(ctx, "running tailwind", slog.String("path", path), slog.Any("args", cmd.Args[1:]))

	if err := cmd.Run(); err != nil {
		return oops.
			In("tailwind").
			Code("build_failed").
			With("input", cfg.InputPath).
			With("output", cfg.OutputPath).
			Wrapf(err, "tailwind build failed")
	}

	return nil
}

// StartWatch starts the binary in watch mode and returns once it is running.
// Calling it while a watcher runs is a no-op.
func (r *Runner) StartWatch(ctx context.Context, cfg RunnerConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	path, err := r.binary.EnsureInstalled(ctx)
	if err != nil {
		return err
	}

	// --watch=always keeps the binary alive when stdin closes.
	args := append(cfg.args(), "--watch=always")

	// Not bound to ctx; Stop owns the process lifetime.
	cmd := exec.Command(path, args...) //nolint:noctx
	cmd.Dir = r.projectDir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Start(); err != nil {
		return oops.In("tailwind").With("path", path).Wrapf(err, "failed to start tailwind")
	}

	r.cmd = cmd
	r.running = true
	r.done = make(chan struct{})

	done := r.done
	go func() {
		err := cmd.Wait()
		if err != nil {
			slox.Debug(ctx, "tailwind watcher exited", slog.Any("error", err))
		}
		close(done)

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.cmd == cmd {
			r.running = false
			r.cmd = nil
		}
	}()

	slox.Info(ctx, "tailwind watching", slog.String("input", cfg.InputPath), slog.String("output", cfg.OutputPath))

	return nil
}

// Done returns a channel closed when the most recent watcher exits, or nil before the first start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Stop kills the watcher and waits briefly for it to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	cmd := r.cmd
	done := r.done
	running := r.running
	r.mu.Unlock()

	if !running || cmd == nil || cmd.Process == nil {
		return
	}

	_ = cmd.Process.Kill()
	if done != nil {
		select {
		case <-done:
		case <-time.After(stopTimeout):
		}
	}

	r.mu.Lock()
	if r.cmd == cmd {
		r.running = false
		r.cmd = nil
	}
	r.mu.Unlock()
}

// IsRunning reports whether a watcher is running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
