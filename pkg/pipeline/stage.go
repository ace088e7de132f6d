package pipeline

import (
	"context"

	"github.com/knadh/koanf/v2"
)

// Stage is the base interface for every step of a build pipeline.
type Stage interface {
	Init(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// SyncStage extends Stage with a blocking Start, e.g. a one-shot build or a watcher.
type SyncStage interface {
	Stage
	Start(ctx context.Context) error
}

// AsyncStage extends Stage with a non-blocking StartAsync for background work.
type AsyncStage interface {
	Stage
	StartAsync(ctx context.Context) error
}

// Configurable is implemented by stages that read their settings from koanf.
type Configurable interface {
	// ConfigPath returns the koanf path of the stage settings.
	// Example: "modules.tailwind.cli.default"
	ConfigPath() string

	// LoadConfig loads settings from koanf into the stage.
	LoadConfig(k *koanf.Koanf) error
}

// NamedStage is implemented by stages that support instance naming.
type NamedStage interface {
	Name() string
}
