package pipeline

import (
	"context"

	"github.com/samber/do/v2"
)

type injectorKey struct{}

// GetInjector returns the injector stored in ctx. It panics when none is present.
func GetInjector(ctx context.Context) do.Injector { //nolint:ireturn
	injector, ok := ctx.Value(injectorKey{}).(do.Injector)
	if !ok {
		panic("injector not found in context")
	}
	return injector
}

// WithInjector returns a copy of ctx carrying injector.
func WithInjector(ctx context.Context, injector do.Injector) context.Context {
	return context.WithValue(ctx, injectorKey{}, injector)
}

// Provide registers a provider on the injector in ctx.
func Provide[T any](ctx context.Context, provider do.Provider[T]) {
	do.Provide(GetInjector(ctx), provider)
}

// ProvideValue registers an already built value on the injector in ctx.
func ProvideValue[T any](ctx context.Context, value T) {
	do.ProvideValue(GetInjector(ctx), value)
}
