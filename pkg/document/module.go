package document

import (
	"context"
	"log/slog"

	"github.com/Vilsol/slox"
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

var _ pipeline.Stage = (*Module)(nil)

// Module loads the document during Init and provides it as *config.Binding[Document].
// Settings come from a config.Bind[Settings] stage placed before it. In watch mode a
// changed file is loaded again and swapped in only when it is valid.
type Module struct {
	binding *config.Binding[Document]
}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) Init(ctx context.Context) error {
	settings := config.Get[Settings](ctx)

	doc, err := Load(settings.Path)
	if err != nil {
		return err
	}

	slox.Info(ctx, "document loaded",
		slog.String("path", doc.Path()),
		slog.Int("content", len(doc.content)),
		slog.Any("plugins", doc.plugins),
		slog.Any("themes", doc.themes),
	)

	m.binding = config.NewBinding(doc)
	pipeline.Provide(ctx, func(_ do.Injector) (*config.Binding[Document], error) {
		return m.binding, nil
	})

	if settings.Watch {
		if err := config.WatchFiles(ctx, []string{settings.Path}, func() error {
			return m.reload(settings.Path)
		}); err != nil {
			return oops.In("document").With("path", settings.Path).Wrapf(err, "failed to watch document")
		}
	}

	return nil
}

func (m *Module) reload(path string) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	m.binding.Set(doc)
	return nil
}

func (m *Module) Shutdown(_ context.Context) error {
	return nil
}

// Current returns the document most recently loaded by the stage.
func Current(ctx context.Context) *Document {
	return do.MustInvoke[*config.Binding[Document]](pipeline.GetInjector(ctx)).Get()
}
