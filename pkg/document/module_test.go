package document_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MarvinJWendt/testza"
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/document"
	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/knadh/koanf/v2"
	"github.com/samber/do/v2"
)

func initStages(t *testing.T, ctx context.Context, settings map[string]any) error {
	t.Helper()

	k := koanf.New(".")
	for key, value := range settings {
		testza.AssertNil(t, k.Set(key, value))
	}
	do.ProvideValue(pipeline.GetInjector(ctx), k)

	if err := config.Bind[document.Settings](document.SettingsPath).Init(ctx); err != nil {
		return err
	}
	return document.NewModule().Init(ctx)
}

func TestModule_ProvidesDocument(t *testing.T) {
	t.Parallel()

	ctx := pipeline.WithInjector(context.Background(), do.New())
	err := initStages(t, ctx, map[string]any{
		"document.path": filepath.Join("testdata", "tailwind.config.yaml"),
	})
	testza.AssertNil(t, err)

	doc := document.Current(ctx)
	testza.AssertEqual(t, []string{"light", "dark", "business"}, doc.Themes())
}

func TestModule_InvalidDocumentAbortsInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	testza.AssertNil(t, os.WriteFile(path, []byte(`{`), 0o600))

	ctx := pipeline.WithInjector(context.Background(), do.New())
	testza.AssertNotNil(t, initStages(t, ctx, map[string]any{"document.path": path}))
}

func TestModule_WatchSwapsValidDocumentsOnly(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile(filepath.Join("testdata", "tailwind.config.json"))
	testza.AssertNil(t, err)

	path := filepath.Join(t.TempDir(), "tailwind.config.json")
	testza.AssertNil(t, os.WriteFile(path, src, 0o600))

	ctx, cancel := context.WithCancel(pipeline.WithInjector(context.Background(), do.New()))
	t.Cleanup(cancel)

	testza.AssertNil(t, initStages(t, ctx, map[string]any{
		"document.path":  path,
		"document.watch": true,
	}))

	changed := make(chan *document.Document, 4)
	do.MustInvoke[*config.Binding[document.Document]](pipeline.GetInjector(ctx)).OnChange(func(doc *document.Document) {
		changed <- doc
	})

	testza.AssertNil(t, os.WriteFile(path, []byte(`{"content": [`), 0o600))
	time.Sleep(300 * time.Millisecond)
	testza.AssertEqual(t, []string{"light", "dark", "business"}, document.Current(ctx).Themes())

	testza.AssertNil(t, os.WriteFile(path, []byte(`{
		"content": ["./templates/*.html"],
		"theme": {"extend": {"fontFamily": {"sans": ["Inter var"]}}},
		"plugins": ["daisyui"],
		"daisyui": {"themes": ["dark"]}
	}`), 0o600))

	select {
	case doc := <-changed:
		testza.AssertEqual(t, []string{"dark"}, doc.Themes())
	case <-time.After(5 * time.Second):
		t.Fatal("document was not reloaded")
	}
}
