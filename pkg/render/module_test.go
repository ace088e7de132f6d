package render_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MarvinJWendt/testza"
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/Vilsol/tailcfg/pkg/render"
	"github.com/knadh/koanf/v2"
	"github.com/samber/do/v2"
)

func TestModule_RendersAndRerenders(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	input := filepath.Join(root, "input.css")

	k := koanf.New(".")
	testza.AssertNil(t, k.Set("modules.render.files.default.root", root))
	testza.AssertNil(t, k.Set("modules.render.files.default.input", input))

	injector := do.New()
	do.ProvideValue(injector, k)
	docs := config.NewBinding(loadDoc(t, minimalDoc))
	do.ProvideValue(injector, docs)

	ctx := pipeline.WithInjector(context.Background(), injector)
	testza.AssertNil(t, render.NewModule().Init(ctx))

	artifacts := do.MustInvoke[*config.Binding[render.Artifacts]](injector)
	testza.AssertEqual(t, input, artifacts.Get().Input)

	css, err := os.ReadFile(input)
	testza.AssertNil(t, err)
	testza.AssertContains(t, string(css), "themes: light --default, dark --prefersdark, business;")

	docs.Set(loadDoc(t, strings.Replace(minimalDoc, `["light", "dark", "business"]`, `["cupcake"]`, 1)))

	css, err = os.ReadFile(input)
	testza.AssertNil(t, err)
	testza.AssertContains(t, string(css), "themes: cupcake --default;")

	docs.Set(loadDoc(t, strings.Replace(minimalDoc, `"business"]`, `"neon"]`, 1)))

	css, err = os.ReadFile(input)
	testza.AssertNil(t, err)
	testza.AssertContains(t, string(css), "themes: cupcake --default;")
}

func TestModule_RequiresDocument(t *testing.T) {
	t.Parallel()

	ctx := pipeline.WithInjector(context.Background(), do.New())
	testza.AssertNotNil(t, render.NewModule(render.WithInput(filepath.Join(t.TempDir(), "input.css"))).Init(ctx))
}

func TestModule_InvalidSettings(t *testing.T) {
	t.Parallel()

	k := koanf.New(".")
	testza.AssertNil(t, k.Set("modules.render.files.default.format", "v9"))

	injector := do.New()
	do.ProvideValue(injector, k)
	do.ProvideValue(injector, config.NewBinding(loadDoc(t, minimalDoc)))

	ctx := pipeline.WithInjector(context.Background(), injector)
	testza.AssertNotNil(t, render.NewModule().Init(ctx))
}
