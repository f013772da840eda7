package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greentic-ai/cardengine/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func inlineInvocation(doc any) *model.Invocation {
	return &model.Invocation{
		CardSource: model.CardSourceInline,
		CardSpec:   model.CardSpec{InlineJSON: doc},
	}
}

func TestResolveInlineObject(t *testing.T) {
	r := NewResolver(Config{})
	card := map[string]any{"type": "AdaptiveCard"}

	doc, err := r.Resolve(inlineInvocation(card))
	require.NoError(t, err)
	assert.Equal(t, card, doc)
}

func TestResolveInlineJSONText(t *testing.T) {
	r := NewResolver(Config{})

	doc, err := r.Resolve(inlineInvocation(`{"type": "AdaptiveCard", "version": "1.6"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "AdaptiveCard", "version": "1.6"}, doc)
}

func TestResolveInlineMissingDefaultsToEmptyObject(t *testing.T) {
	r := NewResolver(Config{})

	doc, err := r.Resolve(inlineInvocation(nil))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, doc)
}

func TestResolveInlineBadText(t *testing.T) {
	r := NewResolver(Config{})

	_, err := r.Resolve(inlineInvocation(`{not json`))
	assert.True(t, IsInvalidJSON(err))
}

func TestResolveAssetFromBase(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "welcome.json", `{"type": "AdaptiveCard", "version": "1.6"}`)
	r := NewResolver(Config{AssetBase: base})

	doc, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceAsset,
		CardSpec:   model.CardSpec{AssetPath: "welcome"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AdaptiveCard", doc.(map[string]any)["type"])
}

func TestResolveAssetNotFound(t *testing.T) {
	r := NewResolver(Config{AssetBase: t.TempDir()})

	_, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceAsset,
		CardSpec:   model.CardSpec{AssetPath: "ghost"},
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var resolveErr *ResolveError
	require.True(t, errors.As(err, &resolveErr))
	assert.Equal(t, "ghost", resolveErr.Name)
}

func TestResolveAssetInvalidJSON(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "broken.json", `{`)
	r := NewResolver(Config{AssetBase: base})

	_, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceAsset,
		CardSpec:   model.CardSpec{AssetPath: "broken"},
	})
	assert.True(t, IsInvalidJSON(err))
}

func TestResolveAssetEscapingName(t *testing.T) {
	r := NewResolver(Config{AssetBase: t.TempDir()})

	_, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceAsset,
		CardSpec:   model.CardSpec{AssetPath: "../../etc/passwd"},
	})
	assert.True(t, IsNotFound(err))
}

func TestResolveCatalogViaInvocationRegistry(t *testing.T) {
	dir := t.TempDir()
	cardPath := writeFile(t, dir, "onboarding.json", `{"type": "AdaptiveCard", "version": "1.6"}`)
	r := NewResolver(Config{AssetBase: t.TempDir()})

	doc, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceCatalog,
		CardSpec: model.CardSpec{
			CatalogName:   "onboarding",
			AssetRegistry: map[string]string{"onboarding": cardPath},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "AdaptiveCard", doc.(map[string]any)["type"])
}

func TestResolveRegistryPathMissing(t *testing.T) {
	r := NewResolver(Config{AssetBase: t.TempDir()})

	_, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceCatalog,
		CardSpec: model.CardSpec{
			CatalogName:   "onboarding",
			AssetRegistry: map[string]string{"onboarding": "does/not/exist.json"},
		},
	})
	assert.True(t, IsNotFound(err))
}

func TestResolveCatalogFromMappingFile(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.json", `{"greeting": {"type": "AdaptiveCard", "version": "1.6"}}`)
	r := NewResolver(Config{AssetBase: t.TempDir(), CatalogFile: catalog})

	doc, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceCatalog,
		CardSpec:   model.CardSpec{CatalogName: "greeting"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AdaptiveCard", doc.(map[string]any)["type"])
}

func TestResolveCatalogMissingName(t *testing.T) {
	r := NewResolver(Config{})

	_, err := r.Resolve(&model.Invocation{CardSource: model.CardSourceCatalog})
	assert.True(t, IsNotFound(err))
}

type staticFetcher map[string]string

func (f staticFetcher) Fetch(name string) ([]byte, bool, error) {
	raw, ok := f[name]
	return []byte(raw), ok, nil
}

func TestResolveViaFetcher(t *testing.T) {
	r := NewResolver(Config{Sandbox: true}).WithFetcher(staticFetcher{
		"hosted": `{"type": "AdaptiveCard", "version": "1.6"}`,
	})

	doc, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceAsset,
		CardSpec:   model.CardSpec{AssetPath: "hosted"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AdaptiveCard", doc.(map[string]any)["type"])
}

func TestResolveAssetConsultsCatalogFile(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.json", `{"greeting": {"type": "AdaptiveCard", "version": "1.6"}}`)
	r := NewResolver(Config{AssetBase: t.TempDir(), CatalogFile: catalog})

	doc, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceAsset,
		CardSpec:   model.CardSpec{AssetPath: "greeting"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AdaptiveCard", doc.(map[string]any)["type"])
}

func TestResolveRegistryFileBeforeCatalogFile(t *testing.T) {
	dir := t.TempDir()
	registry := writeFile(t, dir, "registry.json", `{"greeting": {"from": "registry"}}`)
	catalog := writeFile(t, dir, "catalog.json", `{"greeting": {"from": "catalog"}}`)
	r := NewResolver(Config{AssetBase: t.TempDir(), RegistryFile: registry, CatalogFile: catalog})

	doc, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceCatalog,
		CardSpec:   model.CardSpec{CatalogName: "greeting"},
	})
	require.NoError(t, err)
	assert.Equal(t, "registry", doc.(map[string]any)["from"])
}

func TestFetcherConsultedAfterFilesystem(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "welcome.json", `{"from": "disk"}`)
	r := NewResolver(Config{AssetBase: base}).WithFetcher(staticFetcher{
		"welcome": `{"from": "fetcher"}`,
	})

	doc, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceAsset,
		CardSpec:   model.CardSpec{AssetPath: "welcome"},
	})
	require.NoError(t, err)
	assert.Equal(t, "disk", doc.(map[string]any)["from"])
}

func TestFetcherServesNamesAbsentFromDisk(t *testing.T) {
	r := NewResolver(Config{AssetBase: t.TempDir()}).WithFetcher(staticFetcher{
		"hosted": `{"type": "AdaptiveCard", "version": "1.6"}`,
	})

	doc, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceAsset,
		CardSpec:   model.CardSpec{AssetPath: "hosted"},
	})
	require.NoError(t, err)
	assert.Equal(t, "AdaptiveCard", doc.(map[string]any)["type"])
}

func TestSandboxBlocksFilesystem(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "welcome.json", `{"type": "AdaptiveCard"}`)
	r := NewResolver(Config{AssetBase: base, Sandbox: true})

	_, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceAsset,
		CardSpec:   model.CardSpec{AssetPath: "welcome"},
	})
	assert.True(t, IsNotFound(err))
}

func TestSandboxBlocksRegistryPaths(t *testing.T) {
	dir := t.TempDir()
	cardPath := writeFile(t, dir, "onboarding.json", `{"type": "AdaptiveCard"}`)
	r := NewResolver(Config{Sandbox: true})

	_, err := r.Resolve(&model.Invocation{
		CardSource: model.CardSourceCatalog,
		CardSpec: model.CardSpec{
			CatalogName:   "onboarding",
			AssetRegistry: map[string]string{"onboarding": cardPath},
		},
	})
	assert.True(t, IsNotFound(err))
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("ADAPTIVE_CARD_ASSET_BASE", "/tmp/cards")
	t.Setenv("ADAPTIVE_CARD_SANDBOX", "true")

	r := NewFromEnv()
	assert.Equal(t, "/tmp/cards", r.cfg.AssetBase)
	assert.True(t, r.cfg.Sandbox)
}
