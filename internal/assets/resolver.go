package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeshaw/envdecode"

	"github.com/greentic-ai/cardengine/internal/model"
)

// Config for the asset resolver. Defaults can be loaded via envdecode.
type Config struct {
	// AssetBase is the directory searched for <name>.json documents.
	// ENV: ADAPTIVE_CARD_ASSET_BASE
	AssetBase string `env:"ADAPTIVE_CARD_ASSET_BASE,default=assets"`

	// RegistryFile points at a JSON object mapping asset names to card
	// documents. ENV: ADAPTIVE_CARD_ASSET_REGISTRY
	RegistryFile string `env:"ADAPTIVE_CARD_ASSET_REGISTRY"`

	// CatalogFile points at a JSON object mapping catalog names to card
	// documents. ENV: ADAPTIVE_CARD_CATALOG_FILE
	CatalogFile string `env:"ADAPTIVE_CARD_CATALOG_FILE"`

	// Sandbox disables every filesystem layer. Only inline documents and an
	// installed Fetcher can resolve.
	// ENV: ADAPTIVE_CARD_SANDBOX
	Sandbox bool `env:"ADAPTIVE_CARD_SANDBOX,default=false"`
}

// Fetcher is a host-provided lookup. It is the last resolution layer,
// consulted only when no registry, mapping file, or on-disk document
// matches the name.
type Fetcher interface {
	// Fetch returns the raw JSON for name. ok is false when the host has no
	// document under that name; err is reserved for transport failures.
	Fetch(name string) (raw []byte, ok bool, err error)
}

// Resolver turns a card source reference into a parsed card document.
type Resolver struct {
	cfg     Config
	fetcher Fetcher
}

// NewResolver builds a resolver with an explicit configuration.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// NewFromEnv builds a resolver configured from the environment.
func NewFromEnv() *Resolver {
	var cfg Config
	// Defaults are provided via struct tags; decode errors only occur on
	// malformed tag values, which the defaults rule out.
	_ = envdecode.Decode(&cfg)
	return NewResolver(cfg)
}

// WithFetcher installs a host lookup and returns the resolver.
func (r *Resolver) WithFetcher(f Fetcher) *Resolver {
	r.fetcher = f
	return r
}

// Resolve returns the card document named by the invocation's card source.
func (r *Resolver) Resolve(inv *model.Invocation) (any, error) {
	switch inv.CardSource {
	case model.CardSourceInline:
		return resolveInline(inv.CardSpec.InlineJSON)
	case model.CardSourceAsset:
		return r.resolveNamed(inv, inv.CardSpec.AssetPath)
	case model.CardSourceCatalog:
		return r.resolveNamed(inv, inv.CardSpec.CatalogName)
	default:
		return nil, notFound("", fmt.Sprintf("unknown card source %q", inv.CardSource))
	}
}

// resolveInline accepts the document as-is. A missing document defaults to
// an empty object; a string value is treated as JSON text so hosts can pass
// pre-serialized cards.
func resolveInline(doc any) (any, error) {
	if doc == nil {
		return map[string]any{}, nil
	}
	if text, ok := doc.(string); ok {
		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return nil, invalidJSON("", err)
		}
		return parsed, nil
	}
	return doc, nil
}

// resolveNamed walks the layers for asset and catalog references in order:
// invocation registry, the registry and catalog mapping files, the asset
// base directory, and last the host fetcher. First hit wins.
func (r *Resolver) resolveNamed(inv *model.Invocation, name string) (any, error) {
	if strings.TrimSpace(name) == "" {
		return nil, notFound("", "card source names no asset")
	}

	// Registry entries override every other layer. The value is a path to
	// the card document, so an entry still respects sandbox mode.
	if path, ok := inv.CardSpec.AssetRegistry[name]; ok {
		if r.cfg.Sandbox {
			return nil, notFound(name, "registry points at the filesystem but filesystem lookup is disabled")
		}
		return readDocument(path, name)
	}

	if !r.cfg.Sandbox {
		for _, mappingFile := range []string{r.cfg.RegistryFile, r.cfg.CatalogFile} {
			if mappingFile == "" {
				continue
			}
			doc, found, err := lookupMappingFile(mappingFile, name)
			if err != nil {
				return nil, err
			}
			if found {
				return doc, nil
			}
		}

		doc, err := r.readFromBase(name)
		if err == nil {
			return doc, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}

	if r.fetcher != nil {
		raw, ok, err := r.fetcher.Fetch(name)
		if err != nil {
			return nil, ioError(name, err)
		}
		if ok {
			var parsed any
			if err := json.Unmarshal(raw, &parsed); err != nil {
				return nil, invalidJSON(name, err)
			}
			return parsed, nil
		}
	}

	if r.cfg.Sandbox {
		return nil, notFound(name, "card not registered and filesystem lookup is disabled")
	}
	return nil, notFound(name, "no registered or on-disk card under this name")
}

// lookupMappingFile loads a JSON object file and returns the entry for name.
func lookupMappingFile(path, name string) (any, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, ioError(name, err)
	}
	var mapping map[string]any
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, false, invalidJSON(name, err)
	}
	doc, ok := mapping[name]
	return doc, ok, nil
}

// readFromBase loads <base>/<name>.json. Names are confined to the base
// directory; a name that escapes it resolves to nothing.
func (r *Resolver) readFromBase(name string) (any, error) {
	rel := name
	if !strings.HasSuffix(rel, ".json") {
		rel += ".json"
	}
	path := filepath.Join(r.cfg.AssetBase, filepath.FromSlash(rel))
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(r.cfg.AssetBase)+string(filepath.Separator)) {
		return nil, notFound(name, "asset name escapes the asset base directory")
	}

	return readDocument(path, name)
}

// readDocument loads and parses one JSON file.
func readDocument(path, name string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name, "no registered or on-disk card under this name")
		}
		return nil, ioError(name, err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, invalidJSON(name, err)
	}
	return parsed, nil
}
