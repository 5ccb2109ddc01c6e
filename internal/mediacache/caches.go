package mediacache

import (
	"fmt"
	"log/slog"

	"baldr/internal/asset"
	"baldr/internal/keyedcache"
	"baldr/internal/logging"
	"baldr/internal/mediauri"
	"baldr/internal/playback"
)

// AssetCache stores resolved assets by ref address and registers their
// identity pair on insert.
type AssetCache struct {
	*keyedcache.Cache[*asset.Asset]
	translator *Translator
	logger     *slog.Logger
}

// NewAssetCache returns an empty cache registering pairs in translator.
func NewAssetCache(translator *Translator, logger *slog.Logger) *AssetCache {
	return &AssetCache{
		Cache:      keyedcache.New[*asset.Asset](),
		translator: translator,
		logger:     logger,
	}
}

// Add registers the identity pair of a and, only if that succeeds, stores a
// under ref. An occupied ref slot leaves the translator untouched.
func (c *AssetCache) Add(ref string, a *asset.Asset) bool {
	if _, exists := c.Cache.Get(ref); exists {
		logging.WarnWithContext(c.logger, "asset ref already cached", "asset_duplicate",
			logging.String(logging.FieldAsset, ref),
			logging.String("uuid", a.UUID()),
			logging.String(logging.FieldErrorHint, "check for two declarations sharing one ref"),
			logging.String(logging.FieldImpact, "the later asset is ignored"),
		)
		return false
	}
	if !c.translator.AddPair(a.Ref(), a.UUID()) {
		logging.WarnWithContext(c.logger, "asset identity already registered", "asset_duplicate",
			logging.String(logging.FieldAsset, a.Ref()),
			logging.String("uuid", a.UUID()),
			logging.String(logging.FieldErrorHint, "check for two declarations sharing one uuid"),
			logging.String(logging.FieldImpact, "the later asset is ignored"),
		)
		return false
	}
	if !c.Cache.Add(ref, a) {
		return false
	}
	c.logger.Debug("asset cached", logging.String(logging.FieldAsset, ref), logging.String("kind", string(a.Kind())))
	return true
}

// Get looks up an asset by uuid or ref address. Fragments are ignored.
func (c *AssetCache) Get(uri string) (*asset.Asset, bool) {
	ref, ok := c.translator.AssetRef(uri)
	if !ok {
		return nil, false
	}
	return c.Cache.Get(ref)
}

// SampleCache stores playable samples by `ref:asset#sample`.
type SampleCache struct {
	*keyedcache.Cache[*playback.Sample]
	translator *Translator
}

// NewSampleCache returns an empty cache resolving lookups through translator.
func NewSampleCache(translator *Translator) *SampleCache {
	return &SampleCache{Cache: keyedcache.New[*playback.Sample](), translator: translator}
}

// Get looks up a sample by uuid or ref address. Without fragment the
// complete sample is returned.
func (c *SampleCache) Get(uri string) (*playback.Sample, bool) {
	ref, ok := c.translator.SampleRef(uri)
	if !ok {
		return nil, false
	}
	return c.Cache.Get(ref)
}

// SelectionCache lazily derives multi-part selections from fragmented
// addresses.
type SelectionCache struct {
	*keyedcache.Cache[*asset.Selection]
	translator *Translator
	assets     *AssetCache
}

// NewSelectionCache returns an empty cache backed by assets.
func NewSelectionCache(translator *Translator, assets *AssetCache) *SelectionCache {
	return &SelectionCache{Cache: keyedcache.New[*asset.Selection](), translator: translator, assets: assets}
}

// Get returns the selection for uri, building and caching it on first use.
// An address without fragment has no selection and yields nil. A missing
// backing asset fails with ErrNotResolved.
func (c *SelectionCache) Get(uri string) (*asset.Selection, error) {
	if _, _, hasFragment, ok := mediauri.SplitByFragment(uri); !ok || !hasFragment {
		return nil, nil
	}
	ref, ok := c.translator.Resolve(uri, false)
	if !ok {
		return nil, nil
	}
	if selection, ok := c.Cache.Get(ref); ok {
		return selection, nil
	}
	a, ok := c.assets.Get(mediauri.RemoveFragment(ref))
	if !ok {
		return nil, fmt.Errorf("selection %s: %w", uri, ErrNotResolved)
	}
	selection, err := asset.NewSelection(a, ref)
	if err != nil {
		return nil, err
	}
	c.Cache.Add(ref, selection)
	return selection, nil
}
