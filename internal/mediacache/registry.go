package mediacache

import (
	"log/slog"
	"strings"

	"baldr/internal/asset"
	"baldr/internal/logging"
	"baldr/internal/playback"
)

// Registry is one media cache context.
type Registry struct {
	Translator *Translator
	Assets     *AssetCache
	Samples    *SampleCache
	Selections *SelectionCache
	Shortcuts  *Shortcuts

	logger *slog.Logger
}

// NewRegistry wires empty caches together.
func NewRegistry(logger *slog.Logger) *Registry {
	logger = logging.NewComponentLogger(logger, "mediacache")
	translator := NewTranslator()
	assets := NewAssetCache(translator, logger)
	return &Registry{
		Translator: translator,
		Assets:     assets,
		Samples:    NewSampleCache(translator),
		Selections: NewSelectionCache(translator, assets),
		Shortcuts:  NewShortcuts(),
		logger:     logger,
	}
}

// AddAsset caches a under its ref address. Newly cached images receive the
// next image shortcut unless they carry one.
func (r *Registry) AddAsset(a *asset.Asset) bool {
	if !r.Assets.Add(a.Ref(), a) {
		return false
	}
	if a.Kind() == asset.KindImage && a.Shortcut() == "" {
		if shortcut, ok := r.Shortcuts.Next(asset.KindImage); ok {
			a.AssignShortcut(shortcut)
		}
	}
	return true
}

// AddSample caches s under its address. Newly cached samples without a
// shortcut receive the next one of their asset's kind.
func (r *Registry) AddSample(s *playback.Sample) bool {
	if !r.Samples.Add(s.Ref(), s) {
		r.logger.Debug("sample already cached", logging.String(logging.FieldSample, s.Ref()))
		return false
	}
	if s.Shortcut() == "" {
		if shortcut, ok := r.Shortcuts.Next(s.Asset().Kind()); ok {
			s.AssignShortcut(shortcut)
		}
	}
	r.logger.Debug("sample cached",
		logging.String(logging.FieldSample, s.Ref()),
		logging.String("shortcut", s.Shortcut()),
	)
	return true
}

// Asset looks up an asset by any address.
func (r *Registry) Asset(uri string) (*asset.Asset, bool) { return r.Assets.Get(uri) }

// Sample looks up a sample by any address.
func (r *Registry) Sample(uri string) (*playback.Sample, bool) { return r.Samples.Get(uri) }

// Selection looks up or derives a multi-part selection.
func (r *Registry) Selection(uri string) (*asset.Selection, error) { return r.Selections.Get(uri) }

// SamplesOf returns the cached samples of a in insertion order.
func (r *Registry) SamplesOf(a *asset.Asset) []*playback.Sample {
	prefix := a.Ref() + "#"
	var out []*playback.Sample
	for s := range r.Samples.Values() {
		if strings.HasPrefix(s.Ref(), prefix) {
			out = append(out, s)
		}
	}
	return out
}

// Reset empties every cache and counter: samples, selections, assets, the
// translator, then the shortcut counters.
func (r *Registry) Reset() {
	r.Samples.Reset()
	r.Selections.Reset()
	r.Assets.Reset()
	r.Translator.Reset()
	r.Shortcuts.Reset()
	r.logger.Debug("media cache reset")
}
