package resolver

import (
	"context"
	"fmt"

	"baldr/internal/asset"
	"baldr/internal/mediacache"
	"baldr/internal/metadata"
	"baldr/internal/playback"
)

// WrappedSample is a resolved sample with an optional custom title.
type WrappedSample struct {
	spec   metadata.WrappedSpec
	sample *playback.Sample
}

func (w WrappedSample) Sample() *playback.Sample { return w.sample }
func (w WrappedSample) Asset() *asset.Asset      { return w.sample.Asset() }
func (w WrappedSample) URI() string              { return w.spec.URI }

// TitleSafe returns the custom title, else the sample's safe title.
func (w WrappedSample) TitleSafe() string {
	if w.spec.CustomTitle != "" {
		return w.spec.CustomTitle
	}
	return w.sample.TitleSafe()
}

// WrappedSampleList is an ordered list of wrapped samples.
type WrappedSampleList struct {
	items    []WrappedSample
	registry *mediacache.Registry
}

// NewWrappedSampleList looks up every spec in registry. All samples must be
// resolved already.
func NewWrappedSampleList(registry *mediacache.Registry, specs metadata.WrappedSpecList) (*WrappedSampleList, error) {
	list := &WrappedSampleList{registry: registry, items: make([]WrappedSample, 0, len(specs))}
	for _, spec := range specs {
		sample, ok := registry.Sample(spec.URI)
		if !ok {
			return nil, fmt.Errorf("sample %s could not be loaded: %w", spec.URI, ErrSampleNotFound)
		}
		list.items = append(list.items, WrappedSample{spec: spec, sample: sample})
	}
	return list, nil
}

// ResolveWrapped resolves every sample of specs and wraps them.
func (r *Resolver) ResolveWrapped(ctx context.Context, specs metadata.WrappedSpecList) (*WrappedSampleList, error) {
	if _, err := r.Resolve(ctx, specs.URIs()...); err != nil {
		return nil, err
	}
	return NewWrappedSampleList(r.registry, specs)
}

func (l *WrappedSampleList) Items() []WrappedSample {
	out := make([]WrappedSample, len(l.items))
	copy(out, l.items)
	return out
}

func (l *WrappedSampleList) Len() int { return len(l.items) }

// SamplesFromFirst returns all samples of the only listed asset when the
// list holds exactly one entry whose asset has more than one sample.
func (l *WrappedSampleList) SamplesFromFirst() ([]*playback.Sample, bool) {
	if len(l.items) != 1 {
		return nil, false
	}
	samples := l.registry.SamplesOf(l.items[0].Asset())
	if len(samples) <= 1 {
		return nil, false
	}
	return samples, true
}
