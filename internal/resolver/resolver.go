package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"baldr/internal/asset"
	"baldr/internal/logging"
	"baldr/internal/mediacache"
	"baldr/internal/mediaindex"
	"baldr/internal/mediauri"
	"baldr/internal/playback"
	"baldr/internal/schedule"
)

const defaultConcurrency = 4

// Resolver fetches declarations and fills a Registry.
type Resolver struct {
	source    mediaindex.Source
	registry  *mediacache.Registry
	sched     schedule.Scheduler
	handles   HandleFactory
	httpURL   func(path string) string
	playDelay time.Duration
	limit     int
	logger    *slog.Logger

	mu     sync.Mutex
	decls  map[string]asset.Declaration
	flight singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHandleFactory sets how media handles are opened.
func WithHandleFactory(f HandleFactory) Option {
	return func(r *Resolver) {
		if f != nil {
			r.handles = f
		}
	}
}

// WithHTTPURL sets how a media-relative path becomes a served address.
func WithHTTPURL(f func(path string) string) Option {
	return func(r *Resolver) {
		if f != nil {
			r.httpURL = f
		}
	}
}

// WithPlayDelay passes the start debounce to every sample.
func WithPlayDelay(d time.Duration) Option {
	return func(r *Resolver) { r.playDelay = d }
}

// WithConcurrency bounds parallel declaration fetches.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.limit = n
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// New returns a resolver reading from source and registering into registry.
// Samples schedule their fades on sched.
func New(source mediaindex.Source, registry *mediacache.Registry, sched schedule.Scheduler, opts ...Option) *Resolver {
	r := &Resolver{
		source:    source,
		registry:  registry,
		sched:     sched,
		handles:   FixedHandles(sched, 0),
		httpURL:   func(path string) string { return path },
		playDelay: playback.DefaultPlayDelay,
		limit:     defaultConcurrency,
		decls:     make(map[string]asset.Declaration),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "resolver")
	return r
}

// Registry returns the registry this resolver fills.
func (r *Resolver) Registry() *mediacache.Registry { return r.registry }

// Resolve resolves every address in uris plus everything they link to and
// returns the assets in resolution order. Fragments are ignored.
func (r *Resolver) Resolve(ctx context.Context, uris ...string) ([]*asset.Asset, error) {
	pending, err := assetAddresses(uris)
	if err != nil {
		return nil, err
	}
	logger := logging.WithContext(ctx, r.logger)

	seen := make(map[string]struct{})
	included := make(map[*asset.Asset]struct{})
	var out []*asset.Asset
	for len(pending) > 0 {
		for _, uri := range pending {
			seen[uri] = struct{}{}
		}
		assets, err := r.resolveBatch(ctx, pending)
		if err != nil {
			return nil, err
		}
		var next []string
		for _, a := range assets {
			if _, ok := included[a]; ok {
				continue
			}
			included[a] = struct{}{}
			out = append(out, a)
			for _, link := range a.Links() {
				link = mediauri.RemoveFragment(link)
				if _, ok := seen[link]; ok {
					continue
				}
				seen[link] = struct{}{}
				next = append(next, link)
			}
		}
		if len(next) > 0 {
			logger.Debug("resolving linked media", logging.Int("count", len(next)))
		}
		pending = next
	}
	return out, nil
}

// resolveBatch fetches the uncached addresses in parallel, then builds and
// registers the assets in order on the calling goroutine.
func (r *Resolver) resolveBatch(ctx context.Context, uris []string) ([]*asset.Asset, error) {
	cached := make([]*asset.Asset, len(uris))
	decls := make([]asset.Declaration, len(uris))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, uri := range uris {
		if a, ok := r.registry.Asset(uri); ok {
			cached[i] = a
			continue
		}
		g.Go(func() error {
			decl, err := r.fetch(gctx, uri)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", uri, err)
			}
			decls[i] = decl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*asset.Asset, len(uris))
	for i := range uris {
		if cached[i] != nil {
			out[i] = cached[i]
			continue
		}
		a, err := r.register(ctx, decls[i])
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func (r *Resolver) fetch(ctx context.Context, uri string) (asset.Declaration, error) {
	r.mu.Lock()
	decl, ok := r.decls[uri]
	r.mu.Unlock()
	if ok {
		return decl, nil
	}
	v, err, _ := r.flight.Do(uri, func() (any, error) {
		decl, err := r.source.Query(ctx, uri)
		if err != nil {
			return asset.Declaration{}, err
		}
		r.mu.Lock()
		r.decls[uri] = decl
		r.mu.Unlock()
		return decl, nil
	})
	if err != nil {
		return asset.Declaration{}, err
	}
	return v.(asset.Declaration), nil
}

func (r *Resolver) register(ctx context.Context, decl asset.Declaration) (*asset.Asset, error) {
	if a, ok := r.registry.Asset(mediauri.SchemeRef + ":" + mediauri.RemoveScheme(decl.Ref)); ok {
		return a, nil
	}
	a, err := asset.New(decl, r.httpURL(decl.Path))
	if err != nil {
		return nil, err
	}
	if !r.registry.AddAsset(a) {
		return nil, fmt.Errorf("%s (%s): %w", a.Ref(), a.UUID(), ErrIdentityConflict)
	}
	samples := 0
	if a.IsPlayable() {
		handle, err := r.handles(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("open media %s: %w", a.Ref(), err)
		}
		for _, spec := range a.Samples() {
			sample := playback.New(a, spec, handle, r.sched,
				playback.WithPlayDelay(r.playDelay),
				playback.WithLogger(r.logger),
			)
			if r.registry.AddSample(sample) {
				samples++
			}
		}
	}
	logging.WithContext(ctx, r.logger).Info("asset resolved",
		logging.String(logging.FieldAsset, a.Ref()),
		logging.String("kind", string(a.Kind())),
		logging.Int("samples", samples),
		logging.Int("parts", a.MultiPartCount()),
	)
	return a, nil
}

// ResolveSample resolves the asset of uri and returns the addressed sample.
// Without fragment the complete sample is returned.
func (r *Resolver) ResolveSample(ctx context.Context, uri string) (*playback.Sample, error) {
	if _, err := r.Resolve(ctx, uri); err != nil {
		return nil, err
	}
	sample, ok := r.registry.Sample(uri)
	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrSampleNotFound)
	}
	return sample, nil
}

// ResolveSelection resolves the asset of uri and returns its multi-part
// selection. Addresses without fragment have none and yield nil.
func (r *Resolver) ResolveSelection(ctx context.Context, uri string) (*asset.Selection, error) {
	if _, err := r.Resolve(ctx, uri); err != nil {
		return nil, err
	}
	return r.registry.Selection(uri)
}

// Assets returns every resolved asset in registration order.
func (r *Resolver) Assets() []*asset.Asset {
	return r.registry.Assets.All()
}

// Reset empties the registry and the declaration cache.
func (r *Resolver) Reset() {
	r.registry.Reset()
	r.mu.Lock()
	clear(r.decls)
	r.mu.Unlock()
}

func assetAddresses(uris []string) ([]string, error) {
	seen := make(map[string]struct{}, len(uris))
	out := make([]string, 0, len(uris))
	for _, raw := range uris {
		parsed, err := mediauri.Parse(raw)
		if err != nil {
			return nil, err
		}
		uri := parsed.WithoutFragment()
		if _, ok := seen[uri]; ok {
			continue
		}
		seen[uri] = struct{}{}
		out = append(out, uri)
	}
	return out, nil
}
