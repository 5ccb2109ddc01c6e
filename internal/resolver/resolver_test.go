package resolver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"baldr/internal/asset"
	"baldr/internal/media/ffprobe"
	"baldr/internal/mediacache"
	"baldr/internal/mediaindex"
	"baldr/internal/metadata"
	"baldr/internal/schedule"
	"baldr/internal/testsupport"
)

const (
	eliseUUID    = "c262fe9b-c705-43fd-a5d4-4bb38178d9e7"
	portraitUUID = "0f9d1c5e-7b8a-4c1d-9e2f-3a4b5c6d7e8f"
	scoreUUID    = "5a0c2f1e-8d3b-4e6a-9c7d-1b2e3f4a5b6c"
)

type fakeSource struct {
	mu      sync.Mutex
	decls   []asset.Declaration
	queries map[string]int
}

func newFakeSource(decls ...asset.Declaration) *fakeSource {
	return &fakeSource{decls: decls, queries: make(map[string]int)}
}

func (f *fakeSource) Query(_ context.Context, uri string) (asset.Declaration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries[uri]++
	for _, decl := range f.decls {
		if uri == "ref:"+decl.Ref || uri == "uuid:"+decl.UUID {
			return decl, nil
		}
	}
	return asset.Declaration{}, fmt.Errorf("%s: %w", uri, mediaindex.ErrNotFound)
}

func (f *fakeSource) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.queries {
		n += c
	}
	return n
}

func seconds(v float64) *float64 { return &v }

func library() []asset.Declaration {
	return []asset.Declaration{
		{
			Ref: "Fuer-Elise", UUID: eliseUUID, Extension: "mp3", Path: "musik/Fuer-Elise.mp3",
			Title:   "Für Elise",
			Samples: []asset.SampleDeclaration{{Ref: "theme", StartTime: seconds(12), Duration: seconds(20)}},
			Links:   []string{"ref:Portrait"},
		},
		{Ref: "Portrait", UUID: portraitUUID, Extension: "jpg", Path: "bilder/Portrait.jpg", Links: []string{"uuid:" + eliseUUID}},
		{Ref: "Score", UUID: scoreUUID, Extension: "png", Path: "noten/Score.png", MultiPartCount: 4},
	}
}

func newTestResolver(source mediaindex.Source) *Resolver {
	clock := schedule.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(source, mediacache.NewRegistry(nil), clock,
		WithHandleFactory(FixedHandles(clock, 180)),
		WithHTTPURL(func(path string) string { return "http://h/" + path }),
	)
}

func refs(assets []*asset.Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Ref()
	}
	return out
}

func TestResolveFollowsLinks(t *testing.T) {
	source := newFakeSource(library()...)
	r := newTestResolver(source)

	assets, err := r.Resolve(context.Background(), "ref:Fuer-Elise#theme")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := refs(assets); !slices.Equal(got, []string{"ref:Fuer-Elise", "ref:Portrait"}) {
		t.Fatalf("resolved %v", got)
	}
	if source.total() != 2 {
		t.Fatalf("queries = %v", source.queries)
	}
	if assets[0].HTTPURL() != "http://h/musik/Fuer-Elise.mp3" {
		t.Fatalf("HTTPURL = %q", assets[0].HTTPURL())
	}
	if assets[1].Shortcut() != "i 1" {
		t.Fatalf("image shortcut = %q", assets[1].Shortcut())
	}
}

func TestResolveUsesCaches(t *testing.T) {
	source := newFakeSource(library()...)
	r := newTestResolver(source)
	ctx := context.Background()

	if _, err := r.Resolve(ctx, "ref:Fuer-Elise"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve(ctx, "uuid:"+eliseUUID, "ref:Portrait"); err != nil {
		t.Fatal(err)
	}
	if source.total() != 2 {
		t.Fatalf("cached assets were fetched again: %v", source.queries)
	}

	r.Registry().Reset()
	assets, err := r.Resolve(ctx, "ref:Fuer-Elise")
	if err != nil {
		t.Fatal(err)
	}
	if len(assets) != 2 || source.total() != 2 {
		t.Fatalf("declaration cache unused: %d assets, %v", len(assets), source.queries)
	}

	r.Reset()
	if _, err := r.Resolve(ctx, "ref:Score"); err != nil {
		t.Fatal(err)
	}
	if source.total() != 3 {
		t.Fatalf("queries = %v", source.queries)
	}
}

func TestResolveSameAssetTwiceInOneBatch(t *testing.T) {
	r := newTestResolver(newFakeSource(library()...))
	assets, err := r.Resolve(context.Background(), "ref:Portrait", "uuid:"+portraitUUID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := refs(assets); !slices.Equal(got, []string{"ref:Portrait", "ref:Fuer-Elise"}) {
		t.Fatalf("resolved %v", got)
	}
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(newFakeSource(library()...))
	if _, err := r.Resolve(ctx, "ref:Missing"); !errors.Is(err, mediaindex.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := r.Resolve(ctx, "not an address"); err == nil {
		t.Fatal("expected invalid address error")
	}

	twin := asset.Declaration{Ref: "Twin", UUID: portraitUUID, Extension: "jpg"}
	r = newTestResolver(newFakeSource(append(library(), twin)...))
	if _, err := r.Resolve(ctx, "ref:Portrait", "ref:Twin"); !errors.Is(err, ErrIdentityConflict) {
		t.Fatalf("err = %v, want ErrIdentityConflict", err)
	}

	bad := asset.Declaration{Ref: "Bad", UUID: scoreUUID, Extension: "mp3",
		Samples: []asset.SampleDeclaration{{Ref: "x", Duration: seconds(1), EndTime: seconds(2)}}}
	r = newTestResolver(newFakeSource(bad))
	if _, err := r.Resolve(ctx, "ref:Bad"); !errors.Is(err, asset.ErrDurationAndEndTime) {
		t.Fatalf("err = %v, want ErrDurationAndEndTime", err)
	}
}

func TestResolveSample(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(newFakeSource(library()...))

	theme, err := r.ResolveSample(ctx, "uuid:"+eliseUUID+"#theme")
	if err != nil {
		t.Fatalf("ResolveSample: %v", err)
	}
	if theme.Ref() != "ref:Fuer-Elise#theme" || theme.Duration() != 20 {
		t.Fatalf("theme = %s (%vs)", theme.Ref(), theme.Duration())
	}
	complete, err := r.ResolveSample(ctx, "ref:Fuer-Elise")
	if err != nil {
		t.Fatal(err)
	}
	if complete.Duration() != 180 || complete.Handle() != theme.Handle() {
		t.Fatal("complete sample should share the asset's handle and run to the media end")
	}
	if _, err := r.ResolveSample(ctx, "ref:Fuer-Elise#nope"); !errors.Is(err, ErrSampleNotFound) {
		t.Fatalf("err = %v, want ErrSampleNotFound", err)
	}
}

func TestResolveSelection(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(newFakeSource(library()...))
	sel, err := r.ResolveSelection(ctx, "ref:Score#2-3")
	if err != nil {
		t.Fatalf("ResolveSelection: %v", err)
	}
	if !slices.Equal(sel.PartNos(), []int{2, 3}) {
		t.Fatalf("PartNos = %v", sel.PartNos())
	}
	if url, _ := sel.HTTPURL(); url != "http://h/noten/Score_no002.png" {
		t.Fatalf("HTTPURL = %q", url)
	}
	if sel, err := r.ResolveSelection(ctx, "ref:Score"); sel != nil || err != nil {
		t.Fatalf("no fragment: %v, %v", sel, err)
	}
}

func TestResolveWrapped(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(newFakeSource(library()...))

	specs, err := metadata.ParseWrappedSpecs("Das Thema ref:Fuer-Elise#theme")
	if err != nil {
		t.Fatal(err)
	}
	list, err := r.ResolveWrapped(ctx, specs)
	if err != nil {
		t.Fatalf("ResolveWrapped: %v", err)
	}
	if list.Len() != 1 || list.Items()[0].TitleSafe() != "Das Thema" {
		t.Fatalf("items = %+v", list.Items())
	}
	all, ok := list.SamplesFromFirst()
	if !ok || len(all) != 2 {
		t.Fatalf("SamplesFromFirst = %d, %v", len(all), ok)
	}

	plain, _ := metadata.ParseWrappedSpecs([]any{"ref:Fuer-Elise", "ref:Fuer-Elise#theme"})
	list, err = r.ResolveWrapped(ctx, plain)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := list.SamplesFromFirst(); ok {
		t.Fatal("two entries must not expand")
	}
	if got := list.Items()[0].TitleSafe(); got != "Für Elise" {
		t.Fatalf("TitleSafe = %q", got)
	}
}

func TestProbedHandles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedFFprobe(95.5))
	clock := schedule.NewManual(time.Now())
	prober := ffprobe.NewProber(cfg.FFprobe.Binary, time.Second)
	a, err := asset.New(library()[0], "")
	if err != nil {
		t.Fatal(err)
	}
	handle, err := ProbedHandles(prober, cfg.Paths.MediaDir, clock, nil)(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if handle.Duration() != 95.5 {
		t.Fatalf("Duration = %v", handle.Duration())
	}

	missing := ffprobe.NewProber("/nonexistent/ffprobe", time.Second)
	handle, err = ProbedHandles(missing, cfg.Paths.MediaDir, clock, nil)(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if handle.Duration() != 32 {
		t.Fatalf("fallback Duration = %v, want declared end 32", handle.Duration())
	}
}

func TestResolveFromIndex(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteDeclaration(t, cfg.Paths.MediaDir, "musik/Song.mp3", "ref: Song\nuuid: "+eliseUUID+"\nsamples:\n  - ref: intro\n    endTime: 0:10\n")
	idx, err := mediaindex.Build(context.Background(), cfg.Paths.MediaDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	clock := schedule.NewManual(time.Now())
	r := New(idx, mediacache.NewRegistry(nil), clock, WithHTTPURL(cfg.HTTPURL))
	sample, err := r.ResolveSample(context.Background(), "ref:Song#intro")
	if err != nil {
		t.Fatalf("ResolveSample: %v", err)
	}
	if sample.Duration() != 10 {
		t.Fatalf("Duration = %v", sample.Duration())
	}
	if got := sample.Asset().HTTPURL(); got != "http://media.test/media/musik/Song.mp3" {
		t.Fatalf("HTTPURL = %q", got)
	}
}
