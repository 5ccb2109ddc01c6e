package mediaindex_test

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"baldr/internal/mediaindex"
	"baldr/internal/mediauri"
	"baldr/internal/testsupport"
)

const (
	eliseUUID    = "c262fe9b-c705-43fd-a5d4-4bb38178d9e7"
	portraitUUID = "0f9d1c5e-7b8a-4c1d-9e2f-3a4b5c6d7e8f"
)

func buildIndex(t *testing.T) *mediaindex.Index {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	root := cfg.Paths.MediaDir
	testsupport.WriteDeclaration(t, root, "musik/Fuer-Elise.mp3", "ref: Fuer-Elise\nuuid: "+eliseUUID+"\ncover: ref:Portrait\n")
	testsupport.WriteDeclaration(t, root, "bilder/Portrait.jpg", "ref: Portrait\nuuid: "+portraitUUID+"\n")
	testsupport.WriteDeclaration(t, root, "bilder/Broken.jpg", "ref: [unclosed\n")
	testsupport.WriteDeclaration(t, root, "bilder/Twin.jpg", "ref: Portrait\nuuid: 11111111-2222-3333-4444-555555555555\n")
	testsupport.WriteDeclaration(t, root, ".trash/Old.mp3", "ref: Old\nuuid: 99999999-2222-3333-4444-555555555555\n")

	idx, err := mediaindex.Build(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func TestBuildIndexesValidDeclarations(t *testing.T) {
	idx := buildIndex(t)
	if got := idx.Refs(); !slices.Equal(got, []string{"Fuer-Elise", "Portrait"}) {
		t.Fatalf("Refs = %v", got)
	}
	if got := len(idx.Skipped()); got != 2 {
		t.Fatalf("skipped %d files, want 2", got)
	}
}

func TestQueryByRefAndUUID(t *testing.T) {
	idx := buildIndex(t)
	ctx := context.Background()

	byRef, err := idx.Query(ctx, "ref:Fuer-Elise#complete")
	if err != nil {
		t.Fatalf("Query ref: %v", err)
	}
	if byRef.Path != "musik/Fuer-Elise.mp3" || !slices.Equal(byRef.Links, []string{"ref:Portrait"}) {
		t.Fatalf("declaration = %+v", byRef)
	}
	byUUID, err := idx.Query(ctx, "uuid:"+eliseUUID)
	if err != nil || byUUID.Ref != "Fuer-Elise" {
		t.Fatalf("Query uuid = %+v, %v", byUUID, err)
	}
}

func TestQueryErrors(t *testing.T) {
	idx := buildIndex(t)
	ctx := context.Background()
	if _, err := idx.Query(ctx, "ref:Missing"); !errors.Is(err, mediaindex.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := idx.Query(ctx, "http://example.com"); !errors.Is(err, mediauri.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := idx.Query(cancelled, "ref:Portrait"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestBuildRejectsMissingRoot(t *testing.T) {
	if _, err := mediaindex.Build(context.Background(), filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}
