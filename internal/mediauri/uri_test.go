package mediauri

import (
	"errors"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		raw       string
		scheme    string
		authority string
		fragment  string
	}{
		{"ref:Fuer-Elise", SchemeRef, "Fuer-Elise", ""},
		{"ref:Fuer-Elise#complete", SchemeRef, "Fuer-Elise", "complete"},
		{"uuid:c262fe9b-c705-43fd-a5d4-4bb38178d9e7#1,2,5-7", SchemeUUID, "c262fe9b-c705-43fd-a5d4-4bb38178d9e7", "1,2,5-7"},
		{"ref:Beethoven_Ludwig-van#-4", SchemeRef, "Beethoven_Ludwig-van", "-4"},
	}
	for _, tc := range cases {
		uri, err := Parse(tc.raw)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tc.raw, err)
		}
		if uri.Scheme != tc.scheme || uri.Authority != tc.authority || uri.Fragment != tc.fragment {
			t.Errorf("Parse(%q) = %+v", tc.raw, uri)
		}
		if uri.String() != tc.raw {
			t.Errorf("String() = %q, want %q", uri.String(), tc.raw)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "http://example.com", "ref:", "ref:a#b#c", "id:Test"} {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalid) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalid", raw, err)
		}
	}
}

func TestSplitByFragment(t *testing.T) {
	prefix, fragment, has, ok := SplitByFragment("ref:Alla-Turca#complete")
	if !ok || !has || prefix != "ref:Alla-Turca" || fragment != "complete" {
		t.Fatalf("unexpected split: %q %q %v %v", prefix, fragment, has, ok)
	}
	prefix, _, has, ok = SplitByFragment("ref:Alla-Turca")
	if !ok || has || prefix != "ref:Alla-Turca" {
		t.Fatalf("unexpected split without fragment: %q %v %v", prefix, has, ok)
	}
	if _, _, _, ok := SplitByFragment("ref:a#b#c"); ok {
		t.Fatal("expected double fragment to be rejected")
	}
}

func TestRemoveScheme(t *testing.T) {
	if got := RemoveScheme("ref:Fuer-Elise"); got != "Fuer-Elise" {
		t.Errorf("got %q", got)
	}
	if got := RemoveScheme("uuid:1234"); got != "1234" {
		t.Errorf("got %q", got)
	}
	if got := RemoveScheme("Fuer-Elise"); got != "Fuer-Elise" {
		t.Errorf("got %q", got)
	}
}

func TestFindAll(t *testing.T) {
	data := map[string]any{
		"cover": "ref:Cover#2",
		"list":  []any{"text ref:A and uuid:b-1", map[string]any{"nested": "ref:A#complete"}},
		"year":  1998,
	}
	got := FindAll(data)
	want := []string{"ref:Cover", "ref:A", "uuid:b-1"}
	if !slices.Equal(got, want) {
		t.Fatalf("FindAll = %v, want %v", got, want)
	}
}

func TestExtract(t *testing.T) {
	uri, rest, ok := Extract("Für   Elise ref:Fuer-Elise_HB  (Klavier)")
	if !ok {
		t.Fatal("expected address")
	}
	if uri != "ref:Fuer-Elise_HB" {
		t.Errorf("uri = %q", uri)
	}
	if rest != "Für Elise (Klavier)" {
		t.Errorf("rest = %q", rest)
	}
}
