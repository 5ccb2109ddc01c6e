package metadata

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"baldr/internal/asset"
	"baldr/internal/mediauri"
)

// WrappedSpec points at one sample and optionally overrides its title.
type WrappedSpec struct {
	URI         string
	CustomTitle string
}

// WrappedSpecList is a sample reference list as authored in presentations.
// It decodes from a bare address, an address embedded in title text, an
// object with `uri` and `title`, or a list of these.
type WrappedSpecList []WrappedSpec

// NewWrappedSpec parses the string form. The first media address in value
// is the sample; the remaining text, whitespace collapsed, is the title.
func NewWrappedSpec(value string) (WrappedSpec, error) {
	uri, rest, ok := mediauri.Extract(value)
	if !ok {
		return WrappedSpec{}, fmt.Errorf("%w: no media address in %q", ErrInvalidDeclaration, value)
	}
	return WrappedSpec{URI: withDefaultSample(uri), CustomTitle: rest}, nil
}

// ParseWrappedSpecs accepts a string, a map with `uri`, or a slice of
// either, as produced by generic YAML or JSON decoding.
func ParseWrappedSpecs(value any) (WrappedSpecList, error) {
	switch v := value.(type) {
	case string:
		spec, err := NewWrappedSpec(v)
		if err != nil {
			return nil, err
		}
		return WrappedSpecList{spec}, nil
	case map[string]any:
		spec, err := wrappedFromMap(v)
		if err != nil {
			return nil, err
		}
		return WrappedSpecList{spec}, nil
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return ParseWrappedSpecs(items)
	case []any:
		out := make(WrappedSpecList, 0, len(v))
		for _, item := range v {
			if _, nested := item.([]any); nested {
				return nil, fmt.Errorf("%w: nested sample lists", ErrInvalidDeclaration)
			}
			specs, err := ParseWrappedSpecs(item)
			if err != nil {
				return nil, err
			}
			out = append(out, specs...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported sample spec %T", ErrInvalidDeclaration, value)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *WrappedSpecList) UnmarshalYAML(value *yaml.Node) error {
	var generic any
	if err := value.Decode(&generic); err != nil {
		return err
	}
	specs, err := ParseWrappedSpecs(generic)
	if err != nil {
		return err
	}
	*l = specs
	return nil
}

// URIs returns the distinct sample addresses in order.
func (l WrappedSpecList) URIs() []string {
	seen := make(map[string]struct{}, len(l))
	out := make([]string, 0, len(l))
	for _, spec := range l {
		if _, ok := seen[spec.URI]; ok {
			continue
		}
		seen[spec.URI] = struct{}{}
		out = append(out, spec.URI)
	}
	return out
}

func wrappedFromMap(m map[string]any) (WrappedSpec, error) {
	uri, _ := m["uri"].(string)
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return WrappedSpec{}, fmt.Errorf("%w: sample spec without uri", ErrInvalidDeclaration)
	}
	if !mediauri.Check(uri) {
		return WrappedSpec{}, fmt.Errorf("%w: %q: %w", ErrInvalidDeclaration, uri, mediauri.ErrInvalid)
	}
	spec := WrappedSpec{URI: withDefaultSample(uri)}
	if title, ok := m["title"]; ok && title != nil {
		spec.CustomTitle = strings.TrimSpace(fmt.Sprint(title))
	}
	return spec, nil
}

func withDefaultSample(uri string) string {
	if strings.Contains(uri, "#") {
		return uri
	}
	return uri + "#" + asset.CompleteSample
}
