package mediauri

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

const (
	// SchemeRef is the human-chosen reference scheme.
	SchemeRef = "ref"
	// SchemeUUID is the stable identifier scheme.
	SchemeUUID = "uuid"
)

// ErrInvalid reports an address that does not match either scheme.
var ErrInvalid = errors.New("invalid media uri")

var pattern = regexp.MustCompile(`(?P<scheme>ref|uuid):(?P<authority>[a-zA-Z0-9\-_]+)(#(?P<fragment>[a-zA-Z0-9\-_,]+))?`)

// URI is a parsed media address.
type URI struct {
	Raw       string
	Scheme    string
	Authority string
	Fragment  string
	// HasFragment distinguishes `ref:x#` style input from no fragment at all.
	HasFragment bool
}

// Parse validates raw and splits it into its components.
func Parse(raw string) (URI, error) {
	raw = strings.TrimSpace(raw)
	match := pattern.FindStringSubmatch(raw)
	if match == nil || match[0] != raw {
		return URI{}, fmt.Errorf("%w: %q", ErrInvalid, raw)
	}
	uri := URI{
		Raw:       raw,
		Scheme:    match[pattern.SubexpIndex("scheme")],
		Authority: match[pattern.SubexpIndex("authority")],
	}
	if fragment := match[pattern.SubexpIndex("fragment")]; fragment != "" {
		uri.Fragment = fragment
		uri.HasFragment = true
	}
	return uri, nil
}

// WithoutFragment returns `scheme:authority`.
func (u URI) WithoutFragment() string {
	return u.Scheme + ":" + u.Authority
}

// String returns the canonical form of the address.
func (u URI) String() string {
	return Compose(u.Scheme, u.Authority, u.Fragment)
}

// Check reports whether value contains a media address.
func Check(value string) bool {
	return pattern.MatchString(value)
}

// Compose builds `scheme:authority[#fragment]`.
func Compose(scheme, authority, fragment string) string {
	if fragment == "" {
		return scheme + ":" + authority
	}
	return scheme + ":" + authority + "#" + fragment
}

// SplitByFragment separates the part before `#` from the fragment. ok is
// false when the address contains more than one `#`.
func SplitByFragment(uri string) (prefix, fragment string, hasFragment, ok bool) {
	idx := strings.Index(uri, "#")
	if idx <= 0 {
		return uri, "", false, true
	}
	prefix, fragment = uri[:idx], uri[idx+1:]
	if strings.Contains(fragment, "#") {
		return "", "", false, false
	}
	return prefix, fragment, true, true
}

// RemoveFragment strips a trailing `#fragment`.
func RemoveFragment(uri string) string {
	if idx := strings.Index(uri, "#"); idx > 0 {
		return uri[:idx]
	}
	return uri
}

// RemoveScheme strips a leading `ref:` or `uuid:`.
func RemoveScheme(uri string) string {
	switch {
	case strings.HasPrefix(uri, SchemeRef+":"):
		return strings.TrimPrefix(uri, SchemeRef+":")
	case strings.HasPrefix(uri, SchemeUUID+":"):
		return strings.TrimPrefix(uri, SchemeUUID+":")
	default:
		return uri
	}
}

// IsUUID reports whether uri uses the identifier scheme.
func IsUUID(uri string) bool {
	return strings.HasPrefix(uri, SchemeUUID+":")
}

// FindAll walks strings, slices and maps and returns every media address it
// finds, fragments removed, in first-seen order.
func FindAll(data any) []string {
	seen := make(map[string]struct{})
	var out []string
	var walk func(v any)
	walk = func(v any) {
		switch value := v.(type) {
		case string:
			for _, match := range pattern.FindAllString(value, -1) {
				uri := RemoveFragment(match)
				if _, ok := seen[uri]; ok {
					continue
				}
				seen[uri] = struct{}{}
				out = append(out, uri)
			}
		case []any:
			for _, item := range value {
				walk(item)
			}
		case []string:
			for _, item := range value {
				walk(item)
			}
		case map[string]any:
			for _, key := range slices.Sorted(maps.Keys(value)) {
				walk(value[key])
			}
		}
	}
	walk(data)
	return out
}

// Extract returns the first media address inside text and the remaining text
// with the address removed and whitespace collapsed.
func Extract(text string) (uri string, rest string, ok bool) {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return "", text, false
	}
	uri = text[loc[0]:loc[1]]
	rest = strings.Join(strings.Fields(text[:loc[0]]+" "+text[loc[1]:]), " ")
	return uri, rest, true
}
