package asset

import (
	"fmt"
	"slices"
	"strings"
)

// Selection restricts a multi-part asset to an ordered list of parts. The
// address `ref:Score#2` always resolves to the second physical part.
type Selection struct {
	asset   *Asset
	spec    string
	partNos []int
}

// NewSelection parses spec against a. The spec may be given as a full address;
// everything up to the last `#` is ignored. An empty spec selects all parts.
func NewSelection(a *Asset, spec string) (*Selection, error) {
	if idx := strings.LastIndex(spec, "#"); idx >= 0 {
		spec = spec[idx+1:]
	}
	spec = strings.TrimSpace(spec)
	partNos, err := SelectSubset(spec, a.MultiPartCount())
	if err != nil {
		return nil, fmt.Errorf("selection %s#%s: %w", a.Ref(), spec, err)
	}
	return &Selection{asset: a, spec: spec, partNos: partNos}, nil
}

func (s *Selection) Asset() *Asset { return s.asset }

// Spec returns the selection expression without `#`.
func (s *Selection) Spec() string { return s.spec }

// PartNos returns the selected physical part numbers in selection order.
func (s *Selection) PartNos() []int { return slices.Clone(s.partNos) }

// PartCount is the effective number of parts of the selection.
func (s *Selection) PartCount() int { return len(s.partNos) }

// URI returns the ref address with the selection fragment.
func (s *Selection) URI() string { return withFragment(s.asset.Ref(), s.spec) }

// UUIDURI returns the uuid address with the selection fragment.
func (s *Selection) UUIDURI() string { return withFragment(s.asset.UUID(), s.spec) }

// HTTPURL returns the address of the first selected part.
func (s *Selection) HTTPURL() (string, error) { return s.MultiPartHTTPURLByNo(1) }

// MultiPartHTTPURLByNo maps position no (1-based, within the selection) to
// the address of the corresponding physical part.
func (s *Selection) MultiPartHTTPURLByNo(no int) (string, error) {
	if no < 1 || no > len(s.partNos) {
		return "", fmt.Errorf("selection %s has %d parts, not %d: %w", s.URI(), len(s.partNos), no, ErrPartOutOfRange)
	}
	return s.asset.MultiPartHTTPURLByNo(s.partNos[no-1])
}

func withFragment(uri, fragment string) string {
	if fragment == "" {
		return uri
	}
	return uri + "#" + fragment
}
