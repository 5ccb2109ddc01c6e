package mediacache

import (
	"baldr/internal/asset"
	"baldr/internal/mediauri"
)

// Translator maps uuid addresses onto ref addresses. Each uuid maps to
// exactly one ref and is registered at most once.
type Translator struct {
	refs map[string]string
}

// NewTranslator returns an empty translator.
func NewTranslator() *Translator {
	return &Translator{refs: make(map[string]string)}
}

// AddPair registers uuid as an alias of ref. Scheme prefixes are stripped.
// It returns false when uuid is already registered, even to the same ref.
func (t *Translator) AddPair(ref, uuid string) bool {
	ref = mediauri.RemoveScheme(ref)
	uuid = mediauri.RemoveScheme(uuid)
	if ref == "" || uuid == "" {
		return false
	}
	if _, exists := t.refs[uuid]; exists {
		return false
	}
	t.refs[uuid] = ref
	return true
}

// Resolve translates a uuid or ref address, with optional fragment, into
// the ref address. The fragment is kept unless stripFragment is set. Unknown
// uuids and malformed addresses resolve to false.
func (t *Translator) Resolve(uri string, stripFragment bool) (string, bool) {
	prefix, fragment, hasFragment, ok := mediauri.SplitByFragment(uri)
	if !ok || prefix == "" {
		return "", false
	}
	if mediauri.IsUUID(prefix) {
		name, found := t.refs[mediauri.RemoveScheme(prefix)]
		if !found {
			return "", false
		}
		prefix = mediauri.SchemeRef + ":" + name
	}
	if !hasFragment || stripFragment {
		return prefix, true
	}
	return prefix + "#" + fragment, true
}

// AssetRef resolves uri to the ref address of its asset, fragment removed.
func (t *Translator) AssetRef(uri string) (string, bool) {
	return t.Resolve(uri, true)
}

// SampleRef resolves uri to a sample address. A missing fragment selects
// the complete sample.
func (t *Translator) SampleRef(uri string) (string, bool) {
	if _, _, hasFragment, ok := mediauri.SplitByFragment(uri); ok && !hasFragment {
		uri += "#" + asset.CompleteSample
	}
	return t.Resolve(uri, false)
}

// Size returns the number of registered pairs.
func (t *Translator) Size() int { return len(t.refs) }

// Reset drops every pair.
func (t *Translator) Reset() { clear(t.refs) }
