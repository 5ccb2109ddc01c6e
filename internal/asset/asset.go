package asset

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"baldr/internal/mediauri"
)

// Asset is one resolved media file.
type Asset struct {
	decl     Declaration
	kind     Kind
	httpURL  string
	samples  []SampleSpec
	shortcut string
}

// New validates decl and builds the asset served from httpURL. Playable
// assets get their sample declarations expanded; expansion errors are
// returned unchanged.
func New(decl Declaration, httpURL string) (*Asset, error) {
	decl = decl.clone()
	decl.Ref = mediauri.RemoveScheme(strings.TrimSpace(decl.Ref))
	decl.UUID = mediauri.RemoveScheme(strings.TrimSpace(decl.UUID))
	if decl.Ref == "" {
		return nil, ErrMissingRef
	}
	if decl.UUID == "" {
		return nil, fmt.Errorf("asset %q: %w", decl.Ref, ErrMissingUUID)
	}
	if decl.Extension == "" && decl.Filename != "" {
		decl.Extension = strings.TrimPrefix(filepath.Ext(decl.Filename), ".")
	}
	if decl.Extension == "" {
		return nil, fmt.Errorf("asset %q: %w", decl.Ref, ErrMissingExtension)
	}
	if decl.MultiPartCount < 1 {
		decl.MultiPartCount = 1
	}

	a := &Asset{
		decl:    decl,
		kind:    KindFromExtension(decl.Extension),
		httpURL: httpURL,
	}
	if a.kind.Playable() {
		samples, err := ExpandSamples(decl)
		if err != nil {
			return nil, err
		}
		a.samples = samples
	}
	return a, nil
}

// Ref returns the address in the ref scheme, for example `ref:Fuer-Elise`.
func (a *Asset) Ref() string { return mediauri.SchemeRef + ":" + a.decl.Ref }

// UUID returns the address in the uuid scheme.
func (a *Asset) UUID() string { return mediauri.SchemeUUID + ":" + a.decl.UUID }

// Name returns the bare reference name.
func (a *Asset) Name() string { return a.decl.Ref }

func (a *Asset) Kind() Kind        { return a.kind }
func (a *Asset) Extension() string { return a.decl.Extension }
func (a *Asset) Path() string      { return a.decl.Path }
func (a *Asset) HTTPURL() string   { return a.httpURL }
func (a *Asset) IsPlayable() bool  { return a.kind.Playable() }
func (a *Asset) IsVisible() bool   { return a.kind.Visible() }

// Declaration returns a copy of the normalized declaration.
func (a *Asset) Declaration() Declaration { return a.decl.clone() }

// Links returns the media addresses this asset refers to.
func (a *Asset) Links() []string { return a.Declaration().Links }

// Samples returns the expanded segment list; nil for non-playable assets.
func (a *Asset) Samples() []SampleSpec {
	out := make([]SampleSpec, len(a.samples))
	copy(out, a.samples)
	return out
}

// Shortcut returns the keyboard shortcut, empty if none was assigned.
func (a *Asset) Shortcut() string { return a.shortcut }

// AssignShortcut sets the shortcut once. Later calls are ignored.
func (a *Asset) AssignShortcut(shortcut string) bool {
	if a.shortcut != "" || shortcut == "" {
		return false
	}
	a.shortcut = shortcut
	return true
}

// Title returns the authored title.
func (a *Asset) Title() string { return a.decl.Title }

// TitleSafe returns the authored title, else a title derived from the file
// name, else the ref address.
func (a *Asset) TitleSafe() string {
	if a.decl.Title != "" {
		return a.decl.Title
	}
	if title := titleFromFilename(a.decl.Filename); title != "" {
		return title
	}
	return a.Ref()
}

// ArtistSafe combines composer and artist as `composer (artist)`.
func (a *Asset) ArtistSafe() string {
	switch {
	case a.decl.Composer != "" && a.decl.Artist != "":
		return a.decl.Composer + " (" + a.decl.Artist + ")"
	case a.decl.Composer != "":
		return a.decl.Composer
	default:
		return a.decl.Artist
	}
}

// YearSafe prefers the creation date over the year.
func (a *Asset) YearSafe() string {
	if a.decl.CreationDate != "" {
		return a.decl.CreationDate
	}
	return a.decl.Year
}

// PreviewHTTPURL returns the preview image address when one exists.
func (a *Asset) PreviewHTTPURL() (string, bool) {
	if !a.decl.PreviewImage {
		return "", false
	}
	return a.httpURL + "_preview.jpg", true
}

// WaveformHTTPURL returns the waveform image address when one exists.
func (a *Asset) WaveformHTTPURL() (string, bool) {
	if !a.decl.HasWaveform {
		return "", false
	}
	return a.httpURL + "_waveform.png", true
}

// MultiPartCount returns the number of physical parts, at least 1.
func (a *Asset) MultiPartCount() int { return a.decl.MultiPartCount }

// MultiPartHTTPURLByNo returns the address of part no (1-based).
func (a *Asset) MultiPartHTTPURLByNo(no int) (string, error) {
	if no < 1 || no > a.decl.MultiPartCount {
		return "", fmt.Errorf("asset %s has %d parts, not %d: %w", a.Ref(), a.decl.MultiPartCount, no, ErrPartOutOfRange)
	}
	if a.decl.MultiPartCount == 1 {
		return a.httpURL, nil
	}
	return FormatMultiPartFileName(a.httpURL, no)
}

func titleFromFilename(name string) string {
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var cleaned strings.Builder
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return ""
	}
	return cases.Title(language.German, cases.NoLower).String(title)
}
