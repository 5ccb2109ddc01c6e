package asset

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	// CompleteSample names the implicit segment that spans the whole asset.
	CompleteSample = "complete"
	// CompleteTitle is the display title of the complete sample.
	CompleteTitle = "komplett"

	// DefaultFadeIn is short and smooth to avoid audio artifacts.
	DefaultFadeIn = 0.3
	// DefaultFadeOut applies because playback never stops abruptly.
	DefaultFadeOut = 1.0

	autoNamePrefix  = "sample"
	autoTitlePrefix = "Ausschnitt "
)

// SampleSpec is a validated segment of an asset. Times are in seconds
// relative to the start of the media file.
type SampleSpec struct {
	Name  string
	Title string
	Start float64
	// Duration is zero when the segment runs to the end of the media.
	Duration float64
	FadeIn   float64
	FadeOut  float64
	Shortcut string
}

// HasDuration reports whether the segment length is fixed by the declaration.
func (s SampleSpec) HasDuration() bool {
	return s.Duration > 0
}

// IsComplete reports whether this is the implicit whole-asset segment.
func (s SampleSpec) IsComplete() bool {
	return s.Name == CompleteSample
}

// DisplayTitle returns the title, else the name, else `komplett`.
func (s SampleSpec) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	if s.Name != "" && s.Name != CompleteSample {
		return s.Name
	}
	return CompleteTitle
}

// NewSampleSpec validates one declaration. An empty ref means `complete`.
func NewSampleSpec(decl SampleDeclaration) (SampleSpec, error) {
	spec := SampleSpec{
		Name:     decl.Ref,
		Title:    decl.Title,
		FadeIn:   DefaultFadeIn,
		FadeOut:  DefaultFadeOut,
		Shortcut: decl.Shortcut,
	}
	if spec.Name == "" {
		spec.Name = CompleteSample
	}
	if decl.StartTime != nil {
		spec.Start = *decl.StartTime
	}
	if decl.Duration != nil && decl.EndTime != nil {
		return SampleSpec{}, fmt.Errorf("sample %q: %w", spec.Name, ErrDurationAndEndTime)
	}
	switch {
	case decl.Duration != nil:
		spec.Duration = *decl.Duration
	case decl.EndTime != nil:
		spec.Duration = *decl.EndTime - spec.Start
	}
	if (decl.Duration != nil || decl.EndTime != nil) && spec.Duration <= 0 {
		return SampleSpec{}, fmt.Errorf("sample %q: %w", spec.Name, ErrInvalidTiming)
	}
	if spec.Start < 0 {
		return SampleSpec{}, fmt.Errorf("sample %q: negative start time: %w", spec.Name, ErrInvalidTiming)
	}
	if decl.FadeIn != nil {
		spec.FadeIn = *decl.FadeIn
	}
	if decl.FadeOut != nil {
		spec.FadeOut = *decl.FadeOut
	}
	return spec, nil
}

var umlauts = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "Ä", "ae", "Ö", "oe", "Ü", "ue", "ß", "ss")

// nameFromTitle turns a title into a fragment-safe sample name:
// "Das Thema (Fuge)" becomes "das-thema-fuge".
func nameFromTitle(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range umlauts.Replace(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			dash = true
		}
	}
	return b.String()
}

// ExpandSamples derives the ordered segment list of a declaration. The
// complete sample comes first, taken from either the root-level timing
// fields or an explicit `complete` entry; declaring both is an error.
// Entries without ref and title are named sample1, sample2, ... and titled
// Ausschnitt 1, Ausschnitt 2, ... in declaration order. Entries with only a
// title take a name derived from it and do not advance the numbering.
func ExpandSamples(decl Declaration) ([]SampleSpec, error) {
	var (
		explicitComplete *SampleDeclaration
		rest             = make([]SampleDeclaration, 0, len(decl.Samples))
	)
	for _, sample := range decl.Samples {
		if sample.Ref == CompleteSample && explicitComplete == nil {
			s := sample.clone()
			explicitComplete = &s
			continue
		}
		rest = append(rest, sample.clone())
	}

	root := decl.Timing.clone()
	root.Ref, root.Title = "", ""
	rootDeclared := root.hasTiming() || root.Shortcut != ""

	var complete SampleDeclaration
	switch {
	case explicitComplete != nil && rootDeclared:
		return nil, fmt.Errorf("asset %q: %w", decl.Ref, ErrDuplicateComplete)
	case explicitComplete != nil:
		complete = *explicitComplete
	case rootDeclared:
		complete = root
	}
	complete.Ref = CompleteSample

	specs := make([]SampleSpec, 0, len(rest)+1)
	first, err := NewSampleSpec(complete)
	if err != nil {
		return nil, fmt.Errorf("asset %q: %w", decl.Ref, err)
	}
	specs = append(specs, first)

	counter := 0
	for i, sample := range rest {
		switch {
		case sample.Ref == "" && sample.Title == "":
			counter++
			sample.Ref = autoNamePrefix + strconv.Itoa(counter)
			sample.Title = autoTitlePrefix + strconv.Itoa(counter)
		case sample.Ref == "":
			sample.Ref = nameFromTitle(sample.Title)
			if sample.Ref == "" {
				sample.Ref = autoNamePrefix + "-" + strconv.Itoa(i+1)
			}
		}
		spec, err := NewSampleSpec(sample)
		if err != nil {
			return nil, fmt.Errorf("asset %q: %w", decl.Ref, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
