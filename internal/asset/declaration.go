package asset

import "slices"

// Declaration is the normalized description of one media file as delivered
// by the metadata layer. Timing values are in seconds.
type Declaration struct {
	Ref            string
	UUID           string
	Extension      string
	Filename       string
	Path           string
	Title          string
	Artist         string
	Composer       string
	CreationDate   string
	Year           string
	MultiPartCount int
	PreviewImage   bool
	HasWaveform    bool

	// Timing holds root-level segment fields that describe the complete sample.
	Timing SampleDeclaration
	// Samples lists the declared segments in authoring order.
	Samples []SampleDeclaration
	// Links lists other media addresses referenced by this declaration.
	Links []string
}

// SampleDeclaration describes one segment before validation. Nil timing
// pointers mean the field was not given.
type SampleDeclaration struct {
	Ref       string
	Title     string
	StartTime *float64
	Duration  *float64
	EndTime   *float64
	FadeIn    *float64
	FadeOut   *float64
	Shortcut  string
}

// IsZero reports whether no field is set.
func (d SampleDeclaration) IsZero() bool {
	return d.Ref == "" && d.Title == "" && !d.hasTiming() && d.Shortcut == ""
}

func (d SampleDeclaration) hasTiming() bool {
	return d.StartTime != nil || d.Duration != nil || d.EndTime != nil || d.FadeIn != nil || d.FadeOut != nil
}

func (d Declaration) clone() Declaration {
	out := d
	out.Timing = d.Timing.clone()
	out.Samples = make([]SampleDeclaration, len(d.Samples))
	for i, s := range d.Samples {
		out.Samples[i] = s.clone()
	}
	out.Links = slices.Clone(d.Links)
	return out
}

func (d SampleDeclaration) clone() SampleDeclaration {
	out := d
	out.StartTime = clonePtr(d.StartTime)
	out.Duration = clonePtr(d.Duration)
	out.EndTime = clonePtr(d.EndTime)
	out.FadeIn = clonePtr(d.FadeIn)
	out.FadeOut = clonePtr(d.FadeOut)
	return out
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Seconds returns a pointer to v, for building declarations in code.
func Seconds(v float64) *float64 {
	return &v
}
