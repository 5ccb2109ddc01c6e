package catalog

import (
	"time"

	"baldr/internal/mediacache"
)

// AssetRecord is the exported form of one asset.
type AssetRecord struct {
	Ref            string         `json:"ref"`
	UUID           string         `json:"uuid"`
	Kind           string         `json:"kind"`
	Extension      string         `json:"extension"`
	Path           string         `json:"path,omitempty"`
	HTTPURL        string         `json:"http_url,omitempty"`
	Title          string         `json:"title"`
	Artist         string         `json:"artist,omitempty"`
	Year           string         `json:"year,omitempty"`
	MultiPartCount int            `json:"multi_part_count"`
	Shortcut       string         `json:"shortcut,omitempty"`
	PreviewURL     string         `json:"preview_url,omitempty"`
	WaveformURL    string         `json:"waveform_url,omitempty"`
	Samples        []SampleRecord `json:"samples,omitempty"`
}

// SampleRecord is the exported form of one sample.
type SampleRecord struct {
	Ref       string  `json:"ref"`
	Name      string  `json:"name"`
	Title     string  `json:"title"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
	FadeIn    float64 `json:"fade_in"`
	FadeOut   float64 `json:"fade_out"`
	Shortcut  string  `json:"shortcut,omitempty"`
}

// Snapshot is a full export.
type Snapshot struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Assets      []AssetRecord `json:"assets"`
}

// SampleCount returns the number of samples over all assets.
func (s Snapshot) SampleCount() int {
	n := 0
	for _, a := range s.Assets {
		n += len(a.Samples)
	}
	return n
}

// FromRegistry collects every cached asset and its samples in insertion
// order.
func FromRegistry(registry *mediacache.Registry, now time.Time) Snapshot {
	snapshot := Snapshot{GeneratedAt: now.UTC(), Assets: []AssetRecord{}}
	for a := range registry.Assets.Values() {
		record := AssetRecord{
			Ref:            a.Ref(),
			UUID:           a.UUID(),
			Kind:           string(a.Kind()),
			Extension:      a.Extension(),
			Path:           a.Path(),
			HTTPURL:        a.HTTPURL(),
			Title:          a.TitleSafe(),
			Artist:         a.ArtistSafe(),
			Year:           a.YearSafe(),
			MultiPartCount: a.MultiPartCount(),
			Shortcut:       a.Shortcut(),
		}
		record.PreviewURL, _ = a.PreviewHTTPURL()
		record.WaveformURL, _ = a.WaveformHTTPURL()
		for _, sample := range registry.SamplesOf(a) {
			spec := sample.Spec()
			record.Samples = append(record.Samples, SampleRecord{
				Ref:       sample.Ref(),
				Name:      spec.Name,
				Title:     sample.Title(),
				StartTime: spec.Start,
				Duration:  sample.Duration(),
				FadeIn:    spec.FadeIn,
				FadeOut:   spec.FadeOut,
				Shortcut:  sample.Shortcut(),
			})
		}
		snapshot.Assets = append(snapshot.Assets, record)
	}
	return snapshot
}
