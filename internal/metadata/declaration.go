package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"baldr/internal/asset"
	"baldr/internal/mediauri"
)

// Suffix is appended to a media file name to form its declaration file.
const Suffix = ".yml"

// text accepts any YAML scalar as a string, so `year: 1810` works.
type text string

func (t *text) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", value.Line)
	}
	*t = text(strings.TrimSpace(value.Value))
	return nil
}

type rawTiming struct {
	StartTime *Seconds `yaml:"startTime"`
	Duration  *Seconds `yaml:"duration"`
	EndTime   *Seconds `yaml:"endTime"`
	FadeIn    *Seconds `yaml:"fadeIn"`
	FadeOut   *Seconds `yaml:"fadeOut"`
	Shortcut  text     `yaml:"shortcut"`
}

type rawSample struct {
	Ref       text `yaml:"ref"`
	Title     text `yaml:"title"`
	rawTiming `yaml:",inline"`
}

type rawDeclaration struct {
	Ref            text        `yaml:"ref"`
	UUID           text        `yaml:"uuid"`
	Title          text        `yaml:"title"`
	Artist         text        `yaml:"artist"`
	Composer       text        `yaml:"composer"`
	CreationDate   text        `yaml:"creationDate"`
	Year           text        `yaml:"year"`
	Extension      text        `yaml:"extension"`
	MultiPartCount int         `yaml:"multiPartCount"`
	PreviewImage   bool        `yaml:"previewImage"`
	HasWaveform    bool        `yaml:"hasWaveform"`
	Samples        []rawSample `yaml:"samples"`
	rawTiming      `yaml:",inline"`
}

// Decode parses one declaration. mediaPath is the slash separated path of
// the media file relative to the media root; it supplies filename and
// extension.
func Decode(data []byte, mediaPath string) (asset.Declaration, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return asset.Declaration{}, invalid(mediaPath, err)
	}
	if len(doc.Content) == 0 {
		return asset.Declaration{}, invalid(mediaPath, errors.New("empty document"))
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return asset.Declaration{}, invalid(mediaPath, fmt.Errorf("line %d: expected a mapping", root.Line))
	}

	var raw rawDeclaration
	if err := root.Decode(&raw); err != nil {
		return asset.Declaration{}, invalid(mediaPath, err)
	}
	var generic map[string]any
	if err := root.Decode(&generic); err != nil {
		return asset.Declaration{}, invalid(mediaPath, err)
	}

	id, err := canonicalUUID(string(raw.UUID))
	if err != nil {
		return asset.Declaration{}, invalid(mediaPath, err)
	}
	ref := mediauri.RemoveScheme(string(raw.Ref))
	if ref == "" {
		return asset.Declaration{}, invalid(mediaPath, asset.ErrMissingRef)
	}
	if raw.MultiPartCount < 0 {
		return asset.Declaration{}, invalid(mediaPath, fmt.Errorf("negative multiPartCount %d", raw.MultiPartCount))
	}

	mediaPath = filepath.ToSlash(mediaPath)
	decl := asset.Declaration{
		Ref:            ref,
		UUID:           id,
		Extension:      strings.ToLower(strings.TrimPrefix(string(raw.Extension), ".")),
		Filename:       path.Base(mediaPath),
		Path:           mediaPath,
		Title:          string(raw.Title),
		Artist:         string(raw.Artist),
		Composer:       string(raw.Composer),
		CreationDate:   string(raw.CreationDate),
		Year:           string(raw.Year),
		MultiPartCount: raw.MultiPartCount,
		PreviewImage:   raw.PreviewImage,
		HasWaveform:    raw.HasWaveform,
		Timing:         raw.rawTiming.declaration("", ""),
		Links:          links(generic, ref, id),
	}
	if decl.Extension == "" {
		decl.Extension = strings.ToLower(strings.TrimPrefix(path.Ext(decl.Filename), "."))
	}
	for _, sample := range raw.Samples {
		decl.Samples = append(decl.Samples, sample.declaration(string(sample.Ref), string(sample.Title)))
	}
	return decl, nil
}

// Read decodes a declaration from r.
func Read(r io.Reader, mediaPath string) (asset.Declaration, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return asset.Declaration{}, fmt.Errorf("read declaration %s: %w", mediaPath, err)
	}
	return Decode(buf.Bytes(), mediaPath)
}

// LoadFile decodes the declaration file at file. The media path is the
// declaration path without Suffix, relative to root.
func LoadFile(root, file string) (asset.Declaration, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return asset.Declaration{}, fmt.Errorf("read declaration: %w", err)
	}
	mediaFile := strings.TrimSuffix(file, Suffix)
	rel, err := filepath.Rel(root, mediaFile)
	if err != nil {
		rel = filepath.Base(mediaFile)
	}
	return Decode(data, filepath.ToSlash(rel))
}

// IsDeclarationFile reports whether name looks like `Name.ext.yml`.
func IsDeclarationFile(name string) bool {
	base := strings.TrimSuffix(filepath.Base(name), Suffix)
	return base != filepath.Base(name) && filepath.Ext(base) != ""
}

func (t rawTiming) declaration(ref, title string) asset.SampleDeclaration {
	return asset.SampleDeclaration{
		Ref:       ref,
		Title:     title,
		StartTime: t.StartTime.float(),
		Duration:  t.Duration.float(),
		EndTime:   t.EndTime.float(),
		FadeIn:    t.FadeIn.float(),
		FadeOut:   t.FadeOut.float(),
		Shortcut:  string(t.Shortcut),
	}
}

func canonicalUUID(raw string) (string, error) {
	raw = mediauri.RemoveScheme(strings.TrimSpace(raw))
	if raw == "" {
		return "", asset.ErrMissingUUID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("uuid %q: %w", raw, err)
	}
	return id.String(), nil
}

// links collects the media addresses mentioned anywhere in the declaration,
// skipping the asset's own addresses.
func links(generic map[string]any, ref, id string) []string {
	var out []string
	for _, uri := range mediauri.FindAll(generic) {
		name := mediauri.RemoveScheme(uri)
		if name == ref || name == id {
			continue
		}
		out = append(out, uri)
	}
	return out
}

func invalid(mediaPath string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidDeclaration, mediaPath, err)
}
