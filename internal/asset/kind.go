package asset

import "strings"

// Kind is the broad media type derived from a file extension.
type Kind string

const (
	KindImage    Kind = "image"
	KindAudio    Kind = "audio"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

var extensionKinds = map[string]Kind{
	"mp3":  KindAudio,
	"m4a":  KindAudio,
	"wav":  KindAudio,
	"ogg":  KindAudio,
	"oga":  KindAudio,
	"flac": KindAudio,
	"opus": KindAudio,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"png":  KindImage,
	"gif":  KindImage,
	"svg":  KindImage,
	"webp": KindImage,
	"mp4":  KindVideo,
	"webm": KindVideo,
	"mkv":  KindVideo,
	"mov":  KindVideo,
}

// KindFromExtension maps a file extension (with or without the dot) to its
// kind. Unknown extensions are documents.
func KindFromExtension(ext string) Kind {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	return KindDocument
}

// Playable reports whether media of this kind has a timeline.
func (k Kind) Playable() bool {
	return k == KindAudio || k == KindVideo
}

// Visible reports whether media of this kind renders on screen.
func (k Kind) Visible() bool {
	return k == KindImage || k == KindVideo
}
