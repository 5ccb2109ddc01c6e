package resolver

import (
	"context"
	"log/slog"
	"path/filepath"

	"baldr/internal/asset"
	"baldr/internal/logging"
	"baldr/internal/media/ffprobe"
	"baldr/internal/playback"
)

// HandleFactory opens the media handle shared by all samples of a.
type HandleFactory func(ctx context.Context, a *asset.Asset) (playback.Handle, error)

// ProbedHandles returns simulated handles whose media length comes from
// ffprobe. When probing fails the longest declared segment end is used.
func ProbedHandles(prober *ffprobe.Prober, mediaDir string, clock playback.Clock, logger *slog.Logger) HandleFactory {
	logger = logging.NewComponentLogger(logger, "resolver")
	return func(ctx context.Context, a *asset.Asset) (playback.Handle, error) {
		path := filepath.Join(mediaDir, filepath.FromSlash(a.Path()))
		duration, err := prober.Duration(ctx, path)
		if err != nil {
			duration = declaredLength(a)
			logging.WarnWithContext(logging.WithContext(ctx, logger), "media duration probe failed", "duration_probe_failed",
				logging.String(logging.FieldAsset, a.Ref()),
				logging.String("path", path),
				logging.Float64("fallback_seconds", duration),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "install ffprobe or set ffprobe.binary in the config"),
				logging.String(logging.FieldImpact, "open-ended samples use the declared length"),
			)
		}
		return playback.NewMemoryHandle(clock, duration), nil
	}
}

// FixedHandles returns simulated handles of one media length.
func FixedHandles(clock playback.Clock, duration float64) HandleFactory {
	return func(context.Context, *asset.Asset) (playback.Handle, error) {
		return playback.NewMemoryHandle(clock, duration), nil
	}
}

func declaredLength(a *asset.Asset) float64 {
	longest := 0.0
	for _, spec := range a.Samples() {
		longest = max(longest, spec.Start+spec.Duration)
	}
	return longest
}
