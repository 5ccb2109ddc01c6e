package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"baldr/internal/logging"
	"baldr/internal/metadata"
	"baldr/internal/playback"
	"baldr/internal/schedule"
)

const progressInterval = 100 * time.Millisecond

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var volume float64
	var seek float64

	cmd := &cobra.Command{
		Use:   "play <sample-uri>",
		Short: "Play a sample through its fades on a simulated media element",
		Long: "Play resolves the sample, fades it in, and fades it out before the\n" +
			"segment end. Addresses without fragment play the complete sample.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(invocationContext(cmd), os.Interrupt)
			defer stop()

			loop := schedule.NewLoop()
			sess, err := ctx.openSession(runCtx, cmd, loop)
			if err != nil {
				return err
			}
			sample, err := sess.resolver.ResolveSample(runCtx, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("volume") {
				volume = sess.cfg.Playback.TargetVolume
			}
			if volume <= 0 || volume > 1 {
				return fmt.Errorf("volume must be in (0, 1], got %g", volume)
			}
			if seek < 0 {
				return fmt.Errorf("seek must not be negative, got %g", seek)
			}

			logging.WithContext(runCtx, sess.logger).Info("playback requested",
				logging.String(logging.FieldSample, sample.Ref()),
				logging.Float64("volume", volume),
				logging.Float64("seek", seek),
			)
			return runPlayback(runCtx, cmd.OutOrStdout(), loop, sample, volume, seek)
		},
	}

	cmd.Flags().Float64Var(&volume, "volume", 1, "Target volume in (0, 1]; defaults to playback.target_volume")
	cmd.Flags().Float64Var(&seek, "seek", 0, "Start position in seconds from the sample start")
	return cmd
}

// runPlayback drives sample on loop until it has faded out, the media ended,
// or ctx is cancelled.
func runPlayback(ctx context.Context, out io.Writer, loop *schedule.Loop, sample *playback.Sample, volume, seek float64) error {
	reporter := newProgressReporter(out, sample)
	unsubscribe := sample.Subscribe(func(evt playback.Event) {
		reporter.event(evt)
		if evt == playback.EventFadeOutEnd {
			loop.Stop()
		}
	})
	defer unsubscribe()

	fmt.Fprintf(out, "Playing %s [%s]\n", sample.TitleSafe(), sample.Ref())

	var ticker schedule.Timer
	loop.Post(func() {
		if seek > 0 {
			sample.Play(volume, playback.At(seek))
		} else {
			sample.Start(volume)
		}
		ticker = loop.Every(progressInterval, func() {
			reporter.progress()
			if reporter.started && sample.Handle().Paused() {
				loop.Stop()
			}
		})
	})

	err := loop.Run(ctx)
	if ticker != nil {
		ticker.Stop()
	}
	reporter.breakLine()
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(out, "Playback interrupted")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Finished at %s\n", metadata.FormatDuration(sample.CurrentTime()))
	return nil
}

// progressReporter prints fade events and playback position. Terminals get a
// single rewritten status line; other writers get one line per 10% step.
type progressReporter struct {
	out      io.Writer
	sample   *playback.Sample
	sampler  *logging.ProgressSampler
	terminal bool
	started  bool
	inline   bool
}

func newProgressReporter(out io.Writer, sample *playback.Sample) *progressReporter {
	terminal := false
	if f, ok := out.(*os.File); ok {
		terminal = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &progressReporter{
		out:      out,
		sample:   sample,
		sampler:  logging.NewProgressSampler(10),
		terminal: terminal,
	}
}

func (r *progressReporter) event(evt playback.Event) {
	if evt == playback.EventFadeInBegin {
		r.started = true
	}
	r.breakLine()
	fmt.Fprintf(r.out, "%s  %s\n", metadata.FormatDuration(r.sample.CurrentTime()), evt)
}

func (r *progressReporter) progress() {
	if !r.started {
		return
	}
	percent := r.sample.Progress() * 100
	line := fmt.Sprintf("%s / %s  %3.0f%%  volume %.2f  %s",
		metadata.FormatDuration(r.sample.CurrentTime()),
		metadata.FormatDuration(r.sample.Duration()),
		percent,
		r.sample.Volume(),
		r.sample.State(),
	)
	if r.terminal {
		fmt.Fprintf(r.out, "\r%s", line)
		r.inline = true
		return
	}
	if r.sampler.ShouldLog(percent, "") {
		fmt.Fprintln(r.out, line)
	}
}

func (r *progressReporter) breakLine() {
	if r.inline {
		fmt.Fprintln(r.out)
		r.inline = false
	}
}
