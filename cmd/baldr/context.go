package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"baldr/internal/config"
	"baldr/internal/logging"
	"baldr/internal/media/ffprobe"
	"baldr/internal/mediacache"
	"baldr/internal/mediaindex"
	"baldr/internal/resolver"
	"baldr/internal/schedule"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// loggerFor builds the invocation logger once. Console output goes to the
// command's stderr so tables and JSON on stdout stay clean.
func (c *commandContext) loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	})
	return c.logger, c.loggerErr
}

// invocationContext tags the command context with a fresh correlation ID.
func invocationContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithCorrelationID(ctx, uuid.NewString())
}

// session bundles what a resolving command needs: the indexed media
// directory and a resolver filling a fresh registry.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	index    *mediaindex.Index
	resolver *resolver.Resolver
}

func (c *commandContext) openSession(ctx context.Context, cmd *cobra.Command, sched schedule.Scheduler) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.loggerFor(cmd)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	index, err := mediaindex.Build(ctx, cfg.Paths.MediaDir, logger)
	if err != nil {
		return nil, fmt.Errorf("index media: %w", err)
	}
	prober := ffprobe.NewProber(cfg.FFprobe.Binary, cfg.FFprobeTimeout())
	res := resolver.New(index, mediacache.NewRegistry(logger), sched,
		resolver.WithHandleFactory(resolver.ProbedHandles(prober, cfg.Paths.MediaDir, sched, logger)),
		resolver.WithHTTPURL(cfg.HTTPURL),
		resolver.WithPlayDelay(cfg.PlayDelay()),
		resolver.WithLogger(logger),
	)
	logging.WithContext(ctx, logger).Debug("media indexed",
		logging.String("media_dir", cfg.Paths.MediaDir),
		logging.Int("declarations", index.Len()),
		logging.Int("skipped", len(index.Skipped())),
	)
	return &session{cfg: cfg, logger: logger, index: index, resolver: res}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
