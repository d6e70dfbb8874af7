package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ytget/ytdl-shell/internal/config"
	"github.com/ytget/ytdl-shell/internal/deps"
	"github.com/ytget/ytdl-shell/internal/download"
	"github.com/ytget/ytdl-shell/internal/engine"
	"github.com/ytget/ytdl-shell/internal/logging"
	"github.com/ytget/ytdl-shell/internal/platform"
	"github.com/ytget/ytdl-shell/internal/transcode"
)

// ErrMissingDependency is returned when a required executable is not installed
var ErrMissingDependency = errors.New("missing required dependency")

// EngineFactory builds the media engine for a loaded configuration
type EngineFactory func(cfg *config.Config, logger zerolog.Logger) engine.Engine

type commandContext struct {
	configFlag string
	dirFlag    string
	tableFlag  bool
	noColor    bool

	newEngine       EngineFactory
	playlistFetcher platform.PlaylistFetcher

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger    zerolog.Logger
	logCloser io.Closer
}

func newCommandContext() *commandContext {
	return &commandContext{
		newEngine: defaultEngine,
		logger:    zerolog.Nop(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if dir := strings.TrimSpace(c.dirFlag); dir != "" {
			expanded, err := config.ExpandPath(dir)
			if err != nil {
				c.configErr = fmt.Errorf("resolve --dir: %w", err)
				return
			}
			cfg.Paths.DownloadDir = expanded
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// setupLogging builds the logger once config is loaded
func (c *commandContext) setupLogging(stderr io.Writer) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, closer, err := logging.NewFromConfig(cfg, stderr, !c.colorEnabled(stderr))
	if err != nil {
		return err
	}
	c.logger = logger
	c.logCloser = closer
	return nil
}

func (c *commandContext) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close()
		c.logCloser = nil
	}
}

// checkDependencies fails with install instructions when yt-dlp is missing
func (c *commandContext) checkDependencies(stderr io.Writer) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	statuses := deps.CheckBinaries(deps.Requirements(cfg.Engine.Name, cfg.Engine.YTDLPBinary, cfg.Engine.FFmpegBinary))
	for _, s := range statuses {
		if !s.Available && s.Optional {
			c.logger.Warn().Str("dependency", s.Name).Str("detail", s.Detail).Msg("optional dependency unavailable")
		}
	}
	missing := deps.MissingRequired(statuses)
	if len(missing) == 0 {
		return nil
	}
	fmt.Fprintln(stderr, deps.InstallInstructions)
	names := make([]string, 0, len(missing))
	for _, s := range missing {
		names = append(names, s.Command)
	}
	return fmt.Errorf("%w: %s", ErrMissingDependency, strings.Join(names, ", "))
}

// newService builds the download facade from config
func (c *commandContext) newService() (*download.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	svc, err := download.NewService(cfg.Paths.DownloadDir, c.newEngine(cfg, c.logger))
	if err != nil {
		return nil, err
	}
	svc.SetLogger(c.logger)
	svc.SetRetryPolicy(cfg.Engine.Retries, cfg.RetryDelay())
	svc.SetInfoCache(cfg.Cache.InfoSize, cfg.InfoCacheTTL())
	svc.SetAudioQuality(cfg.Defaults.AudioQuality)
	return svc, nil
}

func (c *commandContext) colorEnabled(w io.Writer) bool {
	return !c.noColor && isTerminal(w)
}

func defaultEngine(cfg *config.Config, logger zerolog.Logger) engine.Engine {
	if cfg.Engine.Name == config.EngineNative {
		converter := newConverter(cfg, logger)
		return engine.NewNative(engine.NativeConfig{
			Timeout:   cfg.EngineTimeout(),
			Retries:   cfg.Engine.Retries,
			UserAgent: cfg.Engine.UserAgent,
		}, converter, logger)
	}
	return engine.NewYTDLP(cfg.Engine.YTDLPBinary, cfg.EngineTimeout(), logger)
}

func newConverter(cfg *config.Config, logger zerolog.Logger) *transcode.Service {
	converter := transcode.NewService(cfg.Engine.FFmpegBinary, logger)
	converter.SetKeepInput(cfg.Engine.KeepSource)
	return converter
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[annotationSkipConfig] == "true" {
			return true
		}
	}
	return false
}

func shouldSkipDependencyCheck(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[annotationSkipDeps] == "true" {
			return true
		}
	}
	return false
}
