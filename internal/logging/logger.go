package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ytget/ytdl-shell/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level   string
	Format  string
	File    string    // optional; appended to alongside Output
	Output  io.Writer // defaults to stderr
	NoColor bool
}

// New constructs a zerolog logger. The returned closer releases the log file
// and is never nil.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = config.LogFormatConsole
	}

	var writer io.Writer
	switch format {
	case config.LogFormatConsole:
		writer = zerolog.ConsoleWriter{Out: out, NoColor: opts.NoColor, TimeFormat: time.TimeOnly}
	case config.LogFormatJSON:
		writer = out
	default:
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	if path := strings.TrimSpace(opts.File); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		writer = zerolog.MultiLevelWriter(writer, file)
		closer = file
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// NewFromConfig creates a logger from the [logging] and [paths] sections.
func NewFromConfig(cfg *config.Config, out io.Writer, noColor bool) (zerolog.Logger, io.Closer, error) {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return New(Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		File:    cfg.Paths.LogFile,
		Output:  out,
		NoColor: noColor,
	})
}

// ParseLevel maps a configured level name to a zerolog level. Empty means warn.
func ParseLevel(level string) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "" || name == "warning" {
		return zerolog.WarnLevel, nil
	}
	parsed, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return parsed, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
