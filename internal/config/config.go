package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Engine names
const (
	EngineYTDLP  = "yt-dlp"
	EngineNative = "native"
)

// Log formats
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Environment overrides
const (
	EnvDownloadDir = "YTDL_SHELL_DOWNLOAD_DIR"
	EnvLogLevel    = "YTDL_SHELL_LOG_LEVEL"
	EnvEngine      = "YTDL_SHELL_ENGINE"
)

// Paths contains filesystem locations.
type Paths struct {
	DownloadDir string `toml:"download_dir"`
	LogFile     string `toml:"log_file"`
}

// Defaults contains the values used when a prompt or flag is left empty.
type Defaults struct {
	Quality      string `toml:"quality"`
	Format       string `toml:"format"`
	AudioCodec   string `toml:"audio_codec"`
	AudioQuality string `toml:"audio_quality"`
}

// Engine selects and tunes the media engine.
type Engine struct {
	Name              string `toml:"name"`
	YTDLPBinary       string `toml:"ytdlp_binary"`
	FFmpegBinary      string `toml:"ffmpeg_binary"`
	TimeoutSeconds    int    `toml:"timeout_seconds"` // 0 means no limit
	Retries           int    `toml:"retries"`         // transient failures only
	RetryDelaySeconds int    `toml:"retry_delay_seconds"`
	UserAgent         string `toml:"user_agent"`
	KeepSource        bool   `toml:"keep_source"` // keep the downloaded file after audio extraction
}

// Cache configures the metadata cache.
type Cache struct {
	InfoSize       int `toml:"info_size"`
	InfoTTLSeconds int `toml:"info_ttl_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ytdl-shell.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Defaults Defaults `toml:"defaults"`
	Engine   Engine   `toml:"engine"`
	Cache    Cache    `toml:"cache"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ytdl-shell/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// yields defaults. It returns the config, the resolved path and whether the
// file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ytdl-shell.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EngineTimeout returns the per-call engine timeout, zero for none.
func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.Engine.TimeoutSeconds) * time.Second
}

// RetryDelay returns the pause between retries.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Engine.RetryDelaySeconds) * time.Second
}

// InfoCacheTTL returns how long metadata stays cached.
func (c *Config) InfoCacheTTL() time.Duration {
	return time.Duration(c.Cache.InfoTTLSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
