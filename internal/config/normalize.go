package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDefaults()
	c.normalizeEngine()
	c.normalizeLogging()
	return nil
}

// applyEnv lets YTDL_SHELL_* variables override file values
func (c *Config) applyEnv() {
	if value, ok := lookupEnv(EnvDownloadDir); ok {
		c.Paths.DownloadDir = value
	}
	if value, ok := lookupEnv(EnvLogLevel); ok {
		c.Logging.Level = value
	}
	if value, ok := lookupEnv(EnvEngine); ok {
		c.Engine.Name = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		c.Paths.DownloadDir = defaultDownloadDir
	}
	if c.Paths.DownloadDir, err = expandPath(strings.TrimSpace(c.Paths.DownloadDir)); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if c.Paths.LogFile, err = expandPath(strings.TrimSpace(c.Paths.LogFile)); err != nil {
		return fmt.Errorf("paths.log_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeDefaults() {
	c.Defaults.Quality = foldOr(c.Defaults.Quality, defaultQuality)
	c.Defaults.Format = foldOr(c.Defaults.Format, defaultFormat)
	c.Defaults.AudioCodec = foldOr(c.Defaults.AudioCodec, defaultAudioCodec)
	c.Defaults.AudioQuality = foldOr(c.Defaults.AudioQuality, defaultAudioQuality)
}

func (c *Config) normalizeEngine() {
	c.Engine.Name = foldOr(c.Engine.Name, defaultEngine)
	if c.Engine.Name == "ytdlp" {
		c.Engine.Name = EngineYTDLP
	}
	c.Engine.YTDLPBinary = strings.TrimSpace(c.Engine.YTDLPBinary)
	if c.Engine.YTDLPBinary == "" {
		c.Engine.YTDLPBinary = defaultYTDLPBinary
	}
	c.Engine.FFmpegBinary = strings.TrimSpace(c.Engine.FFmpegBinary)
	if c.Engine.FFmpegBinary == "" {
		c.Engine.FFmpegBinary = defaultFFmpegBinary
	}
	c.Engine.UserAgent = strings.TrimSpace(c.Engine.UserAgent)
	if c.Engine.UserAgent == "" {
		c.Engine.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = foldOr(c.Logging.Format, defaultLogFormat)
	c.Logging.Level = foldOr(c.Logging.Level, defaultLogLevel)
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
}

func foldOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return folder.String(value)
}
