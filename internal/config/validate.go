package config

import (
	"errors"
	"fmt"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEngine() error {
	switch c.Engine.Name {
	case EngineYTDLP, EngineNative:
	default:
		return fmt.Errorf("engine.name must be %q or %q, got %q", EngineYTDLP, EngineNative, c.Engine.Name)
	}
	if c.Engine.TimeoutSeconds < 0 {
		return errors.New("engine.timeout_seconds must be >= 0")
	}
	if c.Engine.Retries < 0 {
		return errors.New("engine.retries must be >= 0")
	}
	if c.Engine.RetryDelaySeconds < 0 {
		return errors.New("engine.retry_delay_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.InfoSize < 0 {
		return errors.New("cache.info_size must be >= 0")
	}
	if c.Cache.InfoTTLSeconds < 0 {
		return errors.New("cache.info_ttl_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", LogFormatConsole, LogFormatJSON, c.Logging.Format)
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
