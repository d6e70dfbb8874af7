// Package config loads, normalizes, and validates ytdl-shell configuration.
//
// It supplies defaults, reads an optional TOML file, applies YTDL_SHELL_*
// environment overrides and expands user paths, so the CLI receives one
// sanitized Config value.
package config
