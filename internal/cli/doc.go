// Package cli wires configuration, logging, the media engine and the download
// facade into the ytdl-shell cobra command tree. The root command runs the
// interactive shell; subcommands expose the same operations for scripting.
package cli
