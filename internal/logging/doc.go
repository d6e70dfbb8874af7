// Package logging builds the zerolog loggers used across ytdl-shell.
//
// It owns level parsing, the console/JSON output switch and the optional log
// file, so components only ever receive a ready zerolog.Logger and tag it with
// their own "component" field.
package logging
