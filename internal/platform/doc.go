package platform

// Package platform contains OS and external tooling glue: destination
// directory helpers and locking, yt-dlp JSON parsing, and playlist listing via
// the native ytdlp library.
