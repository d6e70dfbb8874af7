package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// Quality tokens understood by the engine's format selector
const (
	QualityBest  = "best"
	QualityWorst = "worst"
)

// Default request values
const (
	DefaultQuality      = QualityBest
	DefaultVideoFormat  = "mp4"
	DefaultAudioCodec   = "mp3"
	DefaultAudioQuality = "192"
)

var folder = cases.Fold()

// DownloadRequest describes a single video download
type DownloadRequest struct {
	URL     string
	Quality string // best, worst or a resolution token such as 720p
	Format  string // container extension such as mp4, webm, mkv
}

// AudioRequest describes an audio-only download with codec conversion
type AudioRequest struct {
	URL     string
	Codec   string // target codec such as mp3, wav, aac
	Quality string // target bitrate passed to the converter
}

// PlaylistRequest describes a whole-playlist download
type PlaylistRequest struct {
	URL     string
	Quality string
	Format  string
}

// NewDownloadRequest builds a normalized video request
func NewDownloadRequest(url, quality, format string) DownloadRequest {
	return DownloadRequest{
		URL:     strings.TrimSpace(url),
		Quality: NormalizeToken(quality, DefaultQuality),
		Format:  NormalizeToken(format, DefaultVideoFormat),
	}
}

// NewAudioRequest builds a normalized audio request
func NewAudioRequest(url, codec, quality string) AudioRequest {
	return AudioRequest{
		URL:     strings.TrimSpace(url),
		Codec:   NormalizeToken(codec, DefaultAudioCodec),
		Quality: NormalizeToken(quality, DefaultAudioQuality),
	}
}

// NewPlaylistRequest builds a normalized playlist request
func NewPlaylistRequest(url, quality, format string) PlaylistRequest {
	return PlaylistRequest{
		URL:     strings.TrimSpace(url),
		Quality: NormalizeToken(quality, DefaultQuality),
		Format:  NormalizeToken(format, DefaultVideoFormat),
	}
}

// NormalizeToken trims and case-folds a user supplied token, returning
// fallback when nothing is left.
func NormalizeToken(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return folder.String(value)
}
