package engine

import (
	"context"
	"time"
)

// Engine names accepted in configuration
const (
	NameYTDLP  = "yt-dlp"
	NameNative = "native"
)

// Post-processor keys
const (
	// KeyExtractAudio converts the downloaded media to an audio-only file
	KeyExtractAudio = "FFmpegExtractAudio"
)

// Output template placeholders
const (
	PlaceholderTitle         = "%(title)s"
	PlaceholderExt           = "%(ext)s"
	PlaceholderPlaylistTitle = "%(playlist_title)s"

	// MissingFieldValue replaces a placeholder whose field is unknown
	MissingFieldValue = "NA"
)

// PostProcessor is a directive applied by the engine after download
type PostProcessor struct {
	Key              string
	PreferredCodec   string
	PreferredQuality string
}

// Options is the configuration issued with a single engine invocation
type Options struct {
	OutputTemplate string
	Format         string
	PostProcessors []PostProcessor
	Quiet          bool
	NoPlaylist     bool
	Progress       ProgressFunc
}

// ExtractAudio returns the audio extraction directive, if present
func (o Options) ExtractAudio() (PostProcessor, bool) {
	for _, pp := range o.PostProcessors {
		if pp.Key == KeyExtractAudio {
			return pp, true
		}
	}
	return PostProcessor{}, false
}

// Progress is a download progress sample reported by the engine
type Progress struct {
	Title           string
	Filename        string
	DownloadedBytes int64
	TotalBytes      int64
	Started         time.Time
	ETA             time.Duration
}

// ProgressFunc receives progress samples during a download
type ProgressFunc func(Progress)

// Download is what the engine reports after a successful download call
type Download struct {
	Title string
	Files []string
}

// Metadata is the raw metadata snapshot reported by the engine.
// Nil fields were absent from the engine output.
type Metadata struct {
	ID         string
	Title      *string
	Duration   *float64
	Uploader   *string
	ViewCount  *int64
	UploadDate *string
}

// Engine performs one blocking download or metadata extraction per call
type Engine interface {
	Name() string
	Download(ctx context.Context, opts Options, url string) (*Download, error)
	ExtractInfo(ctx context.Context, url string) (*Metadata, error)
}
