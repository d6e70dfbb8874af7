package download

import (
	"fmt"
	"path/filepath"

	"github.com/ytget/ytdl-shell/internal/engine"
	"github.com/ytget/ytdl-shell/internal/model"
)

// Format expressions
const (
	FormatSelectorTemplate = "%s[ext=%s]/best[ext=%s]/best"
	AudioFormatSelector    = "bestaudio/best"
)

// BuildFormatSelector returns the fallback chain: requested quality in the
// requested container, then best in that container, then best overall.
func BuildFormatSelector(quality, format string) string {
	return fmt.Sprintf(FormatSelectorTemplate, quality, format, format)
}

// VideoOutputTemplate names files after the media title inside dest
func VideoOutputTemplate(dest string) string {
	return filepath.Join(dest, engine.PlaceholderTitle+"."+engine.PlaceholderExt)
}

// PlaylistOutputTemplate nests files in a directory named after the playlist
func PlaylistOutputTemplate(dest string) string {
	return filepath.Join(dest, engine.PlaceholderPlaylistTitle, engine.PlaceholderTitle+"."+engine.PlaceholderExt)
}

func videoOptions(dest string, req model.DownloadRequest) engine.Options {
	return engine.Options{
		OutputTemplate: VideoOutputTemplate(dest),
		Format:         BuildFormatSelector(req.Quality, req.Format),
	}
}

func audioOptions(dest string, req model.AudioRequest) engine.Options {
	return engine.Options{
		OutputTemplate: VideoOutputTemplate(dest),
		Format:         AudioFormatSelector,
		PostProcessors: []engine.PostProcessor{{
			Key:              engine.KeyExtractAudio,
			PreferredCodec:   req.Codec,
			PreferredQuality: req.Quality,
		}},
	}
}

func playlistOptions(dest string, req model.PlaylistRequest) engine.Options {
	return engine.Options{
		OutputTemplate: PlaylistOutputTemplate(dest),
		Format:         BuildFormatSelector(req.Quality, req.Format),
	}
}

// toVideoInfo maps engine metadata, substituting NotAvailable for missing text
func toVideoInfo(md *engine.Metadata) *model.VideoInfo {
	return &model.VideoInfo{
		Title:      valueOr(md.Title, model.NotAvailable),
		Duration:   md.Duration,
		Uploader:   valueOr(md.Uploader, model.NotAvailable),
		ViewCount:  md.ViewCount,
		UploadDate: valueOr(md.UploadDate, model.NotAvailable),
	}
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
