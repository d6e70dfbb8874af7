package download

import (
	"context"

	"github.com/ytget/ytdl-shell/internal/model"
)

// Downloader defines the interface for the download facade.
type Downloader interface {
	DownloadVideo(ctx context.Context, url, quality, format string) (*model.DownloadResult, error)
	DownloadAudioOnly(ctx context.Context, url, codec string) (*model.DownloadResult, error)

	// GetVideoInfo returns nil and the failure when metadata cannot be read
	GetVideoInfo(ctx context.Context, url string) (*model.VideoInfo, error)

	DownloadPlaylist(ctx context.Context, url, quality, format string) (*model.DownloadResult, error)

	// DownloadDirectory returns the destination shared by every request
	DownloadDirectory() string
}

var _ Downloader = (*Service)(nil)
