package download

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ytget/ytdl-shell/internal/engine"
	"github.com/ytget/ytdl-shell/internal/model"
	"github.com/ytget/ytdl-shell/internal/platform"
)

// Service handles download operations against one destination directory
type Service struct {
	downloadDir  string
	engine       engine.Engine
	lock         *platform.DestinationLock
	retry        *retrier
	cache        *infoCache
	audioQuality string
	progress     engine.ProgressFunc
	logger       zerolog.Logger
}

// NewService creates the facade, creating downloadDir when it is missing
func NewService(downloadDir string, eng engine.Engine) (*Service, error) {
	if eng == nil {
		return nil, fmt.Errorf("download service requires an engine")
	}
	if err := platform.CreateDirectoryIfNotExists(downloadDir); err != nil {
		return nil, fmt.Errorf("create download directory %s: %w", downloadDir, err)
	}
	return &Service{
		downloadDir:  downloadDir,
		engine:       eng,
		lock:         platform.NewDestinationLock(downloadDir),
		audioQuality: model.DefaultAudioQuality,
		logger:       zerolog.Nop(),
	}, nil
}

// SetLogger sets the logger used for operation lines
func (s *Service) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "download").Str("engine", s.engine.Name()).Logger()
}

// SetRetryPolicy enables retrying transient engine failures. Zero retries
// keeps single-attempt behavior.
func (s *Service) SetRetryPolicy(maxRetries int, delay time.Duration) {
	s.retry = newRetrier(maxRetries, delay, s.logger)
}

// SetInfoCache enables metadata caching per URL. A size of zero disables it.
func (s *Service) SetInfoCache(size int, ttl time.Duration) {
	s.cache = newInfoCache(size, ttl)
}

// SetAudioQuality sets the bitrate requested from audio extraction
func (s *Service) SetAudioQuality(quality string) {
	s.audioQuality = model.NormalizeToken(quality, model.DefaultAudioQuality)
}

// SetProgressFunc sets the callback receiving download progress
func (s *Service) SetProgressFunc(fn engine.ProgressFunc) {
	s.progress = fn
}

// DownloadDirectory returns the destination directory
func (s *Service) DownloadDirectory() string {
	return s.downloadDir
}

// DownloadVideo downloads a single video in the requested quality and container
func (s *Service) DownloadVideo(ctx context.Context, url, quality, format string) (*model.DownloadResult, error) {
	req := model.NewDownloadRequest(url, quality, format)
	return s.download(ctx, model.OperationVideo, req.URL, videoOptions(s.downloadDir, req))
}

// DownloadAudioOnly downloads the best audio stream and converts it to codec
func (s *Service) DownloadAudioOnly(ctx context.Context, url, codec string) (*model.DownloadResult, error) {
	req := model.NewAudioRequest(url, codec, s.audioQuality)
	return s.download(ctx, model.OperationAudio, req.URL, audioOptions(s.downloadDir, req))
}

// DownloadPlaylist downloads every entry of a playlist into a subdirectory
// named after the playlist.
func (s *Service) DownloadPlaylist(ctx context.Context, url, quality, format string) (*model.DownloadResult, error) {
	req := model.NewPlaylistRequest(url, quality, format)
	return s.download(ctx, model.OperationPlaylist, req.URL, playlistOptions(s.downloadDir, req))
}

// GetVideoInfo reads metadata without downloading. On failure it returns nil.
func (s *Service) GetVideoInfo(ctx context.Context, url string) (*model.VideoInfo, error) {
	requestID := newRequestID()
	logger := s.opLogger(requestID, model.OperationInfo, url)

	if info, ok := s.cache.get(url); ok {
		logger.Debug().Msg("metadata served from cache")
		return info, nil
	}

	logger.Info().Msg("reading metadata")
	var md *engine.Metadata
	err := s.retry.run(ctx, func() error {
		var err error
		md, err = s.engine.ExtractInfo(ctx, url)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Bool("transient", engine.IsTransient(err)).Msg("metadata lookup failed")
		return nil, err
	}
	if md == nil {
		return nil, fmt.Errorf("engine returned no metadata for %s", url)
	}

	info := toVideoInfo(md)
	s.cache.set(url, info)
	logger.Info().Str("title", info.Title).Msg("metadata read")
	return info, nil
}

// download runs one engine call, holding the destination lock for operations
// that write into it
func (s *Service) download(ctx context.Context, kind model.OperationKind, url string, opts engine.Options) (*model.DownloadResult, error) {
	requestID := newRequestID()
	logger := s.opLogger(requestID, kind, url)

	if kind.IsMutating() {
		if err := s.lock.Acquire(); err != nil {
			logger.Error().Err(err).Str("lock", s.lock.Path()).Msg("destination unavailable")
			return nil, err
		}
		defer func() {
			if err := s.lock.Release(); err != nil {
				logger.Warn().Err(err).Msg("failed to release destination lock")
			}
		}()
	}

	opts.Progress = s.progress
	result := &model.DownloadResult{
		RequestID: requestID,
		Kind:      kind,
		URL:       url,
		StartedAt: time.Now(),
	}

	logger.Info().Str("format", opts.Format).Str("output", opts.OutputTemplate).Msg("starting")
	var dl *engine.Download
	err := s.retry.run(ctx, func() error {
		var err error
		dl, err = s.engine.Download(ctx, opts, url)
		return err
	})
	result.FinishedAt = time.Now()
	if err != nil {
		logger.Error().Err(err).Bool("transient", engine.IsTransient(err)).Dur("elapsed", result.Elapsed()).Msg("failed")
		return nil, err
	}

	if dl != nil {
		result.Title = dl.Title
		result.Files = dl.Files
	}
	logger.Info().Str("title", result.GetDisplayTitle()).Int("files", len(result.Files)).Dur("elapsed", result.Elapsed()).Msg("completed")
	return result, nil
}

func (s *Service) opLogger(requestID string, kind model.OperationKind, url string) zerolog.Logger {
	return s.logger.With().Str("request_id", requestID).Str("op", kind.String()).Str("url", url).Logger()
}

// newRequestID returns a time-ordered id, falling back to a random one
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
