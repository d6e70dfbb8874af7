package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	ytget "github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/v2/client"

	"github.com/ytget/ytdl-shell/internal/model"
	"github.com/ytget/ytdl-shell/internal/platform"
	"github.com/ytget/ytdl-shell/internal/transcode"
)

// Native defaults
const (
	DefaultNativeExt       = "mp4"
	DefaultNativeUserAgent = "ytdl-shell/1.0"
	nativeTempPrefix       = "ytdl-shell-"
)

// NativeConfig configures the in-process engine
type NativeConfig struct {
	Timeout   time.Duration
	Retries   int
	UserAgent string
}

// Native downloads through the in-process ytdlp library. It has no
// metadata-only mode and extracts audio with ffmpeg after download.
type Native struct {
	cfg       NativeConfig
	converter transcode.Converter
	playlists *platform.PlaylistParserService
	fetch     func(ctx context.Context, url, outputPath, quality, ext string) (string, error)
	logger    zerolog.Logger
}

// NewNative creates the in-process engine
func NewNative(cfg NativeConfig, converter transcode.Converter, logger zerolog.Logger) *Native {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultNativeUserAgent
	}
	n := &Native{
		cfg:       cfg,
		converter: converter,
		playlists: platform.NewPlaylistParserService(),
		logger:    logger.With().Str("component", "engine").Str("engine", NameNative).Logger(),
	}
	if cfg.Timeout > 0 {
		n.playlists.SetTimeout(cfg.Timeout)
	}
	n.fetch = n.fetchVideo
	return n
}

// Name returns the engine name
func (n *Native) Name() string {
	return NameNative
}

// ExtractInfo is not available without downloading the media
func (n *Native) ExtractInfo(_ context.Context, url string) (*Metadata, error) {
	return nil, newError(NameNative, "extract info", url, ErrUnsupported, "")
}

// Download fetches a single video, or every entry of a playlist URL unless
// NoPlaylist is set.
func (n *Native) Download(ctx context.Context, opts Options, url string) (*Download, error) {
	quality, ext := ParseFormat(opts.Format)
	if quality == "" {
		quality = model.DefaultQuality
	}
	if ext == "" {
		ext = DefaultNativeExt
	}

	if !opts.NoPlaylist && platform.IsPlaylistURL(url) {
		return n.downloadPlaylist(ctx, opts, url, quality, ext)
	}

	dir := templateDir(opts.OutputTemplate, "")
	title, files, err := n.downloadOne(ctx, opts, url, dir, quality, ext)
	if err != nil {
		return nil, err
	}
	return &Download{Title: title, Files: files}, nil
}

func (n *Native) downloadPlaylist(ctx context.Context, opts Options, url, quality, ext string) (*Download, error) {
	playlist, err := n.playlists.ParsePlaylist(ctx, url)
	if err != nil {
		return nil, newError(NameNative, "download", url, err, "")
	}

	dir := templateDir(opts.OutputTemplate, platform.SafeDirName(playlist.Title))
	out := &Download{Title: playlist.Title}
	for i, video := range playlist.Videos {
		n.logger.Info().
			Str("playlist", playlist.ID).
			Int("entry", i+1).
			Int("total", playlist.TotalVideos).
			Str("video_id", video.ID).
			Msg("downloading playlist entry")

		_, files, err := n.downloadOne(ctx, opts, video.URL, dir, quality, ext)
		if err != nil {
			return nil, err
		}
		out.Files = append(out.Files, files...)
	}
	return out, nil
}

// downloadOne stores one video under dir, named after its title, and applies
// audio extraction when requested.
func (n *Native) downloadOne(ctx context.Context, opts Options, url, dir, quality, ext string) (string, []string, error) {
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", nil, newError(NameNative, "download", url, err, "")
	}

	before, err := platform.SnapshotDir(dir)
	if err != nil {
		return "", nil, newError(NameNative, "download", url, err, "")
	}

	tempPath := filepath.Join(dir, nativeTempName(url)+"."+ext)
	n.logger.Debug().Str("url", url).Str("quality", quality).Str("ext", ext).Str("output", tempPath).Msg("starting native download")

	title, err := n.fetch(ctx, url, tempPath, quality, ext)
	if err != nil {
		return "", nil, newError(NameNative, "download", url, contextErr(ctx, err), "")
	}

	files, err := platform.NewFiles(dir, before)
	if err != nil {
		return "", nil, newError(NameNative, "download", url, err, "")
	}
	files = renameByTitle(files, tempPath, title)

	if pp, ok := opts.ExtractAudio(); ok {
		files, err = n.extractAudio(ctx, files, pp)
		if err != nil {
			return "", nil, newError(NameNative, "extract audio", url, err, "")
		}
	}
	return title, files, nil
}

func (n *Native) extractAudio(ctx context.Context, files []string, pp PostProcessor) ([]string, error) {
	if n.converter == nil {
		return nil, fmt.Errorf("%w: audio extraction requires ffmpeg", ErrUnsupported)
	}
	converted := make([]string, 0, len(files))
	for _, file := range files {
		out, err := n.converter.ExtractAudio(ctx, file, pp.PreferredCodec, pp.PreferredQuality)
		if err != nil {
			return nil, err
		}
		converted = append(converted, out)
	}
	return converted, nil
}

func (n *Native) fetchVideo(ctx context.Context, url, outputPath, quality, ext string) (string, error) {
	c := client.NewWith(client.Config{
		Timeout:   n.cfg.Timeout,
		Retries:   n.cfg.Retries,
		UserAgent: n.cfg.UserAgent,
	})
	info, err := ytget.New().
		WithHTTPClient(c.HTTPClient).
		WithFormat(quality, ext).
		WithOutputPath(outputPath).
		Download(ctx, url)
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", nil
	}
	return info.Title, nil
}

// templateDir resolves the directory part of an output template, substituting
// the playlist title placeholder. An unknown title becomes MissingFieldValue.
func templateDir(template, playlistTitle string) string {
	if playlistTitle == "" {
		playlistTitle = MissingFieldValue
	}
	dir := strings.ReplaceAll(filepath.Dir(template), PlaceholderPlaylistTitle, playlistTitle)
	if dir == "" {
		return "."
	}
	return dir
}

// renameByTitle moves the temporary download to "<title>.<ext>" next to it
func renameByTitle(files []string, tempPath, title string) []string {
	name := platform.SafeDirName(strings.TrimSpace(title))
	if name == "" {
		return files
	}
	target := filepath.Join(filepath.Dir(tempPath), name+filepath.Ext(tempPath))
	for i, file := range files {
		if file != tempPath {
			continue
		}
		if _, err := os.Stat(target); err == nil {
			return files
		}
		if err := os.Rename(tempPath, target); err == nil {
			files[i] = target
		}
	}
	return files
}

func nativeTempName(url string) string {
	if id := platform.ExtractVideoID(url); id != "" {
		return nativeTempPrefix + platform.SafeDirName(id)
	}
	return nativeTempPrefix + strconv.FormatInt(time.Now().UnixNano(), 10)
}
