package engine

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/ytget/ytdl-shell/internal/platform"
)

// DefaultProgressInterval is how often yt-dlp progress is sampled
const DefaultProgressInterval = 500 * time.Millisecond

// YTDLP drives the yt-dlp executable
type YTDLP struct {
	binary  string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewYTDLP creates a yt-dlp engine. An empty binary resolves "yt-dlp" from PATH.
func NewYTDLP(binary string, timeout time.Duration, logger zerolog.Logger) *YTDLP {
	if strings.TrimSpace(binary) == "" {
		binary = NameYTDLP
	}
	return &YTDLP{
		binary:  binary,
		timeout: timeout,
		logger:  logger.With().Str("component", "engine").Str("engine", NameYTDLP).Logger(),
	}
}

// Name returns the engine name
func (y *YTDLP) Name() string {
	return NameYTDLP
}

// Binary returns the configured executable
func (y *YTDLP) Binary() string {
	return y.binary
}

// Download runs one blocking yt-dlp download
func (y *YTDLP) Download(ctx context.Context, opts Options, url string) (*Download, error) {
	executable, err := y.resolve()
	if err != nil {
		return nil, newError(NameYTDLP, "download", url, err, "")
	}

	ctx, cancel := y.withTimeout(ctx)
	defer cancel()

	dl := y.buildDownloadCommand(executable, opts)
	y.logger.Debug().Str("url", url).Str("format", opts.Format).Str("output", opts.OutputTemplate).Msg("starting yt-dlp download")

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, newError(NameYTDLP, "download", url, contextErr(ctx, err), resultStderr(result))
	}

	out := &Download{}
	if result != nil {
		if infos, perr := result.GetExtractedInfo(); perr == nil {
			for _, info := range infos {
				if info.Filename != nil && *info.Filename != "" {
					out.Files = append(out.Files, *info.Filename)
				}
				if out.Title == "" && info.Title != nil {
					out.Title = *info.Title
				}
			}
		} else {
			y.logger.Debug().Err(perr).Msg("no extracted info in yt-dlp output")
		}
	}
	return out, nil
}

// ExtractInfo runs yt-dlp in metadata-only mode
func (y *YTDLP) ExtractInfo(ctx context.Context, url string) (*Metadata, error) {
	executable, err := y.resolve()
	if err != nil {
		return nil, newError(NameYTDLP, "extract info", url, err, "")
	}

	ctx, cancel := y.withTimeout(ctx)
	defer cancel()

	dl := ytdlp.New().
		SetExecutable(executable).
		Quiet().
		NoWarnings().
		NoPlaylist().
		SkipDownload().
		DumpJSON()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, newError(NameYTDLP, "extract info", url, contextErr(ctx, err), resultStderr(result))
	}

	infos, err := platform.ParseYTDLPJSON(result.Stdout)
	if err != nil {
		return nil, newError(NameYTDLP, "extract info", url, err, result.Stderr)
	}

	info := infos[0]
	return &Metadata{
		ID:         info.ID,
		Title:      info.Title,
		Duration:   info.Duration,
		Uploader:   info.Uploader,
		ViewCount:  info.ViewCount,
		UploadDate: info.UploadDate,
	}, nil
}

// buildDownloadCommand translates Options into a yt-dlp command
func (y *YTDLP) buildDownloadCommand(executable string, opts Options) *ytdlp.Command {
	dl := ytdlp.New().
		SetExecutable(executable).
		NoWarnings().
		PrintJSON()

	if opts.OutputTemplate != "" {
		dl = dl.Output(opts.OutputTemplate)
	}
	if opts.Format != "" {
		dl = dl.Format(opts.Format)
	}
	if opts.NoPlaylist {
		dl = dl.NoPlaylist()
	}
	if opts.Quiet {
		dl = dl.Quiet()
	}
	if pp, ok := opts.ExtractAudio(); ok {
		dl = dl.ExtractAudio()
		if pp.PreferredCodec != "" {
			dl = dl.AudioFormat(pp.PreferredCodec)
		}
		if pp.PreferredQuality != "" {
			dl = dl.AudioQuality(pp.PreferredQuality)
		}
	}
	if opts.Progress != nil {
		report := opts.Progress
		dl = dl.ProgressFunc(DefaultProgressInterval, func(update ytdlp.ProgressUpdate) {
			report(convertProgress(update))
		})
	}
	return dl
}

// resolve locates the executable, failing with ErrNotFound
func (y *YTDLP) resolve() (string, error) {
	path, err := exec.LookPath(y.binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, y.binary)
	}
	return path, nil
}

func (y *YTDLP) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if y.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, y.timeout)
}

func convertProgress(update ytdlp.ProgressUpdate) Progress {
	p := Progress{
		Filename:        update.Filename,
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		Started:         update.Started,
		ETA:             update.ETA(),
	}
	if update.Info != nil && update.Info.Title != nil {
		p.Title = *update.Info.Title
	}
	return p
}

// contextErr prefers the context's error when the run was cut short by it
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

func resultStderr(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	return result.Stderr
}
