package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/ytget/ytdl-shell/internal/download"
	"github.com/ytget/ytdl-shell/internal/model"
)

// Defaults are the values used when a prompt is answered with an empty line
type Defaults struct {
	Quality    string
	Format     string
	AudioCodec string
}

// Shell is the interactive menu loop
type Shell struct {
	downloader download.Downloader
	in         io.Reader
	out        io.Writer
	defaults   Defaults
	table      bool
	errColor   *color.Color
	okColor    *color.Color
	logger     zerolog.Logger

	lines <-chan string
}

// New creates a shell reading answers from in and writing to out
func New(downloader download.Downloader, in io.Reader, out io.Writer) *Shell {
	s := &Shell{
		downloader: downloader,
		in:         in,
		out:        out,
		defaults: Defaults{
			Quality:    model.DefaultQuality,
			Format:     model.DefaultVideoFormat,
			AudioCodec: model.DefaultAudioCodec,
		},
		errColor: color.New(color.FgRed),
		okColor:  color.New(color.FgGreen),
		logger:   zerolog.Nop(),
	}
	s.SetColor(false)
	return s
}

// SetDefaults replaces the prompt defaults; empty fields keep the current value
func (s *Shell) SetDefaults(d Defaults) {
	if d.Quality != "" {
		s.defaults.Quality = d.Quality
	}
	if d.Format != "" {
		s.defaults.Format = d.Format
	}
	if d.AudioCodec != "" {
		s.defaults.AudioCodec = d.AudioCodec
	}
}

// SetTable switches metadata output to a table
func (s *Shell) SetTable(enabled bool) {
	s.table = enabled
}

// SetColor toggles colored status lines
func (s *Shell) SetColor(enabled bool) {
	for _, c := range []*color.Color{s.errColor, s.okColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// SetLogger sets the shell logger
func (s *Shell) SetLogger(logger zerolog.Logger) {
	s.logger = logger.With().Str("component", "shell").Logger()
}

// Run shows the menu until Exit is chosen, input ends, or ctx is cancelled.
// Exit and end of input return nil.
func (s *Shell) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	s.lines = scanLines(s.in, stop)

	for {
		PrintMenu(s.out)
		choice, err := s.prompt(ctx, PromptChoice)
		if err != nil {
			return s.finish(err)
		}

		s.logger.Debug().Str("choice", choice).Msg("menu selection")
		switch choice {
		case ChoiceVideo:
			err = s.videoAction(ctx)
		case ChoiceAudio:
			err = s.audioAction(ctx)
		case ChoiceInfo:
			err = s.infoAction(ctx)
		case ChoicePlaylist:
			err = s.playlistAction(ctx)
		case ChoiceCustom:
			err = s.customAction(ctx)
		case ChoiceExit:
			fmt.Fprintln(s.out, MsgGoodbye)
			return nil
		default:
			fmt.Fprintln(s.out, MsgInvalidChoice)
		}
		if err != nil {
			return s.finish(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// finish turns end of input into a clean exit
func (s *Shell) finish(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		return nil
	}
	return err
}

func (s *Shell) videoAction(ctx context.Context) error {
	url, err := s.prompt(ctx, PromptVideoURL)
	if err != nil || url == "" {
		return err
	}
	quality, err := s.promptDefault(ctx, PromptQualityTemplate, s.defaults.Quality)
	if err != nil {
		return err
	}
	s.runDownload(model.OperationVideo, url, MsgDownloading, MsgVideoDone, func() (*model.DownloadResult, error) {
		return s.downloader.DownloadVideo(ctx, url, quality, model.DefaultVideoFormat)
	})
	return nil
}

func (s *Shell) audioAction(ctx context.Context) error {
	url, err := s.prompt(ctx, PromptVideoURL)
	if err != nil || url == "" {
		return err
	}
	s.runDownload(model.OperationAudio, url, MsgDownloadingAudio, MsgAudioDone, func() (*model.DownloadResult, error) {
		return s.downloader.DownloadAudioOnly(ctx, url, s.defaults.AudioCodec)
	})
	return nil
}

func (s *Shell) infoAction(ctx context.Context) error {
	url, err := s.prompt(ctx, PromptVideoURL)
	if err != nil || url == "" {
		return err
	}
	info, err := s.downloader.GetVideoInfo(ctx, url)
	if err != nil {
		s.printError(model.OperationInfo, err)
		return nil
	}
	if info == nil {
		return nil
	}
	if s.table {
		PrintInfoTable(s.out, info)
	} else {
		PrintInfo(s.out, info)
	}
	return nil
}

func (s *Shell) playlistAction(ctx context.Context) error {
	url, err := s.prompt(ctx, PromptPlaylistURL)
	if err != nil || url == "" {
		return err
	}
	quality, err := s.promptDefault(ctx, PromptQualityTemplate, s.defaults.Quality)
	if err != nil {
		return err
	}
	s.runDownload(model.OperationPlaylist, url, MsgDownloadingPlaylist, MsgPlaylistDone, func() (*model.DownloadResult, error) {
		return s.downloader.DownloadPlaylist(ctx, url, quality, model.DefaultVideoFormat)
	})
	return nil
}

func (s *Shell) customAction(ctx context.Context) error {
	url, err := s.prompt(ctx, PromptVideoURL)
	if err != nil || url == "" {
		return err
	}
	quality, err := s.promptDefault(ctx, PromptCustomQuality, s.defaults.Quality)
	if err != nil {
		return err
	}
	format, err := s.promptDefault(ctx, PromptFormatTemplate, s.defaults.Format)
	if err != nil {
		return err
	}
	s.runDownload(model.OperationVideo, url, MsgDownloading, MsgVideoDone, func() (*model.DownloadResult, error) {
		return s.downloader.DownloadVideo(ctx, url, quality, format)
	})
	return nil
}

// runDownload announces, runs and reports one mutating operation
func (s *Shell) runDownload(kind model.OperationKind, url, startMsg, doneMsg string, fn func() (*model.DownloadResult, error)) {
	fmt.Fprintf(s.out, startMsg+"\n", url)
	result, err := fn()
	if err != nil {
		s.printError(kind, err)
		return
	}
	s.okColor.Fprintln(s.out, doneMsg)
	if result == nil {
		return
	}
	for _, file := range result.Files {
		fmt.Fprintf(s.out, MsgSaved+"\n", file)
	}
}

func (s *Shell) printError(kind model.OperationKind, err error) {
	s.logger.Debug().Err(err).Str("op", kind.String()).Msg("operation failed")
	s.errColor.Fprintf(s.out, MsgErrorTemplate+"\n", kind.Action(), err)
}

// prompt writes label and returns the trimmed answer
func (s *Shell) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(s.out, label)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// promptDefault prompts with the default filled into template
func (s *Shell) promptDefault(ctx context.Context, template, fallback string) (string, error) {
	answer, err := s.prompt(ctx, fmt.Sprintf(template, fallback))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

// scanLines feeds input lines to a channel, closing it at end of input.
// The reader goroutine gives up once stop is closed.
func scanLines(in io.Reader, stop <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
	}()
	return lines
}
