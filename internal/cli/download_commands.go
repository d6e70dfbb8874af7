package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ytget/ytdl-shell/internal/download"
	"github.com/ytget/ytdl-shell/internal/model"
	"github.com/ytget/ytdl-shell/internal/platform"
	"github.com/ytget/ytdl-shell/internal/shell"
)

func newVideoCommand(ctx *commandContext) *cobra.Command {
	var quality, format string
	cmd := &cobra.Command{
		Use:   "video URL",
		Short: "Download a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, done, err := ctx.commandService(cmd)
			if err != nil {
				return err
			}
			defer done()
			url := args[0]
			return reportDownload(cmd.OutOrStdout(), model.OperationVideo, url, shell.MsgDownloading, shell.MsgVideoDone, func() (*model.DownloadResult, error) {
				return svc.DownloadVideo(cmd.Context(), url, orDefault(quality, cfg.Defaults.Quality), orDefault(format, cfg.Defaults.Format))
			})
		},
	}
	cmd.Flags().StringVarP(&quality, "quality", "q", "", "Quality: best, worst or a height such as 720p")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Container: mp4, webm or mkv")
	return cmd
}

func newAudioCommand(ctx *commandContext) *cobra.Command {
	var codec string
	cmd := &cobra.Command{
		Use:   "audio URL",
		Short: "Download the audio track of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, done, err := ctx.commandService(cmd)
			if err != nil {
				return err
			}
			defer done()
			url := args[0]
			return reportDownload(cmd.OutOrStdout(), model.OperationAudio, url, shell.MsgDownloadingAudio, shell.MsgAudioDone, func() (*model.DownloadResult, error) {
				return svc.DownloadAudioOnly(cmd.Context(), url, orDefault(codec, cfg.Defaults.AudioCodec))
			})
		},
	}
	cmd.Flags().StringVar(&codec, "codec", "", "Audio codec: mp3, wav, aac, m4a, opus, flac")
	return cmd
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asTable bool
	cmd := &cobra.Command{
		Use:   "info URL",
		Short: "Show video metadata without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.newService()
			if err != nil {
				return err
			}
			info, err := svc.GetVideoInfo(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", model.OperationInfo.Action(), err)
			}
			if asTable {
				shell.PrintInfoTable(cmd.OutOrStdout(), info)
			} else {
				shell.PrintInfo(cmd.OutOrStdout(), info)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asTable, "table", false, "Render the metadata as a table")
	return cmd
}

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var quality, format string
	var listOnly bool
	cmd := &cobra.Command{
		Use:   "playlist URL",
		Short: "Download every video of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			if listOnly {
				return listPlaylist(cmd, ctx, url)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, done, err := ctx.commandService(cmd)
			if err != nil {
				return err
			}
			defer done()
			return reportDownload(cmd.OutOrStdout(), model.OperationPlaylist, url, shell.MsgDownloadingPlaylist, shell.MsgPlaylistDone, func() (*model.DownloadResult, error) {
				return svc.DownloadPlaylist(cmd.Context(), url, orDefault(quality, cfg.Defaults.Quality), orDefault(format, cfg.Defaults.Format))
			})
		},
	}
	cmd.Flags().StringVarP(&quality, "quality", "q", "", "Quality: best, worst or a height such as 720p")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Container: mp4, webm or mkv")
	cmd.Flags().BoolVar(&listOnly, "list", false, "List the playlist entries instead of downloading")
	return cmd
}

// listPlaylist prints the playlist entries as a table
func listPlaylist(cmd *cobra.Command, ctx *commandContext, url string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	parser := ctx.newPlaylistParser()
	if timeout := cfg.EngineTimeout(); timeout > 0 {
		parser.SetTimeout(timeout)
	}
	playlist, err := parser.ParsePlaylist(cmd.Context(), url)
	if err != nil {
		return fmt.Errorf("list playlist: %w", err)
	}
	out := cmd.OutOrStdout()
	if playlist.IsEmpty() {
		fmt.Fprintf(out, "Playlist %s has no entries\n", playlist.ID)
		return nil
	}
	rows := make([][]string, 0, len(playlist.Videos))
	for i, v := range playlist.Videos {
		rows = append(rows, []string{strconv.Itoa(i + 1), v.Title, v.URL})
	}
	fmt.Fprintln(out, playlist.Title)
	fmt.Fprintln(out, shell.RenderTable([]string{"#", "Title", "URL"}, rows, []shell.Alignment{shell.AlignRight, shell.AlignLeft, shell.AlignLeft}))
	return nil
}

// commandService builds the facade with a progress bar when stderr is a terminal
func (c *commandContext) commandService(cmd *cobra.Command) (download.Downloader, func(), error) {
	svc, err := c.newService()
	if err != nil {
		return nil, nil, err
	}
	if !isTerminal(cmd.ErrOrStderr()) {
		return svc, func() {}, nil
	}
	reporter := newProgressReporter(cmd.ErrOrStderr())
	svc.SetProgressFunc(reporter.Report)
	return svc, reporter.Finish, nil
}

func (c *commandContext) newPlaylistParser() *platform.PlaylistParserService {
	parser := platform.NewPlaylistParserService()
	if c.playlistFetcher != nil {
		parser.SetFetcher(c.playlistFetcher)
	}
	return parser
}

// reportDownload prints the same lines as the interactive shell and returns
// the failure so the process exits non-zero
func reportDownload(out io.Writer, kind model.OperationKind, url, startMsg, doneMsg string, fn func() (*model.DownloadResult, error)) error {
	fmt.Fprintf(out, startMsg+"\n", url)
	result, err := fn()
	if err != nil {
		return fmt.Errorf("%s: %w", kind.Action(), err)
	}
	fmt.Fprintln(out, doneMsg)
	if result != nil {
		for _, file := range result.Files {
			fmt.Fprintf(out, shell.MsgSaved+"\n", file)
		}
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
