package cli

import (
	"github.com/spf13/cobra"

	"github.com/ytget/ytdl-shell/internal/shell"
)

const (
	annotationSkipConfig = "skipConfigLoad"
	annotationSkipDeps   = "skipDependencyCheck"
)

// NewRootCommand builds the ytdl-shell command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(newCommandContext())
}

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ytdl-shell",
		Short:         "Interactive YouTube downloader built on yt-dlp",
		Long:          "ytdl-shell downloads videos, audio and playlists through yt-dlp.\nRun without a subcommand to open the interactive menu.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if err := ctx.setupLogging(cmd.ErrOrStderr()); err != nil {
				return err
			}
			if shouldSkipDependencyCheck(cmd) {
				return nil
			}
			if err := ctx.checkDependencies(cmd.ErrOrStderr()); err != nil {
				ctx.close()
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&ctx.dirFlag, "dir", "", "Download directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&ctx.noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVar(&ctx.tableFlag, "table", false, "Show video information as a table")

	rootCmd.AddCommand(
		newVideoCommand(ctx),
		newAudioCommand(ctx),
		newInfoCommand(ctx),
		newPlaylistCommand(ctx),
		newConfigCommand(ctx),
		newDoctorCommand(ctx),
	)
	closeAfterRun(rootCmd, ctx)

	return rootCmd
}

// closeAfterRun releases the log file once a command finishes, whether or not
// it failed
func closeAfterRun(cmd *cobra.Command, ctx *commandContext) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			defer ctx.close()
			return run(c, args)
		}
	}
	for _, child := range cmd.Commands() {
		closeAfterRun(child, ctx)
	}
}

func runShell(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	svc, err := ctx.newService()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if isTerminal(cmd.ErrOrStderr()) {
		reporter := newProgressReporter(cmd.ErrOrStderr())
		svc.SetProgressFunc(reporter.Report)
		defer reporter.Finish()
	}

	sh := shell.New(svc, cmd.InOrStdin(), out)
	sh.SetDefaults(shell.Defaults{
		Quality:    cfg.Defaults.Quality,
		Format:     cfg.Defaults.Format,
		AudioCodec: cfg.Defaults.AudioCodec,
	})
	sh.SetTable(ctx.tableFlag)
	sh.SetColor(ctx.colorEnabled(out))
	sh.SetLogger(ctx.logger)

	ctx.logger.Info().
		Str("download_dir", svc.DownloadDirectory()).
		Str("engine", cfg.Engine.Name).
		Msg("shell started")
	return sh.Run(cmd.Context())
}
