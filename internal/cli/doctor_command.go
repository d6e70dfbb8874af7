package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/ytdl-shell/internal/deps"
	"github.com/ytget/ytdl-shell/internal/shell"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "doctor",
		Short:       "Check external dependencies and configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipDeps: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Engine: %s\n", cfg.Engine.Name)
			fmt.Fprintf(out, "Download directory: %s\n", cfg.Paths.DownloadDir)

			statuses := deps.CheckBinaries(deps.Requirements(cfg.Engine.Name, cfg.Engine.YTDLPBinary, cfg.Engine.FFmpegBinary))
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				rows = append(rows, []string{s.Name, dependencyState(s), s.Path, s.Detail})
			}
			fmt.Fprintln(out, shell.RenderTable([]string{"Dependency", "Status", "Path", "Detail"}, rows, nil))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				fmt.Fprintln(out, deps.InstallInstructions)
				return fmt.Errorf("%w: %s", ErrMissingDependency, missing[0].Command)
			}
			return nil
		},
	}
}

func dependencyState(s deps.Status) string {
	switch {
	case s.Available:
		return "ok"
	case s.Optional:
		return "optional, missing"
	default:
		return "missing"
	}
}
