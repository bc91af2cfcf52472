package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Kavirubc/ci-changelog/internal/config"
	"github.com/Kavirubc/ci-changelog/internal/notify"
)

func newPrintHTMLCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "print_html <job_name>...",
		Short: "Print the changelog of every build of the given jobs",
		Long: `Print the changelog of every build of the given Jenkins jobs, newest build first.

Output is HTML unless --format markdown is given. Progress lines are
written to stderr. Nothing is printed if any build cannot be fetched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := notify.ParseFormat(format)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, config.RequireJenkins|config.RequireGitHub, false)
			if err != nil {
				return err
			}

			start := time.Now()
			stats, err := a.notifier.PrintHistory(cmd.Context(), cmd.OutOrStdout(), args, f)
			if err != nil {
				return err
			}
			stats.DurationMs = time.Since(start).Milliseconds()

			fmt.Fprintf(cmd.ErrOrStderr(), "%d builds from %d jobs, %d with changes (%dms)\n",
				stats.Builds, stats.Jobs, stats.RenderedBuilds, stats.DurationMs)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(notify.FormatHTML), "output format: html or markdown")
	return cmd
}
