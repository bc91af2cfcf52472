package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kavirubc/ci-changelog/internal/config"
	"github.com/Kavirubc/ci-changelog/internal/notify"
)

func newNotifyCmd() *cobra.Command {
	var cc, bcc []string

	cmd := &cobra.Command{
		Use:   "notify <job_name> <build> <sender> <email_address>...",
		Short: "Mail the changelog of one build",
		Long: `Render the changelog of one Jenkins build and send it through SendGrid.

<build> is a build number or a Jenkins alias such as lastSuccessfulBuild.
The subject is the job's display name, prefixed with email.subject_prefix
from the config. No email is sent when the build has no changes.`,
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, config.RequireAll, true)
			if err != nil {
				return err
			}

			build, err := a.ci.ResolveBuild(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			result, err := a.notifier.NotifyBuild(cmd.Context(), notify.Request{
				Job:    args[0],
				Build:  build,
				Sender: args[2],
				To:     args[3:],
				CC:     cc,
				BCC:    bcc,
			})
			if err != nil {
				return err
			}

			if result.Sent {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s #%d tracking id %s\n", result.Job, result.Build, result.BuildID)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&cc, "cc", nil, "carbon copy recipients (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&bcc, "bcc", nil, "blind carbon copy recipients (repeatable or comma separated)")
	return cmd
}
