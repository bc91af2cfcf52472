package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	version = "dev"
)

var errMissingCommand = errors.New("a command is required")

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Changelogs from Jenkins builds and GitHub issues",
		Long: `changelog correlates the commits of Jenkins builds with the GitHub issues
they reference and renders the result as markdown and HTML.

Use print_html to print the history of one or more jobs, or notify to mail
the changelog of a single build through SendGrid.`,
		// Usage is shown for bad invocations only, not for failures while running
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
			return errMissingCommand
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.changelog.conf)")

	cmd.AddCommand(newPrintHTMLCmd())
	cmd.AddCommand(newNotifyCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the CLI
func Execute() error {
	return execute(newRootCmd())
}

func execute(root *cobra.Command) error {
	cmd, err := root.ExecuteC()
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	}
	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "changelog version %s\n", version)
		},
	}
}
