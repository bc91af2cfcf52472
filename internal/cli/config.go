package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kavirubc/ci-changelog/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := config.FindConfigPath(cfgFile)

			if _, err := os.Stat(cfgPath); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", cfgPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to stat config file: %w", err)
			}

			answers, err := config.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()).Ask()
			if err != nil {
				return fmt.Errorf("failed to prompt for config: %w", err)
			}
			if err := config.Save(cfgPath, answers); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", cfgPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfgPath := config.FindConfigPath(cfgFile)

			fmt.Fprintf(out, "Validating config: %s\n", cfgPath)

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			errs := config.Validate(cfg, config.RequireAll)
			if len(errs) > 0 {
				fmt.Fprintln(out, "\nValidation errors:")
				for _, e := range errs {
					fmt.Fprintf(out, "  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Fprintln(out, "\nConfiguration is valid!")
			fmt.Fprintf(out, "  - Jenkins URL: %s\n", cfg.Auth.Jenkins.URL)
			fmt.Fprintf(out, "  - GitHub API: %s (web %s)\n", cfg.Auth.GitHub.URL, cfg.Auth.GitHub.WebURL())
			fmt.Fprintf(out, "  - Subject prefix: %q\n", cfg.Email.SubjectPrefix)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.FindConfigPath(cfgFile))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out, err := cfg.Redacted().YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
