package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"aircheck/internal/config"
	"aircheck/internal/logging"
)

func newRootCommand() *cobra.Command {
	var logLevel string
	var logFormat string

	flags := &rootFlags{logLevel: &logLevel, logFormat: &logFormat}

	rootCmd := &cobra.Command{
		Use:           "aircheck",
		Short:         "Archive radio broadcasts from the Ö1 schedule",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console or json)")

	rootCmd.AddCommand(newRunCommand(flags))
	rootCmd.AddCommand(newSectionsCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

type rootFlags struct {
	logLevel  *string
	logFormat *string
}

// buildLogger constructs the run logger from the configuration, with the
// persistent flags taking precedence over the file values.
func (f *rootFlags) buildLogger(cfg *config.Config) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if f.logLevel != nil && *f.logLevel != "" {
		opts.Level = *f.logLevel
	}
	if f.logFormat != nil && *f.logFormat != "" {
		opts.Format = *f.logFormat
	}
	return logging.New(opts)
}
