// Package cmd implements the jobdeck command tree.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/avermeer/jobdeck/internal/log"
)

var (
	flagAPIURL  string
	flagOutput  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jobdeck",
	Short: "Console for the job scheduler service",
	Long: `jobdeck is a console for operating a job scheduler service.

It manages scheduled and source-triggered jobs, data sources and their
availability notifications, user accounts, and per-user grants. Sessions
are token based: log in once and the token is persisted under ~/.jobdeck
until you log out.

Run 'jobdeck console' for the interactive full-screen console, or use
the subcommands directly for scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			log.SetDefaultLogger(log.Verbose())
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "scheduler service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}
