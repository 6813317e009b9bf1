package cmd

import (
	"github.com/spf13/cobra"

	"github.com/avermeer/jobdeck/internal/errors"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the scheduler service",
	Long: `Check that the scheduler service is reachable and healthy.

Health does not require a session.

Examples:
  jobdeck health
  jobdeck health --api-url http://scheduler.internal:8004`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		status, err := client.Health(cmd.Context())
		if err != nil {
			return errors.NewServiceUnavailableError(client.BaseURL(), err)
		}

		if structuredOutput() {
			return emit(status)
		}
		cmd.Printf("Service at %s is %s\n", client.BaseURL(), status.Status)
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show scheduler service information",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		info, err := client.Info(cmd.Context())
		if err != nil {
			return errors.NewServiceUnavailableError(client.BaseURL(), err)
		}

		if structuredOutput() {
			return emit(info)
		}
		cmd.Printf("Service: %s\n", info.Name)
		if info.Version != "" {
			cmd.Printf("Version: %s\n", info.Version)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(infoCmd)
}
