package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/avermeer/jobdeck/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Launch the interactive console",
	Long: `Launch the full-screen interactive console.

The console restores a persisted session when one exists and opens on
the dashboard, otherwise it opens on the login view. Jobs, sources,
users, and per-user grants are browsable and editable from there.

Examples:
  jobdeck console
  jobdeck console --api-url http://scheduler.internal:8004`,
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}

		model := tui.NewModel(controller.Client(), controller)
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err = program.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
