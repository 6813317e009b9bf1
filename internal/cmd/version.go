package cmd

import (
	"github.com/spf13/cobra"

	"github.com/avermeer/jobdeck/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.GetInfo()

		if structuredOutput() {
			return emit(info)
		}
		cmd.Println(info.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
