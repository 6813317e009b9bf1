package cmd

import (
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/avermeer/jobdeck/internal/api"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage data sources",
	Long: `Manage data sources of the scheduler service.

A source represents an upstream dataset. Generic sources are notified
without a date; value-date-aware sources carry a value date with each
availability notification. Source-triggered jobs run when all of their
sources have reported availability.

Examples:
  jobdeck sources list
  jobdeck sources create --name "fx rates" --type value_date_aware
  jobdeck sources notify --code fx_rates --value-date 2026-08-28
  jobdeck sources availability 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		limit, _ := cmd.Flags().GetInt("limit")

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		sources, err := controller.Client().Sources(cmd.Context(), page, limit)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(sources)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		w.Write([]byte("ID\tCODE\tNAME\tTYPE\n"))
		for _, source := range sources {
			w.Write([]byte(strconv.FormatInt(source.ID, 10) + "\t" + source.Code + "\t" +
				source.Name + "\t" + source.SourceType + "\n"))
		}
		return nil
	},
}

var sourcesGetCmd = &cobra.Command{
	Use:   "get <source-id>",
	Short: "Show one source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		source, err := controller.Client().SourceByID(cmd.Context(), id)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(source)
		}
		cmd.Printf("ID:   %d\n", source.ID)
		cmd.Printf("Code: %s\n", source.Code)
		cmd.Printf("Name: %s\n", source.Name)
		cmd.Printf("Type: %s\n", source.SourceType)
		return nil
	},
}

var sourcesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a source",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		sourceType, _ := cmd.Flags().GetString("type")

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		source, err := controller.Client().CreateSource(cmd.Context(), api.CreateSourceRequest{
			Name:       name,
			SourceType: sourceType,
		})
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(source)
		}
		cmd.Printf("Created source %s (id %d, code %s)\n", source.Name, source.ID, source.Code)
		return nil
	},
}

var sourcesUpdateCmd = &cobra.Command{
	Use:   "update <source-id>",
	Short: "Update a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var req api.UpdateSourceRequest
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			req.Name = &name
		}
		if cmd.Flags().Changed("type") {
			sourceType, _ := cmd.Flags().GetString("type")
			req.SourceType = &sourceType
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		source, err := controller.Client().UpdateSource(cmd.Context(), id, req)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(source)
		}
		cmd.Printf("Updated source %s (id %d)\n", source.Name, source.ID)
		return nil
	},
}

var sourcesDeleteCmd = &cobra.Command{
	Use:   "delete <source-id>",
	Short: "Delete a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		if err := controller.Client().DeleteSource(cmd.Context(), id); err != nil {
			return err
		}
		cmd.Printf("Deleted source %d\n", id)
		return nil
	},
}

var sourcesJobsCmd = &cobra.Command{
	Use:   "jobs <source-id>",
	Short: "List the jobs triggered by a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		jobs, err := controller.Client().SourceJobs(cmd.Context(), id)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(jobs)
		}
		for _, job := range jobs {
			cmd.Printf("  %d  %s (%s)\n", job.ID, job.Name, job.TriggerType)
		}
		return nil
	},
}

var sourcesAvailabilityCmd = &cobra.Command{
	Use:   "availability <source-id>",
	Short: "Show a source's availability history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		history, err := controller.Client().SourceAvailabilityHistory(cmd.Context(), id)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(history)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		w.Write([]byte("ID\tVALUE DATE\tREPORTED\n"))
		for _, entry := range history {
			reported := ""
			if entry.CreatedAt != nil {
				reported = entry.CreatedAt.Format("2006-01-02 15:04:05")
			}
			w.Write([]byte(strconv.FormatInt(entry.ID, 10) + "\t" + entry.ValueDate + "\t" + reported + "\n"))
		}
		return nil
	},
}

var sourcesNotifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Report that a source's data is available",
	Long: `Report that a source's data is available, triggering any jobs
waiting on it.

Value-date-aware sources require --value-date; generic sources must
omit it.

Examples:
  jobdeck sources notify --code trades
  jobdeck sources notify --code fx_rates --value-date 2026-08-28`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("code")
		valueDate, _ := cmd.Flags().GetString("value-date")

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		req := api.NotifyAvailableRequest{SourceCode: code, ValueDate: valueDate}
		if err := controller.Client().NotifySourceAvailable(cmd.Context(), req); err != nil {
			return err
		}
		cmd.Printf("Source %s reported available\n", code)
		return nil
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesGetCmd)
	sourcesCmd.AddCommand(sourcesCreateCmd)
	sourcesCmd.AddCommand(sourcesUpdateCmd)
	sourcesCmd.AddCommand(sourcesDeleteCmd)
	sourcesCmd.AddCommand(sourcesJobsCmd)
	sourcesCmd.AddCommand(sourcesAvailabilityCmd)
	sourcesCmd.AddCommand(sourcesNotifyCmd)

	sourcesListCmd.Flags().Int("page", 1, "Page number")
	sourcesListCmd.Flags().Int("limit", 50, "Maximum number of sources to return")

	sourcesCreateCmd.Flags().String("name", "", "Source name (required)")
	sourcesCreateCmd.Flags().String("type", api.SourceGeneric, "Source type: generic or value_date_aware")
	sourcesCreateCmd.MarkFlagRequired("name")

	sourcesUpdateCmd.Flags().String("name", "", "New source name")
	sourcesUpdateCmd.Flags().String("type", "", "New source type")

	sourcesNotifyCmd.Flags().String("code", "", "Source code (required)")
	sourcesNotifyCmd.Flags().String("value-date", "", "Value date for value-date-aware sources (YYYY-MM-DD)")
	sourcesNotifyCmd.MarkFlagRequired("code")

	rootCmd.AddCommand(sourcesCmd)
}
