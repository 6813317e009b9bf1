package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/avermeer/jobdeck/internal/api"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage jobs",
	Long: `Manage jobs of the scheduler service.

A job is either scheduled (cron-triggered) or source-triggered (runs
when its associated sources report availability). When a job fires, the
service calls the job's callback URL.

Examples:
  jobdeck jobs list
  jobdeck jobs create --name nightly-etl --callback-url http://etl:9000/run --trigger scheduled
  jobdeck jobs schedule 3 --cron "0 2 * * *" --timezone UTC
  jobdeck jobs link 3 --sources 1,2
  jobdeck jobs runs 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		jobs, err := controller.Client().Jobs(cmd.Context(), skip, limit)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(jobs)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		w.Write([]byte("ID\tNAME\tTRIGGER\tCALLBACK\n"))
		for _, job := range jobs {
			w.Write([]byte(strconv.FormatInt(job.ID, 10) + "\t" + job.Name + "\t" +
				job.TriggerType + "\t" + job.CallbackURL + "\n"))
		}
		return nil
	},
}

var jobsGetCmd = &cobra.Command{
	Use:   "get <job-id>",
	Short: "Show one job",
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

		job, err := controller.Client().JobByID(cmd.Context(), id)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(job)
		}
		cmd.Printf("ID:          %d\n", job.ID)
		cmd.Printf("Name:        %s\n", job.Name)
		if job.Description != "" {
			cmd.Printf("Description: %s\n", job.Description)
		}
		cmd.Printf("Trigger:     %s\n", job.TriggerType)
		cmd.Printf("Callback:    %s\n", job.CallbackURL)
		return nil
	},
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		callbackURL, _ := cmd.Flags().GetString("callback-url")
		trigger, _ := cmd.Flags().GetString("trigger")

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		job, err := controller.Client().CreateJob(cmd.Context(), api.CreateJobRequest{
			Name:        name,
			Description: description,
			CallbackURL: callbackURL,
			TriggerType: trigger,
		})
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(job)
		}
		cmd.Printf("Created job %s (id %d)\n", job.Name, job.ID)
		return nil
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a job",
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

		if err := controller.Client().DeleteJob(cmd.Context(), id); err != nil {
			return err
		}
		cmd.Printf("Deleted job %d\n", id)
		return nil
	},
}

var jobsScheduleCmd = &cobra.Command{
	Use:   "schedule <job-id>",
	Short: "Set a job's cron schedule",
	Long: `Set the cron schedule of a scheduled job.

The schedule is given as a raw cron expression or built from one of the
shortcuts. With no schedule flags an interactive picker offers common
presets and timezones.

Examples:
  jobdeck jobs schedule 3 --cron "0 2 * * *" --timezone UTC
  jobdeck jobs schedule 3 --daily 02:30 --timezone Europe/Paris
  jobdeck jobs schedule 3 --every 15
  jobdeck jobs schedule 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		schedule, err := scheduleFromFlags(cmd)
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

		if err := controller.Client().SetJobSchedule(cmd.Context(), id, schedule); err != nil {
			return err
		}
		cmd.Printf("Scheduled job %d: %s (%s)\n", id, schedule.CronExpression, schedule.Timezone)
		return nil
	},
}

// scheduleFromFlags builds the schedule from --cron, a shortcut flag,
// or an interactive picker when neither is given.
func scheduleFromFlags(cmd *cobra.Command) (api.Schedule, error) {
	timezone, _ := cmd.Flags().GetString("timezone")

	if cron, _ := cmd.Flags().GetString("cron"); cron != "" {
		return api.Schedule{CronExpression: cron, Timezone: timezone}, nil
	}
	if daily, _ := cmd.Flags().GetString("daily"); daily != "" {
		hour, minute, err := parseClock(daily)
		if err != nil {
			return api.Schedule{}, err
		}
		return api.DailySchedule(hour, minute, timezone), nil
	}
	if cmd.Flags().Changed("hourly-at") {
		minute, _ := cmd.Flags().GetInt("hourly-at")
		if minute < 0 || minute > 59 {
			return api.Schedule{}, fmt.Errorf("invalid minute %d: expected 0-59", minute)
		}
		return api.HourlySchedule(minute, timezone), nil
	}
	if cmd.Flags().Changed("every") {
		interval, _ := cmd.Flags().GetInt("every")
		if interval < 1 || interval > 59 {
			return api.Schedule{}, fmt.Errorf("invalid interval %d: expected 1-59 minutes", interval)
		}
		return api.IntervalSchedule(interval, timezone), nil
	}

	return pickSchedule(timezone)
}

// parseClock parses "HH:MM"
func parseClock(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return hour, minute, nil
}

// pickSchedule prompts for a preset schedule and timezone
func pickSchedule(timezone string) (api.Schedule, error) {
	presets := []struct {
		label string
		build func(tz string) api.Schedule
	}{
		{"every 5 minutes", func(tz string) api.Schedule {
			return api.Schedule{CronExpression: api.CronEvery5Minutes, Timezone: tz}
		}},
		{"every 15 minutes", func(tz string) api.Schedule {
			return api.Schedule{CronExpression: api.CronEvery15Minutes, Timezone: tz}
		}},
		{"every 30 minutes", func(tz string) api.Schedule {
			return api.Schedule{CronExpression: api.CronEvery30Minutes, Timezone: tz}
		}},
		{"hourly on the hour", func(tz string) api.Schedule {
			return api.HourlySchedule(0, tz)
		}},
		{"daily at midnight", func(tz string) api.Schedule {
			return api.DailySchedule(0, 0, tz)
		}},
		{"daily at 09:00", func(tz string) api.Schedule {
			return api.DailySchedule(9, 0, tz)
		}},
		{"weekly on Monday 09:00", func(tz string) api.Schedule {
			return api.WeeklySchedule(1, 9, 0, tz)
		}},
		{"monthly on the 1st 09:00", func(tz string) api.Schedule {
			return api.MonthlySchedule(1, 9, 0, tz)
		}},
	}

	options := make([]huh.Option[int], 0, len(presets))
	for i, preset := range presets {
		options = append(options, huh.NewOption(preset.label, i))
	}
	tzOptions := make([]huh.Option[string], 0, len(api.Timezones))
	for _, tz := range api.Timezones {
		tzOptions = append(tzOptions, huh.NewOption(tz, tz).Selected(tz == timezone))
	}

	var choice int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title("Schedule").Options(options...).Value(&choice),
		huh.NewSelect[string]().Title("Timezone").Options(tzOptions...).Value(&timezone),
	))
	if err := form.Run(); err != nil {
		return api.Schedule{}, err
	}

	return presets[choice].build(timezone), nil
}

var jobsSourcesCmd = &cobra.Command{
	Use:   "sources <job-id>",
	Short: "List the sources associated with a job",
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

		sources, err := controller.Client().JobSources(cmd.Context(), id)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(sources)
		}
		for _, source := range sources {
			cmd.Printf("  %d  %s (%s)\n", source.ID, source.Name, source.SourceType)
		}
		return nil
	},
}

var jobsLinkCmd = &cobra.Command{
	Use:   "link <job-id>",
	Short: "Associate sources with a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		sourceIDs, _ := cmd.Flags().GetInt64Slice("sources")

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		if err := controller.Client().AssociateSources(cmd.Context(), id, sourceIDs); err != nil {
			return err
		}
		cmd.Printf("Linked %d source(s) to job %d\n", len(sourceIDs), id)
		return nil
	},
}

var jobsRunsCmd = &cobra.Command{
	Use:   "runs <job-id>",
	Short: "Show a job's execution history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		execs, err := controller.Client().JobExecutions(cmd.Context(), id, skip, limit)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(execs)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		w.Write([]byte("ID\tSTATUS\tDETAILS\n"))
		for _, exec := range execs {
			w.Write([]byte(strconv.FormatInt(exec.ID, 10) + "\t" + exec.Status + "\t" + exec.Details + "\n"))
		}
		return nil
	},
}

var jobsReportCmd = &cobra.Command{
	Use:   "report <execution-id> <status>",
	Short: "Report a job execution status transition",
	Long: `Report a status transition for a job execution.

Valid statuses: pending, started, running, completed, errored, cancelled.

Examples:
  jobdeck jobs report 42 completed
  jobdeck jobs report 42 errored --details "upstream timeout"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		details, _ := cmd.Flags().GetString("details")

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller); err != nil {
			return err
		}

		req := api.UpdateJobStatusRequest{
			JobExecutionID: id,
			Status:         args[1],
			Details:        details,
		}
		if err := controller.Client().UpdateJobStatus(cmd.Context(), req); err != nil {
			return err
		}
		cmd.Printf("Execution %d marked %s\n", id, args[1])
		return nil
	},
}

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsGetCmd)
	jobsCmd.AddCommand(jobsCreateCmd)
	jobsCmd.AddCommand(jobsDeleteCmd)
	jobsCmd.AddCommand(jobsScheduleCmd)
	jobsCmd.AddCommand(jobsSourcesCmd)
	jobsCmd.AddCommand(jobsLinkCmd)
	jobsCmd.AddCommand(jobsRunsCmd)
	jobsCmd.AddCommand(jobsReportCmd)

	jobsListCmd.Flags().Int("skip", 0, "Number of jobs to skip")
	jobsListCmd.Flags().Int("limit", 50, "Maximum number of jobs to return")

	jobsCreateCmd.Flags().String("name", "", "Job name (required)")
	jobsCreateCmd.Flags().String("description", "", "Job description")
	jobsCreateCmd.Flags().String("callback-url", "", "URL the service calls when the job fires (required)")
	jobsCreateCmd.Flags().String("trigger", api.TriggerScheduled, "Trigger type: scheduled or source_availability")
	jobsCreateCmd.MarkFlagRequired("name")
	jobsCreateCmd.MarkFlagRequired("callback-url")

	jobsScheduleCmd.Flags().String("cron", "", "Raw cron expression")
	jobsScheduleCmd.Flags().String("daily", "", "Run daily at HH:MM")
	jobsScheduleCmd.Flags().Int("hourly-at", 0, "Run hourly at the given minute")
	jobsScheduleCmd.Flags().Int("every", 0, "Run every N minutes")
	jobsScheduleCmd.Flags().String("timezone", "UTC", "Schedule timezone")

	jobsLinkCmd.Flags().Int64Slice("sources", nil, "Source ids to associate (required)")
	jobsLinkCmd.MarkFlagRequired("sources")

	jobsRunsCmd.Flags().Int("skip", 0, "Number of executions to skip")
	jobsRunsCmd.Flags().Int("limit", 20, "Maximum number of executions to return")

	jobsReportCmd.Flags().String("details", "", "Free-form status details")

	rootCmd.AddCommand(jobsCmd)
}
