package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/avermeer/jobdeck/internal/api"
	"github.com/avermeer/jobdeck/internal/errors"
	"github.com/avermeer/jobdeck/internal/grants"
)

var grantsCmd = &cobra.Command{
	Use:   "grants",
	Short: "Manage per-user grants",
	Long: `Manage the grants assigned to user accounts.

Grants gate what a user can see and do in the console. Editing computes
the minimal set of assign and revoke calls between the current
assignment and your selection, applies all assigns first, then all
revokes.

All grant commands require the admin capability.

Examples:
  jobdeck grants list
  jobdeck grants show 7
  jobdeck grants edit 7
  jobdeck grants sync 7 --assign jobs:write --revoke admin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var grantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the grant catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller, "admin"); err != nil {
			return err
		}

		catalog, err := controller.Client().Grants(cmd.Context())
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(catalog)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		w.Write([]byte("ID\tNAME\n"))
		for _, grant := range catalog {
			w.Write([]byte(strconv.FormatInt(grant.ID, 10) + "\t" + grant.Name + "\n"))
		}
		return nil
	},
}

var grantsShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user's grants against the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseID(args[0])
		if err != nil {
			return err
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller, "admin"); err != nil {
			return err
		}

		ws, err := grants.NewWorkingSet(cmd.Context(), controller.Client(), userID)
		if err != nil {
			return err
		}

		if structuredOutput() {
			assigned := []api.Grant{}
			for _, grant := range ws.Catalog() {
				if ws.Assigned(grant.ID) {
					assigned = append(assigned, grant)
				}
			}
			return emit(assigned)
		}

		cmd.Printf("Grants for %s:\n", ws.User().Username)
		for _, grant := range ws.Catalog() {
			marker := " "
			if ws.Assigned(grant.ID) {
				marker = "x"
			}
			cmd.Printf("  [%s] %s\n", marker, grant.Name)
		}
		return nil
	},
}

var grantsEditCmd = &cobra.Command{
	Use:   "edit <user-id>",
	Short: "Edit a user's grants interactively",
	Long: `Edit a user's grants in an interactive multi-select.

Only the differences between the current assignment and your selection
are sent to the service. On a partial failure the applied and failed
operations are listed; rerun the command to retry the remainder.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseID(args[0])
		if err != nil {
			return err
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller, "admin"); err != nil {
			return err
		}

		ws, err := grants.NewWorkingSet(cmd.Context(), controller.Client(), userID)
		if err != nil {
			return err
		}

		options := make([]huh.Option[int64], 0, len(ws.Catalog()))
		for _, grant := range ws.Catalog() {
			options = append(options, huh.NewOption(grant.Name, grant.ID).Selected(ws.Assigned(grant.ID)))
		}

		var selected []int64
		form := huh.NewForm(huh.NewGroup(
			huh.NewMultiSelect[int64]().
				Title(fmt.Sprintf("Grants for %s", ws.User().Username)).
				Options(options...).
				Value(&selected),
		))
		if err := form.Run(); err != nil {
			return err
		}

		want := make(map[int64]bool, len(selected))
		for _, id := range selected {
			want[id] = true
		}
		for _, grant := range ws.Catalog() {
			if err := ws.Set(grant.ID, want[grant.ID]); err != nil {
				return err
			}
		}

		return applyWorkingSet(cmd, ws)
	},
}

var grantsSyncCmd = &cobra.Command{
	Use:   "sync <user-id>",
	Short: "Assign and revoke grants non-interactively",
	Long: `Assign and revoke grants for a user in one pass.

Grants are named by catalog name or numeric id. Changes that are
already in place are skipped.

Examples:
  jobdeck grants sync 7 --assign jobs:write,sources:write
  jobdeck grants sync 7 --revoke admin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseID(args[0])
		if err != nil {
			return err
		}
		assignNames, _ := cmd.Flags().GetStringSlice("assign")
		revokeNames, _ := cmd.Flags().GetStringSlice("revoke")
		if len(assignNames) == 0 && len(revokeNames) == 0 {
			return fmt.Errorf("nothing to do: pass --assign and/or --revoke")
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller, "admin"); err != nil {
			return err
		}

		ws, err := grants.NewWorkingSet(cmd.Context(), controller.Client(), userID)
		if err != nil {
			return err
		}

		for _, name := range assignNames {
			grant, err := resolveGrant(ws, name)
			if err != nil {
				return err
			}
			if err := ws.Set(grant.ID, true); err != nil {
				return err
			}
		}
		for _, name := range revokeNames {
			grant, err := resolveGrant(ws, name)
			if err != nil {
				return err
			}
			if err := ws.Set(grant.ID, false); err != nil {
				return err
			}
		}

		return applyWorkingSet(cmd, ws)
	},
}

// resolveGrant finds a catalog grant by name or numeric id
func resolveGrant(ws *grants.WorkingSet, name string) (api.Grant, error) {
	for _, grant := range ws.Catalog() {
		if grant.Name == name {
			return grant, nil
		}
	}
	if id, err := strconv.ParseInt(name, 10, 64); err == nil {
		for _, grant := range ws.Catalog() {
			if grant.ID == id {
				return grant, nil
			}
		}
	}

	names := make([]string, 0, len(ws.Catalog()))
	for _, grant := range ws.Catalog() {
		names = append(names, grant.Name)
	}
	return api.Grant{}, errors.New(errors.ErrCodeGrantUnknown,
		fmt.Sprintf("unknown grant: %s", name)).
		WithSuggestion("Known grants: " + strings.Join(names, ", "))
}

// applyWorkingSet applies the pending plan and reports per-operation
// results. A partial apply returns the coded error so the exit code
// reflects it.
func applyWorkingSet(cmd *cobra.Command, ws *grants.WorkingSet) error {
	plan := ws.Plan()
	if plan.Empty() {
		cmd.Println("No changes.")
		return nil
	}

	result := ws.Apply(cmd.Context())

	if structuredOutput() {
		if err := emit(result.Ops); err != nil {
			return err
		}
		return result.Err()
	}

	for _, op := range result.Ops {
		switch op.Status {
		case grants.OpApplied:
			cmd.Printf("  %s %s\n", op.Action, op.Grant.Name)
		case grants.OpFailed:
			cmd.Printf("  %s %s FAILED: %v\n", op.Action, op.Grant.Name, op.Err)
		case grants.OpSkipped:
			cmd.Printf("  %s %s skipped\n", op.Action, op.Grant.Name)
		}
	}

	if err := result.Err(); err != nil {
		return err
	}
	cmd.Printf("Applied %d change(s).\n", result.Applied())
	return nil
}

func init() {
	grantsCmd.AddCommand(grantsListCmd)
	grantsCmd.AddCommand(grantsShowCmd)
	grantsCmd.AddCommand(grantsEditCmd)
	grantsCmd.AddCommand(grantsSyncCmd)

	grantsSyncCmd.Flags().StringSlice("assign", nil, "Grants to assign (name or id)")
	grantsSyncCmd.Flags().StringSlice("revoke", nil, "Grants to revoke (name or id)")

	rootCmd.AddCommand(grantsCmd)
}
