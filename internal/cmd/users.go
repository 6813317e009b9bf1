package cmd

import (
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/avermeer/jobdeck/internal/api"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
	Long: `Manage user accounts of the scheduler service.

All user commands require the admin capability.

Examples:
  jobdeck users list
  jobdeck users get 7
  jobdeck users create --username bob --email bob@example.com --password secret
  jobdeck users delete 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller, "admin"); err != nil {
			return err
		}

		users, err := controller.Client().Users(cmd.Context())
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(users)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		w.Write([]byte("ID\tUSERNAME\tEMAIL\tACTIVE\n"))
		for _, user := range users {
			w.Write([]byte(strconv.FormatInt(user.ID, 10) + "\t" + user.Username + "\t" +
				user.Email + "\t" + strconv.FormatBool(user.Active) + "\n"))
		}
		return nil
	},
}

var usersGetCmd = &cobra.Command{
	Use:   "get <user-id>",
	Short: "Show one user",
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
		if err := requireCapabilities(controller, "admin"); err != nil {
			return err
		}

		user, err := controller.Client().UserByID(cmd.Context(), id)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(user)
		}
		printUser(cmd, user)
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller, "admin"); err != nil {
			return err
		}

		user, err := controller.Client().CreateUser(cmd.Context(), api.CreateUserRequest{
			Username: username,
			Email:    email,
			Password: password,
			Active:   true,
		})
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(user)
		}
		cmd.Printf("Created user %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <user-id>",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		var req api.UpdateUserRequest
		if cmd.Flags().Changed("email") {
			email, _ := cmd.Flags().GetString("email")
			req.Email = &email
		}
		if cmd.Flags().Changed("password") {
			password, _ := cmd.Flags().GetString("password")
			req.Password = &password
		}
		if cmd.Flags().Changed("active") {
			active, _ := cmd.Flags().GetBool("active")
			req.Active = &active
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		if err := requireCapabilities(controller, "admin"); err != nil {
			return err
		}

		user, err := controller.Client().UpdateUser(cmd.Context(), id, req)
		if err != nil {
			return err
		}

		if structuredOutput() {
			return emit(user)
		}
		cmd.Printf("Updated user %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user",
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
		if err := requireCapabilities(controller, "admin"); err != nil {
			return err
		}

		if err := controller.Client().DeleteUser(cmd.Context(), id); err != nil {
			return err
		}
		cmd.Printf("Deleted user %d\n", id)
		return nil
	},
}

func printUser(cmd *cobra.Command, user *api.User) {
	cmd.Printf("ID:       %d\n", user.ID)
	cmd.Printf("Username: %s\n", user.Username)
	cmd.Printf("Email:    %s\n", user.Email)
	cmd.Printf("Active:   %t\n", user.Active)
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersCreateCmd.Flags().String("username", "", "Username (required)")
	usersCreateCmd.Flags().String("email", "", "Email address (required)")
	usersCreateCmd.Flags().String("password", "", "Password (required)")
	usersCreateCmd.MarkFlagRequired("username")
	usersCreateCmd.MarkFlagRequired("email")
	usersCreateCmd.MarkFlagRequired("password")

	usersUpdateCmd.Flags().String("email", "", "New email address")
	usersUpdateCmd.Flags().String("password", "", "New password")
	usersUpdateCmd.Flags().Bool("active", true, "Activate or deactivate the account")

	rootCmd.AddCommand(usersCmd)
}
