package cmd

import (
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/avermeer/jobdeck/internal/token"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the console session",
	Long: `Manage the console session for the scheduler service.

Sessions are token based. Logging in stores the access token under
~/.jobdeck/token; every other command picks it up from there until you
log out or the token expires.

Examples:
  jobdeck auth login --username alice
  jobdeck auth status
  jobdeck auth logout`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the scheduler service",
	Long: `Log in to the scheduler service with username and password.

Credentials not supplied as flags are prompted for interactively.

Examples:
  jobdeck auth login
  jobdeck auth login --username alice --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		if username == "" || password == "" {
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Username").Value(&username),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
			))
			if err := form.Run(); err != nil {
				return err
			}
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}

		if err := controller.Login(cmd.Context(), username, password); err != nil {
			return err
		}

		snapshot := controller.Store().Snapshot()
		cmd.Printf("Logged in as %s\n", username)
		if len(snapshot.Capabilities) > 0 {
			cmd.Printf("Capabilities: %s\n", strings.Join(snapshot.Capabilities, ", "))
		}
		return nil
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long: `Register a new account with the scheduler service.

Registration does not log you in; run 'jobdeck auth login' afterwards.

Examples:
  jobdeck auth register --username bob --email bob@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if username == "" || email == "" || password == "" {
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Username").Value(&username),
				huh.NewInput().Title("Email").Value(&email),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
			))
			if err := form.Run(); err != nil {
				return err
			}
		}

		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}

		if err := controller.Register(cmd.Context(), username, email, password); err != nil {
			return err
		}

		cmd.Printf("Registered %s\n", username)
		cmd.Println("Use 'jobdeck auth login' to log in.")
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}

		if !controller.Store().Snapshot().Authenticated() {
			cmd.Println("Not logged in.")
			return nil
		}

		if err := controller.Logout(); err != nil {
			return err
		}
		cmd.Println("Logged out.")
		return nil
	},
}

// sessionStatus is the auth status report
type sessionStatus struct {
	State        string   `json:"state" yaml:"state"`
	Username     string   `json:"username,omitempty" yaml:"username,omitempty"`
	Email        string   `json:"email,omitempty" yaml:"email,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	ExpiresAt    string   `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired      bool     `json:"expired" yaml:"expired"`
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		controller, err := newController(cmd.Context())
		if err != nil {
			return err
		}

		snapshot := controller.Store().Snapshot()
		status := sessionStatus{
			State:        controller.Store().State().String(),
			Capabilities: snapshot.Capabilities,
		}
		if snapshot.Profile != nil {
			status.Username = snapshot.Profile.Username
			status.Email = snapshot.Profile.Email
		}
		if snapshot.Token != "" {
			status.Expired = token.Expired(snapshot.Token, time.Now())
			if expiry, err := token.ExpiresAt(snapshot.Token); err == nil {
				status.ExpiresAt = expiry.Format(time.RFC3339)
			}
		}

		if structuredOutput() {
			return emit(status)
		}

		cmd.Printf("State:        %s\n", status.State)
		if status.Username != "" {
			cmd.Printf("User:         %s <%s>\n", status.Username, status.Email)
		}
		if len(status.Capabilities) > 0 {
			cmd.Printf("Capabilities: %s\n", strings.Join(status.Capabilities, ", "))
		}
		if status.ExpiresAt != "" {
			cmd.Printf("Expires:      %s\n", status.ExpiresAt)
		}
		if snapshot.Token != "" && status.Expired {
			cmd.Println("Token expired; run 'jobdeck auth login'")
		}
		return nil
	},
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().String("username", "", "Username")
	authLoginCmd.Flags().String("password", "", "Password")

	authRegisterCmd.Flags().String("username", "", "Username")
	authRegisterCmd.Flags().String("email", "", "Email address")
	authRegisterCmd.Flags().String("password", "", "Password")

	rootCmd.AddCommand(authCmd)
}
