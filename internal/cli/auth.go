package cli

import (
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// LoginCmd returns the login command.
func LoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the ResolveIT backend",
		Long: `Authenticate with email and password and persist the session token.

The token is stored in the user config directory and reused by every
other command until it expires or you run logout.

Examples:
  resolveit login --email alice@example.com
  resolveit login --email alice@example.com --password secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, _, err := newAPI()
			if err != nil {
				return err
			}

			if email == "" {
				email = cfg.Email
			}
			if email == "" {
				return fmt.Errorf("no email given\nHint: use --email or set RESOLVEIT_EMAIL")
			}
			if password == "" {
				password = cfg.Password
			}
			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(raw)
			}

			user, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s <%s> [%s]\n",
				color.New(color.Bold).Sprint(user.Name), user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")

	return cmd
}

// LogoutCmd returns the logout command.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := newAPI()
			if err != nil {
				return err
			}
			if err := client.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

// WhoamiCmd returns the whoami command.
func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, store, err := newAPI()
			if err != nil {
				return err
			}
			sess, err := requireSession(store)
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> [%s]\n", sess.User.Name, sess.User.Email, sess.User.Role)
			return nil
		},
	}
}

// RegisterCmd returns the register command.
func RegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := newAPI()
			if err != nil {
				return err
			}
			if name == "" || email == "" || password == "" {
				return fmt.Errorf("--name, --email and --password are required")
			}
			if err := client.Register(cmd.Context(), name, email, password); err != nil {
				return err
			}
			fmt.Println("Account created. Run `resolveit login` to sign in.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")

	return cmd
}
