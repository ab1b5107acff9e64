package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"booklib/pkg/api"
)

func loginCmd() *cobra.Command {
	var remember bool

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session",
		Long: "Log in to the library service. With --remember the session is kept\n" +
			"in the user config dir and survives reboots; without it the session\n" +
			"lives in the temp dir and is gone after the next cleanup.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}

			sess, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				var authErr *api.AuthError
				if errors.As(err, &authErr) {
					return fmt.Errorf("%s", authErr.Message)
				}
				return err
			}

			if err := stores.Write(sess, remember); err != nil {
				return fmt.Errorf("failed to store the session: %w", err)
			}
			sessions.Notify()

			fmt.Printf("Logged in as %s (%s)\n", sess.Username, sess.Role)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remember, "remember", false, "keep the session across reboots")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stores.Clear(); err != nil {
				return fmt.Errorf("failed to clear the session: %w", err)
			}
			sessions.Notify()
			fmt.Println("Logged out")
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, email := args[0], args[1]

			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			confirm, err := readPassword("Confirm password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if password != confirm {
				return fmt.Errorf("passwords do not match")
			}

			if err := client.Register(cmd.Context(), username, email, password); err != nil {
				var valErr *api.ValidationError
				if errors.As(err, &valErr) {
					switch valErr.Code {
					case api.CodeDuplicateUsername:
						return fmt.Errorf("username %q is already taken", username)
					case api.CodeDuplicateEmail:
						return fmt.Errorf("email %q is already in use", email)
					case api.CodeWeakPassword:
						return fmt.Errorf("password rejected: %s", valErr.Message)
					default:
						return fmt.Errorf("registration failed: %s", valErr.Message)
					}
				}
				return err
			}

			fmt.Println("Account created. Run 'bookctl login' to sign in.")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			view := sessions.Current()
			if !view.LoggedIn {
				fmt.Println("Not logged in")
				return nil
			}

			// The stores only know what we cached at login; ask the server
			// for the full profile when it answers.
			user, err := client.Me(cmd.Context())
			if err != nil {
				fmt.Printf("%s (%s) -- profile unavailable: %v\n", view.Username, view.Role, err)
				return nil
			}
			fmt.Printf("Username: %s\nEmail:    %s\nRole:     %s\n", user.Username, user.Email, user.Role)
			return nil
		},
	}
}
