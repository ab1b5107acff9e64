package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"booklib/pkg/api"
	"booklib/pkg/credstore"
	"booklib/pkg/notify"
	"booklib/pkg/session"
)

var (
	serverURL string

	stores   *credstore.Stores
	sessions *session.Manager
	client   *api.Client
	center   *notify.Center
)

func main() {
	root := &cobra.Command{
		Use:   "bookctl",
		Short: "Command-line client for the booklib library service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return wire()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server",
		getEnv("BOOKLIB_SERVER", "http://localhost:8080"), "library service base URL")

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		registerCmd(),
		whoamiCmd(),
		booksCmd(),
		rentCmd(),
		myBooksCmd(),
		checkCmd(),
		adminCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// wire builds the shared client state: the two credential stores, the
// session manager on top of them, and the API client reading its bearer
// token through the manager.
func wire() error {
	persistentPath, err := credstore.DefaultPersistentPath()
	if err != nil {
		return fmt.Errorf("cannot resolve the credentials directory: %w", err)
	}
	stores = credstore.New(
		credstore.NewFileStore(persistentPath),
		credstore.NewFileStore(credstore.DefaultSessionPath()),
	)
	sessions = session.NewManager(stores)
	client = api.NewClient(serverURL, sessions.Token)
	center = notify.NewCenter()
	return nil
}

// requireLogin guards commands that need a token.
func requireLogin() error {
	if !sessions.Current().LoggedIn {
		return fmt.Errorf("not logged in (run 'bookctl login' first)")
	}
	return nil
}

// requireAdmin guards the admin subtree. The server re-checks the role on
// every request; this is just a friendlier failure.
func requireAdmin() error {
	if err := requireLogin(); err != nil {
		return err
	}
	if !sessions.Current().IsAdmin() {
		return fmt.Errorf("this command requires the ADMIN role")
	}
	return nil
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// flushToasts prints any pending notifications, the CLI rendering of the
// auto-dismissing banners.
func flushToasts() {
	for _, n := range center.Active() {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message)
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
