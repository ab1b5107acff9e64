package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"booklib/pkg/api"
	"booklib/pkg/models"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands (requires the ADMIN role)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := wire(); err != nil {
				return err
			}
			return requireAdmin()
		},
	}
	cmd.AddCommand(
		adminStatsCmd(),
		adminUsersCmd(),
		adminDeleteUserCmd(),
		adminLoansCmd(),
		adminBookCmd(),
	)
	return cmd
}

func adminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show system totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := client.AdminStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Books:        %d\n", stats.TotalBooks)
			fmt.Printf("Users:        %d\n", stats.TotalUsers)
			fmt.Printf("Active loans: %d\n", stats.ActiveLoans)
			return nil
		},
	}
}

func adminUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := client.AdminUsers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%-5s %-25s %-35s %s\n", "ID", "Username", "Email", "Role")
			fmt.Println(strings.Repeat("-", 75))
			for _, u := range users {
				fmt.Printf("%-5d %-25s %-35s %s\n", u.ID,
					truncateString(u.Username, 25),
					truncateString(u.Email, 35),
					u.Role)
			}
			return nil
		},
	}
}

func adminDeleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user-delete <user-id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid user ID: %s", args[0])
			}
			if err := client.AdminDeleteUser(cmd.Context(), uint(id)); err != nil {
				return err
			}
			fmt.Printf("User %d deleted\n", id)
			return nil
		},
	}
}

func adminLoansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loans",
		Short: "List every active loan in the system",
		RunE: func(cmd *cobra.Command, args []string) error {
			loans, err := client.AdminActiveLoans(cmd.Context())
			if err != nil {
				return err
			}
			if len(loans) == 0 {
				fmt.Println("No active loans.")
				return nil
			}

			now := time.Now()
			fmt.Printf("%-5s %-20s %-35s %-18s %s\n", "ID", "User", "Title", "Expires", "Days left")
			fmt.Println(strings.Repeat("-", 95))
			for _, l := range loans {
				fmt.Printf("%-5d %-20s %-35s %-18s %d\n",
					l.ID,
					truncateString(l.User.Username, 20),
					truncateString(l.Book.Title, 35),
					l.ExpiryDate.Local().Format("Jan 2 15:04"),
					api.DaysLeft(l.ExpiryDate, now))
			}
			return nil
		},
	}
}

func adminBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Manage the catalog",
	}
	cmd.AddCommand(adminBookAddCmd(), adminBookUpdateCmd(), adminBookDeleteCmd())
	return cmd
}

func bookFlags(cmd *cobra.Command, book *models.Book) {
	cmd.Flags().StringVar(&book.Title, "title", "", "book title")
	cmd.Flags().StringVar(&book.Author, "author", "", "book author")
	cmd.Flags().StringVar(&book.Category, "category", "", "book category")
	cmd.Flags().StringVar(&book.Isbn, "isbn", "", "ISBN")
	cmd.Flags().StringVar(&book.Description, "description", "", "short description")
}

func adminBookAddCmd() *cobra.Command {
	var book models.Book

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if book.Title == "" || book.Author == "" {
				return fmt.Errorf("--title and --author are required")
			}
			created, err := client.CreateBook(cmd.Context(), book)
			if err != nil {
				return err
			}
			fmt.Printf("Added book ID %d: %s\n", created.ID, created.Title)
			return nil
		},
	}
	bookFlags(cmd, &book)
	return cmd
}

func adminBookUpdateCmd() *cobra.Command {
	var book models.Book

	cmd := &cobra.Command{
		Use:   "update <book-id>",
		Short: "Update a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}

			// Start from the stored record so unset flags keep their value.
			current, err := client.GetBook(cmd.Context(), id)
			if err != nil {
				return err
			}
			if book.Title != "" {
				current.Title = book.Title
			}
			if book.Author != "" {
				current.Author = book.Author
			}
			if book.Category != "" {
				current.Category = book.Category
			}
			if book.Isbn != "" {
				current.Isbn = book.Isbn
			}
			if book.Description != "" {
				current.Description = book.Description
			}

			updated, err := client.UpdateBook(cmd.Context(), id, current)
			if err != nil {
				return err
			}
			fmt.Printf("Updated book ID %d: %s\n", updated.ID, updated.Title)
			return nil
		},
	}
	bookFlags(cmd, &book)
	return cmd
}

func adminBookDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <book-id>",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}
			if err := client.DeleteBook(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted book ID %d\n", id)
			return nil
		},
	}
}
