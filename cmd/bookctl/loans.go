package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"booklib/pkg/api"
	"booklib/pkg/rental"
)

func rentCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rent <book-id>",
		Short: "Rent a book for 72 hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}

			book, err := client.GetBook(cmd.Context(), id)
			if err != nil {
				return err
			}

			flow := rental.NewFlow(client, sessions, center, id)
			if err := flow.Load(cmd.Context()); err != nil {
				return err
			}
			if flow.Owned() {
				fmt.Printf("You already have '%s' on loan.\n", book.Title)
				return nil
			}
			if err := flow.Begin(); err != nil {
				return err
			}

			if !yes {
				fmt.Printf("Rent '%s' by %s for $%.2f (72 hours)? [y/N] ", book.Title, book.Author, 5.00)
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					_ = flow.Cancel()
					fmt.Println("Cancelled.")
					return nil
				}
			}

			loan, err := flow.Confirm(cmd.Context())
			if err != nil {
				flushToasts()
				var rentalErr *api.RentalError
				if errors.As(err, &rentalErr) {
					return fmt.Errorf("rental rejected")
				}
				return err
			}

			fmt.Printf("Rented '%s'. The loan expires %s (%d day(s) left).\n",
				book.Title,
				loan.ExpiryDate.Local().Format("Mon Jan 2 15:04"),
				api.DaysLeft(loan.ExpiryDate, time.Now()))
			fmt.Println("See 'bookctl my-books' for your active loans.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func myBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "my-books",
		Short: "List your active loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			loans, err := client.MyLoans(cmd.Context())
			if err != nil {
				return err
			}
			if len(loans) == 0 {
				fmt.Println("You have no active loans.")
				return nil
			}

			now := time.Now()
			fmt.Printf("%-5s %-35s %-25s %-18s %s\n", "ID", "Title", "Author", "Expires", "Days left")
			fmt.Println(strings.Repeat("-", 95))
			for _, l := range loans {
				fmt.Printf("%-5d %-35s %-25s %-18s %d\n",
					l.BookID,
					truncateString(l.Book.Title, 35),
					truncateString(l.Book.Author, 25),
					l.ExpiryDate.Local().Format("Jan 2 15:04"),
					api.DaysLeft(l.ExpiryDate, now))
			}
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <book-id>",
		Short: "Check whether you currently hold a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}
			rented, err := client.CheckRented(cmd.Context(), id)
			if err != nil {
				return err
			}
			if rented {
				fmt.Println("You currently hold this book.")
			} else {
				fmt.Println("You do not hold this book.")
			}
			return nil
		},
	}
}
