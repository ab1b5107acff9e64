package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"booklib/pkg/models"
)

func booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse the catalog",
	}
	cmd.AddCommand(booksListCmd(), booksShowCmd(), booksSearchCmd(), booksCategoriesCmd())
	return cmd
}

func booksListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books, optionally filtered by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				books []models.Book
				err   error
			)
			if category != "" {
				books, err = client.BooksByCategory(cmd.Context(), category)
			} else {
				books, err = client.ListBooks(cmd.Context())
			}
			if err != nil {
				return err
			}
			printBooks(books)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list books in this category")
	return cmd
}

func booksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <book-id>",
		Short: "Show one book in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBookID(args[0])
			if err != nil {
				return err
			}
			book, err := client.GetBook(cmd.Context(), id)
			if err != nil {
				return err
			}

			available := "Yes"
			if !book.Available {
				available = "No"
			}
			fmt.Printf("Title:       %s\n", book.Title)
			fmt.Printf("Author:      %s\n", book.Author)
			fmt.Printf("Category:    %s\n", book.Category)
			fmt.Printf("ISBN:        %s\n", book.Isbn)
			fmt.Printf("Available:   %s\n", available)
			if book.Description != "" {
				fmt.Printf("Description: %s\n", book.Description)
			}
			return nil
		},
	}
}

func booksSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search books by title or author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := client.SearchBooks(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Printf("No books found matching '%s'.\n", args[0])
				return nil
			}
			printBooks(books)
			return nil
		},
	}
}

func booksCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the catalog categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := client.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range categories {
				if c.Description != "" {
					fmt.Printf("%s -- %s\n", c.Name, c.Description)
				} else {
					fmt.Println(c.Name)
				}
			}
			return nil
		},
	}
}

func printBooks(books []models.Book) {
	if len(books) == 0 {
		fmt.Println("No books in the catalog.")
		return
	}

	fmt.Printf("%-5s %-35s %-25s %-12s %s\n", "ID", "Title", "Author", "Category", "Available")
	fmt.Println(strings.Repeat("-", 90))
	for _, b := range books {
		available := "Yes"
		if !b.Available {
			available = "No"
		}
		fmt.Printf("%-5d %-35s %-25s %-12s %s\n",
			b.ID,
			truncateString(b.Title, 35),
			truncateString(b.Author, 25),
			truncateString(b.Category, 12),
			available)
	}
}

func parseBookID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid book ID: %s", raw)
	}
	return uint(id), nil
}
