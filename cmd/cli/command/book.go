package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Browse books",
}

var listBooksCmd = &cobra.Command{
	Use:   "list [page]",
	Short: "List books, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page := 1
		if len(args) == 1 {
			p, err := strconv.Atoi(args[0])
			if err != nil || p < 1 {
				return fmt.Errorf("invalid page %q", args[0])
			}
			page = p
		}

		result, err := GetAuthenticatedClient().ListBooks(page)
		if err != nil {
			return fmt.Errorf("failed to list books: %w", err)
		}
		if len(result.Data) == 0 {
			fmt.Println("No books found.")
			return nil
		}

		fmt.Printf("Page %d/%d (%d books)\n\n", result.Page, result.TotalPages, result.Total)
		for _, b := range result.Data {
			fmt.Printf("%d | %-40s | rate %.2f | %s\n", b.ID, b.Title, b.CachedRate, b.Slug)
		}
		return nil
	},
}

var showBookCmd = &cobra.Command{
	Use:   "show [slug]",
	Short: "Show a book with its first page of comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := GetAuthenticatedClient().GetBook(args[0])
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}

		b := detail.Book
		fmt.Printf("%s (id %d)\n", b.Title, b.ID)
		fmt.Printf("Authors: %v\n", b.Authors)
		fmt.Printf("Rate: %.2f\n", b.CachedRate)
		if detail.UserRate != nil {
			fmt.Printf("Your rate: %d\n", *detail.UserRate)
		}
		fmt.Printf("\n%s\n\n", b.Text)
		for _, c := range detail.Comments.Data {
			fmt.Printf("[%d] %s (%d likes): %s\n", c.ID, c.Username, c.CachedLike, c.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookCmd)
	bookCmd.AddCommand(listBooksCmd, showBookCmd)
}
