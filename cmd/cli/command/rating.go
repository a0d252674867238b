package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var ratingCmd = &cobra.Command{
	Use:   "rating",
	Short: "Rate books",
}

var rateCmd = &cobra.Command{
	Use:   "rate [book-id] [rate]",
	Short: "Rate a book (0-10); rating again replaces your rate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book ID: %w", err)
		}
		rate, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid rate: %w", err)
		}
		if rate < 0 || rate > 10 {
			return fmt.Errorf("rate must be between 0 and 10")
		}

		result, err := GetAuthenticatedClient().RateBook(bookID, rate)
		if err != nil {
			return fmt.Errorf("failed to rate book: %w", err)
		}

		fmt.Printf("Book %d rated %d, average now %.2f\n", result.BookID, result.Rate, result.CachedRate)
		return nil
	},
}

var unrateCmd = &cobra.Command{
	Use:   "remove [book-id]",
	Short: "Remove your rate from a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book ID: %w", err)
		}

		cached, err := GetAuthenticatedClient().RemoveRating(bookID)
		if err != nil {
			return fmt.Errorf("failed to remove rating: %w", err)
		}
		fmt.Printf("Rating removed, average now %.2f\n", cached)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ratingCmd)
	ratingCmd.AddCommand(rateCmd, unrateCmd)
}
