package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var genreCmd = &cobra.Command{
	Use:   "genre",
	Short: "Genre management commands",
	Long:  `List genres and create new ones.`,
}

var listGenresCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available genres",
	RunE: func(cmd *cobra.Command, args []string) error {
		genres, err := GetAuthenticatedClient().ListGenres()
		if err != nil {
			return fmt.Errorf("failed to get genres: %w", err)
		}

		if len(genres) == 0 {
			fmt.Println("No genres found.")
			return nil
		}

		fmt.Printf("Available genres (%d total):\n\n", len(genres))
		for _, g := range genres {
			fmt.Printf("ID: %d | Title: %s\n", g.ID, g.Title)
		}
		return nil
	},
}

var createGenreCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new genre",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		genre, err := GetAuthenticatedClient().CreateGenre(strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to create genre: %w", err)
		}

		fmt.Printf("Genre created: %d %s\n", genre.ID, genre.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genreCmd)
	genreCmd.AddCommand(listGenresCmd, createGenreCmd)
}
