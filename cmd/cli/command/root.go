package command

// root.go defines the root command for bookshopctl and its global flags.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bookshop/cmd/cli/command/client"
)

var (
	apiURL string // API server URL
	token  string // access token (jwt)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bookshopctl",
	Short: "bookshopctl - bookshop command line interface",
	Long: `bookshopctl talks to the bookshop API and maintains its database.

API commands (need --api, and --token or BOOKSHOP_TOKEN when acting as a user):
- browse books, rate them, comment and like comments
- manage genres

Admin commands (read DATABASE_URL and the rest of the server environment):
- migrate, reconcile, cleanup-tokens

Use "bookshopctl [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("BOOKSHOP_API", "http://localhost:8080"), "API server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BOOKSHOP_TOKEN"), "access token")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetAuthenticatedClient returns an API client carrying the access token.
func GetAuthenticatedClient() *client.HTTPClient {
	c := client.NewHTTPClient(apiURL)
	c.SetToken(token)
	return c
}
