package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookshop/cmd/cli/command/client"
)

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Register, log in and refresh access tokens against the bookshop API.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		email, _ := cmd.Flags().GetString("email")

		response, err := client.NewHTTPClient(apiURL).Register(username, password, email)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Println("Registration successful, log in to continue.")
		fmt.Printf("UserID: %s\n", response.UserID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print the tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		response, err := client.NewHTTPClient(apiURL).Login(username, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("Logged in as %s (expires in %ds)\n", response.Username, response.ExpiresIn)
		fmt.Printf("export BOOKSHOP_TOKEN=%s\n", response.AccessToken)
		fmt.Printf("Refresh token: %s\n", response.RefreshToken)
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [refresh-token]",
	Short: "Exchange a refresh token for a new access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		response, err := client.NewHTTPClient(apiURL).Refresh(args[0])
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}
		fmt.Printf("export BOOKSHOP_TOKEN=%s\n", response.AccessToken)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(registerCmd, loginCmd, refreshCmd)

	registerCmd.Flags().StringP("username", "u", "", "username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "password for the new account")
	registerCmd.Flags().StringP("email", "e", "", "email address (optional)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("username", "u", "", "username")
	loginCmd.Flags().StringP("password", "p", "", "password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")
}
