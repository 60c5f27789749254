package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	skillnet "github.com/skillnet-dev/skillnet-go"
	"github.com/skillnet-dev/skillnet-go/relay"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication for skillnetctl",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to SkillNet and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, serverCtx, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		provider, _ := cmd.Flags().GetString("provider")
		if provider != "" {
			return oauthLogin(cmd.Context(), client, serverCtx.ServerEndpoint, provider)
		}

		fmt.Print("Enter email: ")
		reader := bufio.NewReader(os.Stdin)
		email, _ := reader.ReadString('\n')
		email = strings.TrimSpace(email)

		fmt.Print("Enter password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		result := client.Session.LoginWithCredentials(cmd.Context(), email, string(bytePassword))
		if !result.Success {
			return fmt.Errorf("login failed: %s", result.Error)
		}

		user := client.Session.CurrentUser()
		fmt.Printf("Login successful. Logged in as %s (ID: %s).\n", user.Email, user.ID)
		return nil
	},
}

// oauthLogin drives the browser flow: start the loopback relay, print the
// entry URL, and wait for the provider redirect to land.
func oauthLogin(ctx context.Context, client *skillnet.Client, serverBase, provider string) error {
	listener := relay.NewListener(client.Session)
	redirectURI, err := listener.Start()
	if err != nil {
		return err
	}
	defer listener.Close()

	loginURL, err := relay.LoginURL(serverBase, provider, redirectURI, listener.State())
	if err != nil {
		return err
	}

	fmt.Println("Open the following URL in your browser to continue:")
	fmt.Println("  " + loginURL)

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	result, err := listener.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("timed out waiting for the browser login: %w", err)
	}
	if result.Err != nil {
		return fmt.Errorf("login failed: %w", result.Err)
	}
	if result.User != nil {
		fmt.Printf("Login successful. Logged in as %s (ID: %s).\n", result.User.Username, result.User.ID)
	} else {
		fmt.Println("Login completed, but no profile could be loaded yet.")
	}
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		client.Session.Logout(cmd.Context())
		fmt.Println("Logged out. Local session cleared.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, serverCtx, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		token := client.Store.Token()
		if token == nil || token.AccessToken == "" {
			fmt.Println("Not logged in.")
			return nil
		}

		user := client.Session.Bootstrap(cmd.Context())
		if user == nil {
			fmt.Println("Token present but no identity could be resolved.")
			return nil
		}

		fmt.Printf("Server:   %s\n", serverCtx.ServerEndpoint)
		fmt.Printf("User:     %s (%s)\n", user.Name, user.ID)
		fmt.Printf("Username: %s\n", user.Username)
		fmt.Printf("Email:    %s\n", user.Email)
		if !token.ExpiresAt.IsZero() {
			fmt.Printf("Token expires at %s\n", token.ExpiresAt.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().String("provider", "", "OAuth provider to log in through (google|github)")

	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}
