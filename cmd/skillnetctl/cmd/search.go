package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [QUERY...]",
	Short: "Search plans, posts and users",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		result, err := client.Search.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(result.Plans) == 0 && len(result.Posts) == 0 && len(result.Users) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		if len(result.Plans) > 0 {
			fmt.Println("Learning plans:")
			for _, plan := range result.Plans {
				fmt.Printf("  %s  %s [%s]\n", plan.ID, plan.Title, plan.Subject)
			}
		}
		if len(result.Posts) > 0 {
			fmt.Println("Posts:")
			for _, post := range result.Posts {
				fmt.Printf("  %s  %s\n", post.ID, post.Description)
			}
		}
		if len(result.Users) > 0 {
			fmt.Println("Users:")
			for _, user := range result.Users {
				fmt.Printf("  %s  %s (@%s)\n", user.ID, user.Name, user.Username)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
