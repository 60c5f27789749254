package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Short:   "Show activity on your posts",
	Aliases: []string{"notif"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		user := client.Session.Bootstrap(cmd.Context())
		if user == nil {
			return fmt.Errorf("not logged in; run 'skillnetctl auth login'")
		}

		notifications, err := client.Notifications.List(cmd.Context(), user.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch notifications: %w", err)
		}
		if len(notifications) == 0 {
			fmt.Println("No activity yet.")
			return nil
		}
		for _, n := range notifications {
			marker := "*"
			if n.Read {
				marker = " "
			}
			switch {
			case n.Message != "":
				fmt.Printf("%s %s: %s commented on your post: %q\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.Actor.ID, n.Message)
			default:
				fmt.Printf("%s %s: %s liked your post\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.Actor.ID)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
}
