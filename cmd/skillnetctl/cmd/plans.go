package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Browse and follow learning plans",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all learning plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		plans, err := client.Plans.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch learning plans: %w", err)
		}
		if len(plans) == 0 {
			fmt.Println("No learning plans yet.")
			return nil
		}
		for _, plan := range plans {
			fmt.Printf("%s  %s [%s]\n", plan.ID, plan.Title, plan.Subject)
			fmt.Printf("    %d%% complete, %d topics, %d followers\n",
				plan.CompletionPercentage, len(plan.Topics), plan.Followers)
		}
		return nil
	},
}

var plansMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your own learning plans",
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

		plans, err := client.Plans.ForUser(cmd.Context(), user.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch your plans: %w", err)
		}
		if len(plans) == 0 {
			fmt.Println("You have no learning plans yet.")
			return nil
		}
		for _, plan := range plans {
			fmt.Printf("%s  %s [%s]  %d%%\n", plan.ID, plan.Title, plan.Subject, plan.CompletionPercentage)
		}
		return nil
	},
}

var plansShowCmd = &cobra.Command{
	Use:   "show [PLAN_ID]",
	Short: "Show a learning plan's checklist and resources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		plan, err := client.Plans.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch plan: %w", err)
		}

		fmt.Printf("%s [%s] — %d%% complete\n", plan.Title, plan.Subject, plan.CompletionPercentage)
		if plan.Description != "" {
			fmt.Println(plan.Description)
		}
		fmt.Println("Topics:")
		for _, topic := range plan.Topics {
			mark := " "
			if topic.Completed {
				mark = "x"
			}
			fmt.Printf("  [%s] %s\n", mark, topic.Title)
		}
		if len(plan.Resources) > 0 {
			fmt.Println("Resources:")
			for _, res := range plan.Resources {
				fmt.Printf("  (%s) %s — %s\n", res.Type, res.Title, res.URL)
			}
		}
		return nil
	},
}

var plansFollowCmd = &cobra.Command{
	Use:   "follow [PLAN_ID]",
	Short: "Follow a learning plan",
	Args:  cobra.ExactArgs(1),
	RunE:  followRun(true),
}

var plansUnfollowCmd = &cobra.Command{
	Use:   "unfollow [PLAN_ID]",
	Short: "Unfollow a learning plan",
	Args:  cobra.ExactArgs(1),
	RunE:  followRun(false),
}

func followRun(follow bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		user := client.Session.Bootstrap(cmd.Context())
		if user == nil {
			return fmt.Errorf("not logged in; run 'skillnetctl auth login'")
		}

		if follow {
			err = client.Plans.Follow(cmd.Context(), args[0], user.ID)
		} else {
			err = client.Plans.Unfollow(cmd.Context(), args[0], user.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to update follow state: %w", err)
		}
		if follow {
			fmt.Println("Following.")
		} else {
			fmt.Println("Unfollowed.")
		}
		return nil
	}
}

func init() {
	rootCmd.AddCommand(plansCmd)
	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansMineCmd)
	plansCmd.AddCommand(plansShowCmd)
	plansCmd.AddCommand(plansFollowCmd)
	plansCmd.AddCommand(plansUnfollowCmd)
}
