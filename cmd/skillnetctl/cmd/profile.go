package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillnet-dev/skillnet-go/domain"
	"github.com/skillnet-dev/skillnet-go/session"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and edit user profiles",
}

var profileGetCmd = &cobra.Command{
	Use:   "get [USER_ID]",
	Short: "Show a user's profile (defaults to your own)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		var self *domain.User
		var userID string
		if len(args) == 1 {
			userID = args[0]
		} else {
			self = client.Session.Bootstrap(cmd.Context())
			if self == nil {
				return fmt.Errorf("not logged in; pass a USER_ID or run 'skillnetctl auth login'")
			}
			userID = self.ID
		}

		profile, err := client.Users.Profile(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("failed to fetch profile: %w", err)
		}

		// For the signed-in user, fold the profile document into the
		// session identity so snapshot-only fields still show.
		if self != nil {
			merged := domain.MergeProfile(*self, *profile)
			fmt.Printf("User ID: %s\n", merged.ID)
			fmt.Printf("Name:    %s\n", merged.Name)
			fmt.Printf("Email:   %s\n", merged.Email)
			if merged.Bio != "" {
				fmt.Printf("Bio:     %s\n", merged.Bio)
			}
			if merged.ProfilePictureURL != "" {
				fmt.Printf("Picture: %s\n", merged.ProfilePictureURL)
			}
			if len(merged.Skills) > 0 {
				fmt.Printf("Skills:  %s\n", strings.Join(merged.Skills, ", "))
			}
			return nil
		}

		fmt.Printf("User ID: %s\n", profile.UserID)
		if profile.FullName != "" {
			fmt.Printf("Name:    %s\n", profile.FullName)
		}
		if profile.Bio != "" {
			fmt.Printf("Bio:     %s\n", profile.Bio)
		}
		if profile.ProfilePictureURL != "" {
			fmt.Printf("Picture: %s\n", profile.ProfilePictureURL)
		}
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		if client.Session.Bootstrap(cmd.Context()) == nil {
			return fmt.Errorf("not logged in; run 'skillnetctl auth login'")
		}

		name, _ := cmd.Flags().GetString("name")
		bio, _ := cmd.Flags().GetString("bio")
		picture, _ := cmd.Flags().GetString("picture-url")
		skillsCSV, _ := cmd.Flags().GetString("skills")

		update := session.ProfileUpdate{
			Name:              name,
			Bio:               bio,
			ProfilePictureURL: picture,
		}
		if skillsCSV != "" {
			for _, s := range strings.Split(skillsCSV, ",") {
				if s = strings.TrimSpace(s); s != "" {
					update.Skills = append(update.Skills, s)
				}
			}
		}

		if err := client.Session.UpdateProfile(cmd.Context(), update); err != nil {
			return err
		}
		fmt.Println("Profile updated.")
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().String("name", "", "display name")
	profileUpdateCmd.Flags().String("bio", "", "profile bio")
	profileUpdateCmd.Flags().String("picture-url", "", "profile picture URL")
	profileUpdateCmd.Flags().String("skills", "", "comma-separated skill list")

	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileUpdateCmd)
}
