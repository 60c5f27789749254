package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skillnet-dev/skillnet-go/api"
	"github.com/skillnet-dev/skillnet-go/dto"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Browse and publish skill posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		posts, err := client.Posts.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch feed: %w", err)
		}
		if len(posts) == 0 {
			fmt.Println("The feed is empty.")
			return nil
		}
		for _, post := range posts {
			fmt.Printf("%s  %s\n", post.ID, post.Description)
			fmt.Printf("    by %s on %s  (%d likes, %d comments)\n",
				post.UserID, post.Date.Format("2006-01-02"), len(post.Likes), len(post.Comments))
			for _, m := range post.Media {
				fmt.Printf("    %s: %s\n", m.Type, m.URL)
			}
		}
		return nil
	},
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a skill post",
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

		description, _ := cmd.Flags().GetString("description")
		if description == "" {
			return fmt.Errorf("--description is required")
		}
		mediaPath, _ := cmd.Flags().GetString("file")

		req := api.CreatePost{UserID: user.ID, Description: description}
		if mediaPath != "" {
			f, err := os.Open(mediaPath)
			if err != nil {
				return fmt.Errorf("failed to open media file: %w", err)
			}
			defer f.Close()
			req.File = f
			req.Filename = filepath.Base(mediaPath)
		}

		post, err := client.Posts.Create(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to publish post: %w", err)
		}
		fmt.Printf("Post published with ID %s.\n", post.ID)
		return nil
	},
}

var postsLikeCmd = &cobra.Command{
	Use:   "like [POST_ID]",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
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
		if err := client.Posts.Like(cmd.Context(), args[0], user.ID); err != nil {
			return fmt.Errorf("failed to like post: %w", err)
		}
		fmt.Println("Liked.")
		return nil
	},
}

var postsCommentCmd = &cobra.Command{
	Use:   "comment [POST_ID] [TEXT]",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
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
		comment, err := client.Comments.Create(cmd.Context(), args[0],
			dto.CommentRequest{UserID: user.ID, Content: args[1]})
		if err != nil {
			return fmt.Errorf("failed to comment: %w", err)
		}
		fmt.Printf("Comment added with ID %s.\n", comment.ID)
		return nil
	},
}

func init() {
	postsCreateCmd.Flags().String("description", "", "post text")
	postsCreateCmd.Flags().String("file", "", "path to an image or video to attach")

	rootCmd.AddCommand(postsCmd)
	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsCreateCmd)
	postsCmd.AddCommand(postsLikeCmd)
	postsCmd.AddCommand(postsCommentCmd)
}
