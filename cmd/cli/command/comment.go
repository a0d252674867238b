package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment on books and like comments",
}

var addCommentCmd = &cobra.Command{
	Use:   "add [book-id] [text...]",
	Short: "Comment on a book",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bookID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid book ID: %w", err)
		}

		c, err := GetAuthenticatedClient().AddComment(bookID, strings.Join(args[1:], " "))
		if err != nil {
			return fmt.Errorf("failed to add comment: %w", err)
		}
		fmt.Printf("Comment %d added\n", c.ID)
		return nil
	},
}

var deleteCommentCmd = &cobra.Command{
	Use:   "delete [comment-id]",
	Short: "Delete your comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid comment ID: %w", err)
		}

		if err := GetAuthenticatedClient().DeleteComment(commentID); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		fmt.Printf("Comment %d deleted\n", commentID)
		return nil
	},
}

var likeCommentCmd = &cobra.Command{
	Use:   "like [comment-id]",
	Short: "Like a comment; --toggle flips the current state instead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid comment ID: %w", err)
		}

		c := GetAuthenticatedClient()
		toggle, _ := cmd.Flags().GetBool("toggle")
		unlike, _ := cmd.Flags().GetBool("unlike")

		var liked bool
		var count int64
		if toggle {
			res, err := c.ToggleLike(commentID)
			if err != nil {
				return fmt.Errorf("failed to toggle like: %w", err)
			}
			liked, count = res.Liked, res.CachedLike
		} else {
			res, err := c.SetLike(commentID, !unlike)
			if err != nil {
				return fmt.Errorf("failed to set like: %w", err)
			}
			liked, count = res.Liked, res.CachedLike
		}

		state := "unliked"
		if liked {
			state = "liked"
		}
		fmt.Printf("Comment %d %s (%d likes)\n", commentID, state, count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commentCmd)
	commentCmd.AddCommand(addCommentCmd, deleteCommentCmd, likeCommentCmd)

	likeCommentCmd.Flags().Bool("toggle", false, "flip the current like state")
	likeCommentCmd.Flags().Bool("unlike", false, "remove your like")
}
