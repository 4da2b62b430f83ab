package main

import (
	"fmt"
	"time"

	"quill/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var (
		opts     seed.Options
		randSeed int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if randSeed == 0 {
				randSeed = time.Now().UnixNano()
			}
			sum, err := seed.NewFactory(current.svc, randSeed).Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d users, %d categories, %d posts, %d comments, %d likes, %d bookmarks\n",
				sum.Users, sum.Categories, sum.Posts, sum.Comments, sum.Likes, sum.Bookmarks)
			fmt.Fprintf(out, "every user has the password %q\n", seed.DemoPassword)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Users, "users", 10, "number of users to create")
	cmd.Flags().IntVar(&opts.Categories, "categories", 5, "number of categories to create")
	cmd.Flags().IntVar(&opts.Posts, "posts", 30, "number of posts to create")
	cmd.Flags().IntVar(&opts.CommentsPerPost, "comments", 3, "maximum comments per post")
	cmd.Flags().Int64Var(&randSeed, "seed", 0, "random seed (0 picks one)")
	return cmd
}
