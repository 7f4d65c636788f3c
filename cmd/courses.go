package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ivasilev/secdojo/internal/api"
	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List enrolled courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := api.ConfigFromEnv()
		if err != nil {
			return fmt.Errorf("platform API not configured: %w", err)
		}
		client := api.NewHTTPClient(cfg)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		list, err := client.ListCourses(ctx)
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No enrolled courses.")
			return nil
		}
		for _, c := range list {
			fmt.Printf("%-24s %s (%d/%d lessons)\n", c.ID, c.Title, c.CompletedLessons, c.TotalLessons)
		}
		return nil
	},
}
