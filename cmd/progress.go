package cmd

import (
	"fmt"

	"github.com/ivasilev/secdojo/internal/store"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress <course-id>",
	Short: "Show locally recorded activity for a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID := args[0]

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()
		history := st.HistoryRepo()

		visits, _ := history.CountByKind(ctx, courseID, store.KindVisit)
		completions, _ := history.CountByKind(ctx, courseID, store.KindCompletion)
		asks, _ := history.CountByKind(ctx, courseID, store.KindMentorAsk)

		fmt.Printf("Course %s\n", courseID)
		fmt.Printf("  lesson visits:    %d\n", visits)
		fmt.Printf("  completions:      %d\n", completions)
		fmt.Printf("  mentor questions: %d\n", asks)

		events, err := history.ListRecent(ctx, courseID, 10)
		if err != nil || len(events) == 0 {
			return nil
		}
		fmt.Println("\nRecent activity:")
		for _, e := range events {
			fmt.Printf("  %s  %-10s %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Kind, e.ContentID)
		}
		return nil
	},
}
