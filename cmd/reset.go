package cmd

import (
	"fmt"

	"github.com/ivasilev/secdojo/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <course-id>",
	Short: "Clear the stored resume position for a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		if err := st.ResumeRepo().Clear(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("clear resume position: %w", err)
		}
		fmt.Println("Resume position cleared. The next session starts from the first lesson.")
		return nil
	},
}
