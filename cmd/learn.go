package cmd

import (
	"github.com/spf13/cobra"
)

var learnCmd = &cobra.Command{
	Use:   "learn <course-id>",
	Short: "Open a learning session for a course",
	Long:  "Opens a learning session directly. Without --lesson or --position the session resumes where you left off.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentID, _ := cmd.Flags().GetString("lesson")
		position, _ := cmd.Flags().GetInt("position")
		return runApp(cmd, args[0], contentID, position)
	},
}

func init() {
	learnCmd.Flags().String("lesson", "", "Content ID of the lesson to open")
	learnCmd.Flags().Int("position", -1, "Zero-based lesson position to open (fallback when --lesson is unknown)")
}
