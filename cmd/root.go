package cmd

import (
	"github.com/ivasilev/secdojo/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "secdojo",
	Short: "Terminal client for the SecDojo training platform",
	Long:  "SecDojo — a terminal client for hands-on cybersecurity training: browse courses, work through lessons and labs, and track your progress.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "", "", -1)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SECDOJO_DB env var)")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SECDOJO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
