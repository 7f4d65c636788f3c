package cmd

import (
	"fmt"
	"os"

	"github.com/ivasilev/secdojo/internal/api"
	"github.com/ivasilev/secdojo/internal/app"
	"github.com/ivasilev/secdojo/internal/mentor"
	sess "github.com/ivasilev/secdojo/internal/session"
	"github.com/ivasilev/secdojo/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the local store, builds the platform client and optional
// mentor, and launches the TUI. A non-empty courseID deep-links straight
// into a learning session.
func runApp(cmd *cobra.Command, courseID, contentID string, position int) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	apiCfg, err := api.ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("platform API not configured: %w", err)
	}

	opts := app.Options{
		Client:   api.NewHTTPClient(apiCfg),
		Resume:   st.ResumeRepo(),
		History:  st.HistoryRepo(),
		CourseID: courseID,
		Link:     sess.DeepLink{ContentID: contentID, Position: position},
	}

	mentorCfg, err := mentor.ConfigFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Mentor not configured:", err)
		fmt.Fprintln(os.Stderr, "The AI mentor will be unavailable.")
	} else {
		svc, err := mentor.NewServiceFromConfig(ctx, mentorCfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Mentor unavailable:", err)
		} else {
			opts.Mentor = svc
		}
	}

	return app.Run(opts)
}
