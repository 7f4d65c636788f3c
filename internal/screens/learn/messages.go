package learn

import (
	"time"

	"github.com/ivasilev/secdojo/internal/course"
	"github.com/ivasilev/secdojo/internal/store"
)

// catalogMsg is sent when the catalog fetch settles. The resume record is
// read in the same command so entry resolution has both at once.
type catalogMsg struct {
	Catalog *course.Catalog
	Resume  *store.ResumePosition
	Err     error
}

// lessonMsg is sent when a lesson fetch settles. Seq and ContentID identify
// which request this answers; stale results are discarded on arrival.
type lessonMsg struct {
	Seq       int
	ContentID string
	Detail    *course.LessonDetail
	Err       error
}

// completeDoneMsg is sent when the completion mutation settles.
type completeDoneMsg struct {
	Seq       int
	ContentID string
	Err       error
}

// minDurationMsg is sent when a completion's minimum-feedback timer elapses.
type minDurationMsg struct {
	Seq int
}

// renderSettleMsg ends the one-tick rendering transition for the fetch
// identified by Seq.
type renderSettleMsg struct {
	Seq int
}

// playbackTickMsg advances simulated video playback once per second.
type playbackTickMsg time.Time

// mentorPollMsg polls the mentor service for a settled answer.
type mentorPollMsg time.Time
