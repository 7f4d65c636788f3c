// Package session holds the pure core of the learning-session coordinator:
// the session-state record, the loading-state reducer, catalog navigation,
// and the completion-request lifecycle. It has no knowledge of the event
// loop or the transport; the learn screen drives it through the mutator
// methods below and nothing else writes to it.
package session

import (
	"time"

	"github.com/ivasilev/secdojo/internal/course"
)

// State is the session-state record for one enrolled-course visit.
// CurrentContentID is the single source of truth for which lesson is
// active; all fetch results are reconciled against it (and the fetch
// sequence token) so stale responses never overwrite newer state.
type State struct {
	CourseID string

	Catalog       *course.Catalog
	CatalogLoaded bool
	CatalogErr    error

	CurrentContentID string
	Detail           *course.LessonDetail
	DetailErr        error

	// fetchSeq increases on every lesson fetch (navigation or refetch).
	// Only results carrying the current token are applied.
	fetchSeq      int
	FetchInFlight bool

	Navigating bool
	Rendering  bool

	Completion    *CompletionRequest
	completionSeq int
	CompletionErr error

	// Per-lesson-visit flags, reset whenever CurrentContentID changes.
	HasAutoCompleted bool
	Playing          bool
	WatchPercent     float64
	PlayerMaximized  bool
}

// New creates a session state for the given course.
func New(courseID string) *State {
	return &State{CourseID: courseID}
}

// ApplyCatalog installs a catalog fetch result. A failure leaves any
// previously loaded catalog in place so a retry can recover in-session.
func (s *State) ApplyCatalog(c *course.Catalog, err error) {
	if err != nil {
		s.CatalogErr = err
		return
	}
	s.Catalog = c
	s.CatalogLoaded = true
	s.CatalogErr = nil
}

// CanNavigate reports whether a navigation command may proceed. Navigation
// is refused while the catalog is empty, another navigation is in flight,
// a rendering transition is settling, or a completion request is open. An
// open completion counts as an in-flight navigation: switching lessons
// under it would orphan the mandated refetch and the request could never
// close.
func (s *State) CanNavigate() bool {
	return s.Catalog.Len() > 0 && !s.Navigating && !s.Rendering && s.Completion == nil
}

// BeginNavigation switches the active lesson to contentID, resets all
// lesson-visit flags, and returns the fetch token the caller must attach
// to the resulting lesson fetch. The previous detail is dropped so the
// loading reducer can distinguish "no cached detail yet" for the new id.
func (s *State) BeginNavigation(contentID string) int {
	s.CurrentContentID = contentID
	s.Detail = nil
	s.DetailErr = nil
	s.Navigating = true
	s.Rendering = false
	s.HasAutoCompleted = false
	s.Playing = false
	s.WatchPercent = 0
	s.PlayerMaximized = false
	s.fetchSeq++
	s.FetchInFlight = true
	return s.fetchSeq
}

// BeginRefetch re-runs the lesson fetch for the current id, superseding any
// in-flight fetch, and returns the new token.
func (s *State) BeginRefetch() int {
	s.fetchSeq++
	s.FetchInFlight = true
	return s.fetchSeq
}

// FetchSeq returns the current fetch token.
func (s *State) FetchSeq() int {
	return s.fetchSeq
}

// ApplyDetail reconciles a settled lesson fetch. Results carrying a stale
// token or a contentID other than the active one are discarded; the return
// value reports whether the result was applied. A failed fetch still counts
// as a settled refetch for any open completion, and ends the navigation so
// the error state is reachable.
func (s *State) ApplyDetail(seq int, contentID string, d *course.LessonDetail, err error) bool {
	if seq != s.fetchSeq || contentID != s.CurrentContentID {
		return false
	}
	s.FetchInFlight = false
	if s.Completion != nil && s.Completion.ContentID == contentID {
		s.Completion.RefetchSettled = true
	}
	if err != nil {
		s.DetailErr = err
		s.Navigating = false
		return true
	}
	s.Detail = d
	s.DetailErr = nil
	return true
}

// BeginRendering enters the one-tick transitional state after a new detail
// becomes available.
func (s *State) BeginRendering() {
	s.Rendering = true
}

// FinishRendering clears the rendering and navigation flags together, so
// the view never paints partially-updated content.
func (s *State) FinishRendering() {
	s.Rendering = false
	s.Navigating = false
}

// RecordWatchPercent updates playback progress for the active video and
// reports whether an auto-completion should fire: threshold crossed, lesson
// not already completed, and no auto-completion yet this visit.
func (s *State) RecordWatchPercent(pct float64) bool {
	s.WatchPercent = pct
	if pct < AutoCompleteThreshold {
		return false
	}
	if s.Detail == nil || s.Detail.Content.Type != course.TypeVideo {
		return false
	}
	if s.Detail.Progress.Status == course.StatusCompleted {
		return false
	}
	if s.HasAutoCompleted || s.Completion != nil {
		return false
	}
	return true
}

// LessonDuration returns the active lesson's duration from its catalog
// stub, or zero when unknown.
func (s *State) LessonDuration() time.Duration {
	stub := s.Catalog.Find(s.CurrentContentID)
	if stub == nil {
		return 0
	}
	return time.Duration(stub.DurationSecs) * time.Second
}
