package session

import (
	"time"

	"github.com/ivasilev/secdojo/internal/course"
)

// AutoCompleteThreshold is the watch percentage at which a video lesson
// completes without user action.
const AutoCompleteThreshold = 90.0

// Minimum visible-feedback durations. The indicator stays up at least this
// long even when the mutation and refetch settle sooner, so the learner
// perceives deliberate feedback rather than an instant flicker.
const (
	ManualMinDuration = 1500 * time.Millisecond
	AutoMinDuration   = 1000 * time.Millisecond
)

// Trigger distinguishes how a completion was initiated.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerAuto   Trigger = "auto"
)

// CompletionRequest tracks one in-flight lesson completion. It closes only
// once all three conditions hold: the mutation settled, the mandated
// refetch settled, and the minimum-duration timer elapsed. At most one
// request is open per active lesson.
type CompletionRequest struct {
	ContentID   string
	Trigger     Trigger
	InitiatedAt time.Time

	// Seq identifies this request so a timer message that outlives a
	// failed-and-closed request is discarded rather than mis-applied.
	Seq int

	MutationSettled bool
	RefetchSettled  bool
	TimerElapsed    bool
}

// MinDuration returns the enforced feedback floor for this trigger.
func (r *CompletionRequest) MinDuration() time.Duration {
	if r.Trigger == TriggerAuto {
		return AutoMinDuration
	}
	return ManualMinDuration
}

// Done reports whether all three closing conditions hold.
func (r *CompletionRequest) Done() bool {
	return r.MutationSettled && r.RefetchSettled && r.TimerElapsed
}

// OpenCompletion opens a completion request for the active lesson. It is a
// no-op (returns nil) when one is already open or a rendering transition is
// settling; on the auto path the per-visit dedupe flag is set so later
// playback events cannot re-trigger.
func (s *State) OpenCompletion(trigger Trigger, now time.Time) *CompletionRequest {
	if s.Completion != nil || s.Rendering {
		return nil
	}
	s.completionSeq++
	s.Completion = &CompletionRequest{
		ContentID:   s.CurrentContentID,
		Trigger:     trigger,
		InitiatedAt: now,
		Seq:         s.completionSeq,
	}
	s.CompletionErr = nil
	if trigger == TriggerAuto {
		s.HasAutoCompleted = true
	}
	return s.Completion
}

// SettleMutation records the completion mutation settling. On success the
// catalog stub is patched locally so catalog-derived views stay consistent
// until the refetch lands. On failure the request closes immediately and,
// for the auto path, the dedupe flag resets so a later playback event may
// retry. The caller refetches the lesson only when ok is true.
func (s *State) SettleMutation(seq int, err error) (ok bool) {
	r := s.Completion
	if r == nil || r.Seq != seq {
		return false
	}
	if err != nil {
		if r.Trigger == TriggerAuto {
			s.HasAutoCompleted = false
		}
		s.Completion = nil
		s.CompletionErr = err
		return false
	}
	r.MutationSettled = true
	s.Catalog.MarkCompleted(r.ContentID)
	if s.Detail != nil && s.Detail.Content.ID == r.ContentID {
		s.Detail.Progress.Status = course.StatusCompleted
	}
	return true
}

// SettleTimer records the minimum-duration timer elapsing for the request
// identified by seq. Timer messages for a request that already closed are
// ignored.
func (s *State) SettleTimer(seq int) {
	if s.Completion != nil && s.Completion.Seq == seq {
		s.Completion.TimerElapsed = true
	}
}

// CloseCompletionIfDone clears the open request once all three conditions
// hold, and reports whether it closed. Run after any condition changes.
func (s *State) CloseCompletionIfDone() bool {
	if s.Completion != nil && s.Completion.Done() {
		s.Completion = nil
		return true
	}
	return false
}
