package session

import (
	"errors"
	"testing"
	"time"

	"github.com/ivasilev/secdojo/internal/course"
)

func TestLastRequestWins(t *testing.T) {
	s := New("c-1")
	s.ApplyCatalog(navCatalog(), nil)

	seqA := s.BeginNavigation("x1")
	s.FinishRendering() // clear nav flags so the second jump is permitted
	seqB := s.BeginNavigation("x2")

	detailA := &course.LessonDetail{Content: course.Content{ID: "x1"}}
	detailB := &course.LessonDetail{Content: course.Content{ID: "x2"}}

	// B's fetch resolves first.
	if !s.ApplyDetail(seqB, "x2", detailB, nil) {
		t.Fatal("current fetch must apply")
	}

	// A's late response arrives afterwards and must be discarded.
	if s.ApplyDetail(seqA, "x1", detailA, nil) {
		t.Fatal("stale fetch must be discarded")
	}
	if s.Detail.Content.ID != "x2" {
		t.Errorf("state must correspond to x2, got %s", s.Detail.Content.ID)
	}
}

func TestRefetchSupersedesInFlightFetch(t *testing.T) {
	s := New("c-1")
	s.ApplyCatalog(navCatalog(), nil)

	old := s.BeginNavigation("x1")
	fresh := s.BeginRefetch()

	stale := &course.LessonDetail{Content: course.Content{ID: "x1"}, Progress: course.Progress{Status: course.StatusNotStarted}}
	updated := &course.LessonDetail{Content: course.Content{ID: "x1"}, Progress: course.Progress{Status: course.StatusCompleted}}

	if s.ApplyDetail(old, "x1", stale, nil) {
		t.Fatal("superseded fetch must be discarded even for the same id")
	}
	if !s.ApplyDetail(fresh, "x1", updated, nil) {
		t.Fatal("fresh fetch must apply")
	}
	if s.Detail.Progress.Status != course.StatusCompleted {
		t.Error("detail must reflect the last request")
	}
}

func TestNavigationGuards(t *testing.T) {
	s := New("c-1")

	// Empty catalog: no navigation.
	s.ApplyCatalog(course.NewCatalog("c-1", nil), nil)
	if s.CanNavigate() {
		t.Error("empty catalog must refuse navigation")
	}

	s.ApplyCatalog(navCatalog(), nil)
	if !s.CanNavigate() {
		t.Error("idle session must allow navigation")
	}

	seq := s.BeginNavigation("x1")
	if s.CanNavigate() {
		t.Error("in-flight navigation must refuse another")
	}

	s.ApplyDetail(seq, "x1", &course.LessonDetail{Content: course.Content{ID: "x1"}}, nil)
	s.BeginRendering()
	s.Navigating = false
	if s.CanNavigate() {
		t.Error("rendering transition must refuse navigation")
	}

	s.FinishRendering()
	if !s.CanNavigate() {
		t.Error("settled session must allow navigation")
	}

	// An open completion counts as an in-flight navigation.
	req := s.OpenCompletion(TriggerManual, time.Now())
	if req == nil {
		t.Fatal("completion request must open")
	}
	if s.CanNavigate() {
		t.Error("open completion must refuse navigation")
	}
	s.SettleMutation(req.Seq, nil)
	s.BeginRefetch()
	s.ApplyDetail(s.FetchSeq(), "x1", &course.LessonDetail{Content: course.Content{ID: "x1"}}, nil)
	s.SettleTimer(req.Seq)
	s.CloseCompletionIfDone()
	if !s.CanNavigate() {
		t.Error("closed completion must release navigation")
	}
}

func TestBeginNavigationResetsVisitFlags(t *testing.T) {
	s := New("c-1")
	s.ApplyCatalog(navCatalog(), nil)
	s.HasAutoCompleted = true
	s.Playing = true
	s.WatchPercent = 55
	s.PlayerMaximized = true
	s.Detail = &course.LessonDetail{Content: course.Content{ID: "x1"}}

	s.BeginNavigation("x2")

	if s.HasAutoCompleted || s.Playing || s.WatchPercent != 0 || s.PlayerMaximized {
		t.Error("visit-scoped flags must reset on navigation")
	}
	if s.Detail != nil {
		t.Error("previous detail must be dropped on navigation")
	}
	if s.CurrentContentID != "x2" {
		t.Errorf("current id: want x2, got %s", s.CurrentContentID)
	}
}

func TestApplyCatalogFailureKeepsPrevious(t *testing.T) {
	s := New("c-1")
	s.ApplyCatalog(navCatalog(), nil)

	s.ApplyCatalog(nil, errors.New("network down"))
	if s.Catalog == nil || !s.CatalogLoaded {
		t.Error("failed refetch must not drop the loaded catalog")
	}
	if s.CatalogErr == nil {
		t.Error("failure must be surfaced")
	}
}

func TestLessonErrorScopedToLesson(t *testing.T) {
	s := New("c-1")
	s.ApplyCatalog(navCatalog(), nil)

	seq := s.BeginNavigation("x1")
	s.ApplyDetail(seq, "x1", nil, errors.New("lesson unavailable"))
	s.FinishRendering()

	if s.DetailErr == nil {
		t.Fatal("lesson error must be surfaced")
	}
	// Navigation away from a broken lesson is still permitted.
	if !s.CanNavigate() {
		t.Error("lesson failure must not block navigation")
	}

	seq = s.BeginNavigation("x2")
	if s.DetailErr != nil {
		t.Error("lesson error must clear on navigation")
	}
	s.ApplyDetail(seq, "x2", &course.LessonDetail{Content: course.Content{ID: "x2"}}, nil)
	if s.Detail == nil {
		t.Error("next lesson must load normally")
	}
}
