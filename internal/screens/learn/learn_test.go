package learn

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"

	"github.com/ivasilev/secdojo/internal/api"
	"github.com/ivasilev/secdojo/internal/course"
	sess "github.com/ivasilev/secdojo/internal/session"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testCatalog() *course.Catalog {
	return course.NewCatalog("c-1", []course.Section{
		{Title: "Recon", Contents: []course.Stub{
			{ContentID: "x1", Title: "Port Scanning Basics", Type: course.TypeVideo, SectionTitle: "Recon", DurationSecs: 100},
			{ContentID: "x2", Title: "Nmap Lab", Type: course.TypeLab, SectionTitle: "Recon"},
		}},
		{Title: "Exploitation", Contents: []course.Stub{
			{ContentID: "x3", Title: "Buffer Overflows", Type: course.TypeDocument, SectionTitle: "Exploitation"},
		}},
	})
}

func testLesson(id string, typ course.ContentType) *course.LessonDetail {
	return &course.LessonDetail{
		Content:  course.Content{ID: id, Title: "Lesson " + id, Type: typ},
		Progress: course.Progress{Status: course.StatusInProgress},
	}
}

func testClient() *api.MockClient {
	client := api.NewMockClient()
	client.Catalogs["c-1"] = testCatalog()
	client.Lessons["x1"] = testLesson("x1", course.TypeVideo)
	client.Lessons["x2"] = testLesson("x2", course.TypeLab)
	client.Lessons["x3"] = testLesson("x3", course.TypeDocument)
	return client
}

func testScreen() (*LearnScreen, *api.MockClient) {
	client := testClient()
	s := New(client, nil, nil, nil, "c-1", sess.DeepLink{Position: -1})
	return s, client
}

// loadedScreen drives the screen to a settled state on lesson id.
func loadedScreen(t *testing.T, id string) (*LearnScreen, *api.MockClient) {
	t.Helper()
	s, client := testScreen()

	s.Update(catalogMsg{Catalog: client.Catalogs["c-1"]})
	if s.st.CurrentContentID == "" {
		t.Fatal("entry lesson should be resolved after catalog load")
	}
	for s.st.CurrentContentID != id {
		seq := s.st.FetchSeq()
		s.Update(lessonMsg{Seq: seq, ContentID: s.st.CurrentContentID, Detail: testLesson(s.st.CurrentContentID, stubType(s, s.st.CurrentContentID))})
		s.Update(renderSettleMsg{Seq: s.st.FetchSeq()})
		s.Update(keyPress('n'))
	}
	seq := s.st.FetchSeq()
	s.Update(lessonMsg{Seq: seq, ContentID: id, Detail: testLesson(id, stubType(s, id))})
	s.Update(renderSettleMsg{Seq: s.st.FetchSeq()})
	return s, client
}

func stubType(s *LearnScreen, id string) course.ContentType {
	return s.st.Catalog.Find(id).Type
}

func TestEntryResolvesToFirstLesson(t *testing.T) {
	s, client := testScreen()
	s.Update(catalogMsg{Catalog: client.Catalogs["c-1"]})

	if s.st.CurrentContentID != "x1" {
		t.Errorf("entry lesson: want x1, got %q", s.st.CurrentContentID)
	}
	if !s.st.FetchInFlight {
		t.Error("entry navigation must start a lesson fetch")
	}
	if sess.ResolveLoading(s.st) != sess.LoadingNavigation {
		t.Error("loading must be navigation while the entry fetch runs")
	}
}

func TestExplicitDeepLinkWins(t *testing.T) {
	client := testClient()
	s := New(client, nil, nil, nil, "c-1", sess.DeepLink{ContentID: "x3", Position: -1})
	s.Update(catalogMsg{Catalog: client.Catalogs["c-1"]})

	if s.st.CurrentContentID != "x3" {
		t.Errorf("deep link entry: want x3, got %q", s.st.CurrentContentID)
	}
}

func TestStaleLessonResultDiscarded(t *testing.T) {
	s, _ := testScreen()
	s.Update(catalogMsg{Catalog: testCatalog()})
	staleSeq := s.st.FetchSeq()

	// Rapid second navigation before the first fetch settles.
	s.st.Navigating = false
	s.Update(keyPress('n'))
	if s.st.CurrentContentID != "x2" {
		t.Fatalf("should be on x2, got %q", s.st.CurrentContentID)
	}

	// The stale x1 result arrives after the switch; it must not apply.
	s.Update(lessonMsg{Seq: staleSeq, ContentID: "x1", Detail: testLesson("x1", course.TypeVideo)})
	if s.st.Detail != nil {
		t.Error("stale result must not populate the detail")
	}
	if !s.st.FetchInFlight {
		t.Error("the newer fetch is still outstanding")
	}

	// The current result applies normally.
	s.Update(lessonMsg{Seq: s.st.FetchSeq(), ContentID: "x2", Detail: testLesson("x2", course.TypeLab)})
	if s.st.Detail == nil || s.st.Detail.Content.ID != "x2" {
		t.Error("current result must apply")
	}
}

func TestNavigationBlockedWhileInFlight(t *testing.T) {
	s, client := testScreen()
	s.Update(catalogMsg{Catalog: client.Catalogs["c-1"]})
	calls := len(client.LessonCalls)

	// Still navigating: further navigation keys are ignored.
	s.Update(keyPress('n'))
	if s.st.CurrentContentID != "x1" {
		t.Error("navigation must be refused while one is in flight")
	}
	if len(client.LessonCalls) != calls {
		t.Error("no extra fetch may be issued")
	}
}

func TestRenderSettleClearsTransition(t *testing.T) {
	s, _ := loadedScreen(t, "x1")
	if s.st.Navigating || s.st.Rendering {
		t.Error("navigation and rendering must both be clear after settle")
	}
	if sess.ResolveLoading(s.st) != sess.LoadingNone {
		t.Error("loading must be none once settled")
	}
}

func TestStaleRenderSettleIgnored(t *testing.T) {
	s, _ := loadedScreen(t, "x1")
	seq := s.st.FetchSeq()
	s.Update(keyPress('n'))
	// A settle message from the previous lesson's transition arrives late.
	s.Update(renderSettleMsg{Seq: seq})
	if !s.st.Navigating {
		t.Error("stale settle must not end the new navigation")
	}
}

func TestManualCompletionLifecycle(t *testing.T) {
	s, client := loadedScreen(t, "x2")

	s.Update(keyPress('c'))
	if s.st.Completion == nil {
		t.Fatal("completion request must open")
	}
	req := s.st.Completion
	if req.Trigger != sess.TriggerManual {
		t.Errorf("trigger: want manual, got %s", req.Trigger)
	}
	if sess.ResolveLoading(s.st) != sess.LoadingNavigation {
		t.Error("open completion must surface as navigation loading")
	}

	// Mutation settles; the refetch is issued.
	s.Update(completeDoneMsg{Seq: req.Seq, ContentID: "x2"})
	if !s.st.FetchInFlight {
		t.Error("a successful mutation must trigger a refetch")
	}
	if !s.st.Catalog.Find("x2").IsCompleted {
		t.Error("catalog stub must be patched locally")
	}

	// Refetch settles; still waiting on the timer.
	s.Update(lessonMsg{Seq: s.st.FetchSeq(), ContentID: "x2", Detail: client.Lessons["x2"]})
	if s.st.Completion == nil {
		t.Fatal("request must stay open until the timer elapses")
	}

	s.Update(minDurationMsg{Seq: req.Seq})
	if s.st.Completion != nil {
		t.Error("request must close once all three conditions settle")
	}
}

func TestSecondCompletionKeyIgnored(t *testing.T) {
	s, _ := loadedScreen(t, "x2")
	_, cmd1 := s.Update(keyPress('c'))
	if cmd1 == nil {
		t.Fatal("first press must issue the mutation and timer commands")
	}
	req := s.st.Completion

	_, cmd2 := s.Update(keyPress('c'))
	if cmd2 != nil {
		t.Error("second press while a request is open must be inert")
	}
	if s.st.Completion != req {
		t.Error("the open request must be untouched")
	}
}

func TestNavigationRefusedDuringOpenCompletion(t *testing.T) {
	s, client := loadedScreen(t, "x2")

	s.Update(keyPress('c'))
	req := s.st.Completion
	if req == nil {
		t.Fatal("completion request must open")
	}
	calls := len(client.LessonCalls)

	// Navigation keys are inert while the request is open; switching
	// lessons here would orphan the mandated refetch.
	s.Update(keyPress('n'))
	if s.st.CurrentContentID != "x2" {
		t.Fatalf("must stay on x2, got %q", s.st.CurrentContentID)
	}
	if len(client.LessonCalls) != calls {
		t.Error("no fetch may be issued for the refused navigation")
	}

	// The lifecycle still runs to completion afterwards.
	s.Update(completeDoneMsg{Seq: req.Seq, ContentID: "x2"})
	s.Update(lessonMsg{Seq: s.st.FetchSeq(), ContentID: "x2", Detail: client.Lessons["x2"]})
	s.Update(renderSettleMsg{Seq: s.st.FetchSeq()})
	s.Update(minDurationMsg{Seq: req.Seq})
	if s.st.Completion != nil {
		t.Fatal("request must close once all three conditions settle")
	}
	if sess.ResolveLoading(s.st) != sess.LoadingNone {
		t.Error("loading must clear once the request closes")
	}

	s.Update(keyPress('n'))
	if s.st.CurrentContentID != "x3" {
		t.Errorf("navigation must work again after the close, got %q", s.st.CurrentContentID)
	}
}

func TestCompletionFailureSurfacedAndRetryable(t *testing.T) {
	s, client := loadedScreen(t, "x2")
	client.CompleteErr = errors.New("boom")

	s.Update(keyPress('c'))
	req := s.st.Completion
	s.Update(completeDoneMsg{Seq: req.Seq, ContentID: "x2", Err: client.CompleteErr})

	if s.st.Completion != nil {
		t.Error("failed completion must close immediately")
	}
	if s.st.CompletionErr == nil {
		t.Error("failure must be surfaced")
	}
	if s.st.FetchInFlight {
		t.Error("no refetch after a failed mutation")
	}

	// A later timer message for the dead request changes nothing.
	s.Update(minDurationMsg{Seq: req.Seq})
	if s.st.Completion != nil {
		t.Error("stale timer must not reopen the request")
	}

	// Retry succeeds.
	client.CompleteErr = nil
	s.Update(keyPress('c'))
	if s.st.Completion == nil {
		t.Error("retry must open a fresh request")
	}
}

func TestAutoCompletionAtThreshold(t *testing.T) {
	s, client := loadedScreen(t, "x1")

	s.Update(keyPress(' '))
	if !s.st.Playing {
		t.Fatal("space must start playback")
	}

	// 100s video: each tick advances 1%. Walk to just under threshold.
	for i := 0; i < 89; i++ {
		s.Update(playbackTickMsg{})
	}
	if s.st.Completion != nil {
		t.Fatal("no completion below the threshold")
	}
	if s.st.HasAutoCompleted {
		t.Fatal("dedupe flag must stay clear below the threshold")
	}

	s.Update(playbackTickMsg{})
	if s.st.Completion == nil {
		t.Fatal("crossing the threshold must open an auto completion")
	}
	if s.st.Completion.Trigger != sess.TriggerAuto {
		t.Errorf("trigger: want auto, got %s", s.st.Completion.Trigger)
	}
	if !s.st.HasAutoCompleted {
		t.Error("dedupe flag must be set when the auto request opens")
	}

	// Settle everything, then keep playing: no second trigger this visit.
	req := s.st.Completion
	s.Update(completeDoneMsg{Seq: req.Seq, ContentID: "x1"})
	s.Update(lessonMsg{Seq: s.st.FetchSeq(), ContentID: "x1", Detail: client.Lessons["x1"]})
	s.Update(renderSettleMsg{Seq: s.st.FetchSeq()})
	s.Update(minDurationMsg{Seq: req.Seq})

	for i := 0; i < 10; i++ {
		s.Update(playbackTickMsg{})
	}
	if s.st.Completion != nil {
		t.Error("auto completion must fire once per visit")
	}
}

func TestPlaybackStopsAtEnd(t *testing.T) {
	s, _ := loadedScreen(t, "x1")
	s.Update(keyPress(' '))
	for i := 0; i < 150; i++ {
		s.Update(playbackTickMsg{})
	}
	if s.st.WatchPercent != 100 {
		t.Errorf("watch percent must cap at 100, got %f", s.st.WatchPercent)
	}
	if s.st.Playing {
		t.Error("playback must stop at the end")
	}
}

func TestPlaybackOnlyForVideo(t *testing.T) {
	s, _ := loadedScreen(t, "x2")
	s.Update(keyPress(' '))
	if s.st.Playing {
		t.Error("space must be inert on a lab lesson")
	}
}

func TestVisitFlagsResetOnNavigation(t *testing.T) {
	s, _ := loadedScreen(t, "x1")
	s.Update(keyPress(' '))
	s.Update(playbackTickMsg{})
	s.Update(keyPress('m'))
	if !s.st.PlayerMaximized {
		t.Fatal("m must maximize the player")
	}

	s.Update(keyPress('m')) // un-maximize so navigation keys reach the screen
	s.Update(keyPress('n'))
	if s.st.Playing || s.st.WatchPercent != 0 || s.st.PlayerMaximized {
		t.Error("playback state must reset on navigation")
	}
}

func TestLessonFetchFailureAllowsNavigation(t *testing.T) {
	s, _ := testScreen()
	s.Update(catalogMsg{Catalog: testCatalog()})
	s.Update(lessonMsg{Seq: s.st.FetchSeq(), ContentID: "x1", Err: errors.New("lesson unavailable")})

	if s.st.DetailErr == nil {
		t.Fatal("fetch failure must be surfaced")
	}
	if sess.ResolveLoading(s.st) != sess.LoadingNone {
		t.Error("loading must clear so the error state is visible")
	}

	s.Update(keyPress('n'))
	if s.st.CurrentContentID != "x2" {
		t.Error("navigation away from a broken lesson must work")
	}
	if s.st.DetailErr != nil {
		t.Error("error must clear on navigation")
	}
}

func TestEmptyCatalogIsNotAnError(t *testing.T) {
	s, _ := testScreen()
	s.Update(catalogMsg{Catalog: course.NewCatalog("c-1", nil)})

	if s.st.CatalogErr != nil {
		t.Fatal("an empty catalog is a successful load, not a failure")
	}
	if s.st.CurrentContentID != "" {
		t.Errorf("no entry lesson may be resolved, got %q", s.st.CurrentContentID)
	}
	if s.st.FetchInFlight {
		t.Error("no lesson fetch may be issued")
	}
	if sess.ResolveLoading(s.st) != sess.LoadingNone {
		t.Error("loading must settle to none")
	}

	view := s.View(80, 24)
	if !strings.Contains(view, "no content yet") {
		t.Error("view must state the course has no content yet")
	}
}

func TestRetryAfterCatalogFailure(t *testing.T) {
	s, client := testScreen()
	s.Update(catalogMsg{Err: errors.New("api down")})
	if s.st.CatalogErr == nil {
		t.Fatal("catalog failure must be surfaced")
	}

	// r issues a fresh catalog fetch command.
	_, cmd := s.Update(keyPress('r'))
	if cmd == nil {
		t.Fatal("retry must produce a command")
	}
	msg := cmd()
	cm, ok := msg.(catalogMsg)
	if !ok {
		t.Fatalf("retry command must yield a catalogMsg, got %T", msg)
	}
	if cm.Err != nil {
		t.Fatalf("mock catalog fetch should succeed: %v", cm.Err)
	}
	s.Update(cm)
	if s.st.CatalogErr != nil {
		t.Error("catalog error must clear on a successful retry")
	}
	if len(client.CatalogCalls) == 0 {
		t.Error("retry must hit the client")
	}
}

func TestJumpPicker(t *testing.T) {
	s, _ := loadedScreen(t, "x1")

	s.Update(keyPress('g'))
	if !s.jumpActive {
		t.Fatal("g must open the jump picker")
	}
	if !s.WantsEsc() {
		t.Error("open picker must intercept Esc")
	}

	s.Update(keyPress('j'))
	s.Update(keyPress('j'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.jumpActive {
		t.Error("picker must close on selection")
	}
	if s.st.CurrentContentID != "x3" {
		t.Errorf("jump target: want x3, got %q", s.st.CurrentContentID)
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"Privilege Escalation", 10, "Privilege…"},
		{"Aufklärung über Zugriffe", 12, "Aufklärung …"},
		{"ペネトレーションテスト", 6, "ペネトレー…"},
	}
	for _, c := range cases {
		got := truncate(c.in, c.max)
		if got != c.want {
			t.Errorf("truncate(%q, %d): want %q, got %q", c.in, c.max, got, c.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", c.in, c.max)
		}
	}
}

func TestProgressReflectsCatalog(t *testing.T) {
	s, _ := loadedScreen(t, "x2")
	s.Update(keyPress('c'))
	s.Update(completeDoneMsg{Seq: s.st.Completion.Seq, ContentID: "x2"})

	completed, total := s.Progress()
	if completed != 1 || total != 3 {
		t.Errorf("progress: want 1/3, got %d/%d", completed, total)
	}
}
