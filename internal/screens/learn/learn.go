// Package learn is the learning-session screen: it drives the session
// state record through catalog loading, lesson navigation, playback, and
// the completion lifecycle, one message at a time.
package learn

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/ivasilev/secdojo/internal/api"
	"github.com/ivasilev/secdojo/internal/course"
	"github.com/ivasilev/secdojo/internal/mentor"
	"github.com/ivasilev/secdojo/internal/screen"
	sess "github.com/ivasilev/secdojo/internal/session"
	"github.com/ivasilev/secdojo/internal/store"
	"github.com/ivasilev/secdojo/internal/ui/components"
	"github.com/ivasilev/secdojo/internal/ui/layout"
)

const (
	// renderSettleDelay is the length of the rendering transition after a
	// new lesson detail arrives: one paint cycle before loading flags clear.
	renderSettleDelay = 80 * time.Millisecond

	playbackTickInterval = time.Second
	mentorPollInterval   = 250 * time.Millisecond

	// defaultLessonDuration stands in when the catalog carries no duration,
	// so simulated playback still advances.
	defaultLessonDuration = 5 * time.Minute
)

// LearnScreen implements screen.Screen for an active learning session.
type LearnScreen struct {
	client  api.Client
	resume  store.ResumeRepo
	history store.HistoryRepo
	mentor  *mentor.Service

	courseID string
	link     sess.DeepLink

	st *sess.State

	jumpActive   bool
	jumpSelected int

	mentorActive bool
	mentorBusy   bool
	mentorInput  components.TextInput
	mentorAdvice *mentor.Advice
	mentorErr    error
}

var _ screen.Screen = (*LearnScreen)(nil)
var _ screen.KeyHintProvider = (*LearnScreen)(nil)
var _ screen.ProgressProvider = (*LearnScreen)(nil)
var _ screen.EscInterceptor = (*LearnScreen)(nil)

// New creates a learning-session screen for the given course. A non-empty
// link pins the entry lesson; otherwise the stored resume position applies.
// Repos and mentor may be nil, which disables persistence and the mentor
// panel respectively.
func New(client api.Client, resumeRepo store.ResumeRepo, historyRepo store.HistoryRepo, mentorSvc *mentor.Service, courseID string, link sess.DeepLink) *LearnScreen {
	return &LearnScreen{
		client:      client,
		resume:      resumeRepo,
		history:     historyRepo,
		mentor:      mentorSvc,
		courseID:    courseID,
		link:        link,
		st:          sess.New(courseID),
		mentorInput: components.NewTextInput("Ask about this lesson...", 200),
	}
}

func (s *LearnScreen) Init() tea.Cmd {
	return s.loadCatalog()
}

func (s *LearnScreen) Title() string {
	return "Learn"
}

// Progress reports course completion for the header.
func (s *LearnScreen) Progress() (int, int) {
	if s.st.Catalog == nil {
		return 0, 0
	}
	return s.st.Catalog.CompletedCount(), s.st.Catalog.Len()
}

// WantsEsc keeps Esc on this screen while a modal surface is open.
func (s *LearnScreen) WantsEsc() bool {
	return s.jumpActive || s.mentorActive || s.st.PlayerMaximized
}

func (s *LearnScreen) KeyHints() []layout.KeyHint {
	if s.jumpActive {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "Enter", Description: "Go"},
			{Key: "Esc", Description: "Close"},
		}
	}
	if s.mentorActive {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Ask"},
			{Key: "Esc", Description: "Close"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "n/p", Description: "Next/Prev"},
		{Key: "g", Description: "Jump"},
		{Key: "c", Description: "Complete"},
	}
	if s.st.Detail != nil && s.st.Detail.Content.Type == course.TypeVideo {
		hints = append(hints,
			layout.KeyHint{Key: "Space", Description: "Play/Pause"},
			layout.KeyHint{Key: "m", Description: "Maximize"},
		)
	}
	if s.mentor != nil {
		hints = append(hints, layout.KeyHint{Key: "a", Description: "Mentor"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	return hints
}

func (s *LearnScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogMsg:
		return s.handleCatalog(msg)
	case lessonMsg:
		return s.handleLesson(msg)
	case completeDoneMsg:
		return s.handleCompleteDone(msg)
	case minDurationMsg:
		s.st.SettleTimer(msg.Seq)
		s.st.CloseCompletionIfDone()
		return s, nil
	case renderSettleMsg:
		if msg.Seq == s.st.FetchSeq() {
			s.st.FinishRendering()
		}
		return s, nil
	case playbackTickMsg:
		return s.handlePlaybackTick()
	case mentorPollMsg:
		return s.handleMentorPoll()
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LearnScreen) handleCatalog(msg catalogMsg) (screen.Screen, tea.Cmd) {
	s.st.ApplyCatalog(msg.Catalog, msg.Err)
	if msg.Err != nil {
		return s, nil
	}

	id := s.link.ContentID
	pos := s.link.Position
	if id == "" && pos < 0 && msg.Resume != nil {
		id = msg.Resume.ContentID
		pos = msg.Resume.Position
	}

	entry := sess.ResolveEntry(s.st.Catalog, id, pos)
	if entry == "" {
		return s, nil
	}
	return s, s.navigate(entry)
}

func (s *LearnScreen) handleLesson(msg lessonMsg) (screen.Screen, tea.Cmd) {
	applied := s.st.ApplyDetail(msg.Seq, msg.ContentID, msg.Detail, msg.Err)
	if !applied {
		return s, nil
	}
	s.st.CloseCompletionIfDone()
	if msg.Err != nil {
		return s, nil
	}

	s.st.BeginRendering()
	seq := s.st.FetchSeq()
	return s, tea.Tick(renderSettleDelay, func(time.Time) tea.Msg {
		return renderSettleMsg{Seq: seq}
	})
}

func (s *LearnScreen) handleCompleteDone(msg completeDoneMsg) (screen.Screen, tea.Cmd) {
	trigger := ""
	if s.st.Completion != nil && s.st.Completion.Seq == msg.Seq {
		trigger = string(s.st.Completion.Trigger)
	}

	if !s.st.SettleMutation(msg.Seq, msg.Err) {
		s.st.CloseCompletionIfDone()
		return s, nil
	}

	// Mutation succeeded; the mandated refetch keeps the local lesson in
	// step with the server.
	token := s.st.BeginRefetch()
	return s, tea.Batch(
		s.fetchLesson(token, msg.ContentID),
		s.appendHistory(store.KindCompletion, msg.ContentID, trigger),
	)
}

func (s *LearnScreen) handlePlaybackTick() (screen.Screen, tea.Cmd) {
	if !s.st.Playing || s.st.Detail == nil {
		return s, nil
	}

	dur := s.st.LessonDuration()
	if dur <= 0 {
		dur = defaultLessonDuration
	}
	step := 100 / dur.Seconds()
	pct := s.st.WatchPercent + step
	if pct > 100 {
		pct = 100
	}

	var cmds []tea.Cmd
	if s.st.RecordWatchPercent(pct) {
		cmds = append(cmds, s.openCompletion(sess.TriggerAuto))
	}
	if pct >= 100 {
		s.st.Playing = false
	} else {
		cmds = append(cmds, playbackTick())
	}
	return s, tea.Batch(cmds...)
}

func (s *LearnScreen) handleMentorPoll() (screen.Screen, tea.Cmd) {
	if !s.mentorBusy {
		return s, nil
	}
	res, ok := s.mentor.Consume()
	if !ok {
		return s, mentorPoll()
	}
	s.mentorBusy = false
	s.mentorAdvice = res.Advice
	s.mentorErr = res.Err
	return s, nil
}

func (s *LearnScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.mentorActive {
		return s.handleMentorKey(msg, key)
	}
	if s.jumpActive {
		return s.handleJumpKey(key)
	}

	switch key {
	case "esc":
		if s.st.PlayerMaximized {
			s.st.PlayerMaximized = false
		}
		return s, nil
	case "n", "right":
		nav := sess.Locate(s.st.Catalog, s.st.CurrentContentID)
		if nav.HasNext && s.st.CanNavigate() {
			return s, s.navigate(nav.Next.ContentID)
		}
		return s, nil
	case "p", "left":
		nav := sess.Locate(s.st.Catalog, s.st.CurrentContentID)
		if nav.HasPrevious && s.st.CanNavigate() {
			return s, s.navigate(nav.Previous.ContentID)
		}
		return s, nil
	case "g":
		if s.st.Catalog.Len() > 0 {
			s.jumpActive = true
			s.jumpSelected = sess.Locate(s.st.Catalog, s.st.CurrentContentID).CurrentIndex
		}
		return s, nil
	case "c", "enter":
		if s.st.Detail == nil {
			return s, nil
		}
		return s, s.openCompletion(sess.TriggerManual)
	case " ", "space":
		return s.togglePlayback()
	case "m":
		if s.st.Detail != nil && s.st.Detail.Content.Type == course.TypeVideo {
			s.st.PlayerMaximized = !s.st.PlayerMaximized
		}
		return s, nil
	case "a":
		if s.mentor != nil && s.st.Detail != nil {
			s.mentorActive = true
			s.mentorAdvice = nil
			s.mentorErr = nil
			s.mentorInput = components.NewTextInput("Ask about this lesson...", 200)
			return s, s.mentorInput.Init()
		}
		return s, nil
	case "r":
		return s.retry()
	}

	return s, nil
}

func (s *LearnScreen) handleMentorKey(msg tea.KeyMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc":
		s.mentorActive = false
		s.mentorBusy = false
		return s, nil
	case "enter":
		if s.mentorBusy {
			return s, nil
		}
		text := s.mentorInput.Value()
		if text == "" {
			return s, nil
		}
		s.mentorBusy = true
		s.mentorAdvice = nil
		s.mentorErr = nil
		s.mentor.Ask(context.Background(), mentor.Question{Text: text, Lesson: s.st.Detail})
		return s, tea.Batch(
			mentorPoll(),
			s.appendHistory(store.KindMentorAsk, s.st.CurrentContentID, ""),
		)
	}
	var cmd tea.Cmd
	s.mentorInput, cmd = s.mentorInput.Update(msg)
	return s, cmd
}

func (s *LearnScreen) handleJumpKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "esc", "g":
		s.jumpActive = false
		return s, nil
	case "up", "k":
		if s.jumpSelected > 0 {
			s.jumpSelected--
		}
		return s, nil
	case "down", "j":
		if s.jumpSelected < s.st.Catalog.Len()-1 {
			s.jumpSelected++
		}
		return s, nil
	case "enter":
		s.jumpActive = false
		stub := s.st.Catalog.At(s.jumpSelected)
		if stub != nil && stub.ContentID != s.st.CurrentContentID && s.st.CanNavigate() {
			return s, s.navigate(stub.ContentID)
		}
		return s, nil
	}
	return s, nil
}

func (s *LearnScreen) togglePlayback() (screen.Screen, tea.Cmd) {
	d := s.st.Detail
	if d == nil || d.Content.Type != course.TypeVideo {
		return s, nil
	}
	s.st.Playing = !s.st.Playing
	if s.st.Playing {
		return s, playbackTick()
	}
	return s, nil
}

func (s *LearnScreen) retry() (screen.Screen, tea.Cmd) {
	switch {
	case s.st.CatalogErr != nil:
		return s, s.loadCatalog()
	case s.st.DetailErr != nil:
		token := s.st.BeginRefetch()
		return s, s.fetchLesson(token, s.st.CurrentContentID)
	case s.st.CompletionErr != nil:
		s.st.CompletionErr = nil
		return s, nil
	}
	return s, nil
}

// navigate switches the active lesson and issues the fetch plus the
// best-effort persistence writes.
func (s *LearnScreen) navigate(contentID string) tea.Cmd {
	token := s.st.BeginNavigation(contentID)
	return tea.Batch(
		s.fetchLesson(token, contentID),
		s.saveResume(contentID),
		s.appendHistory(store.KindVisit, contentID, ""),
	)
}

// openCompletion opens a completion request for the active lesson and
// issues the mutation plus the minimum-feedback timer. A nil request means
// one is already open or rendering is settling; nothing is issued then.
func (s *LearnScreen) openCompletion(trigger sess.Trigger) tea.Cmd {
	req := s.st.OpenCompletion(trigger, time.Now())
	if req == nil {
		return nil
	}
	seq := req.Seq
	contentID := req.ContentID
	minDur := req.MinDuration()
	return tea.Batch(
		s.completeLesson(seq, contentID),
		tea.Tick(minDur, func(time.Time) tea.Msg {
			return minDurationMsg{Seq: seq}
		}),
	)
}

func (s *LearnScreen) loadCatalog() tea.Cmd {
	client := s.client
	resumeRepo := s.resume
	courseID := s.courseID
	return func() tea.Msg {
		ctx := context.Background()
		catalog, err := client.FetchCatalog(ctx, courseID)
		if err != nil {
			return catalogMsg{Err: err}
		}
		var resume *store.ResumePosition
		if resumeRepo != nil {
			resume, _ = resumeRepo.Get(ctx, courseID)
		}
		return catalogMsg{Catalog: catalog, Resume: resume}
	}
}

func (s *LearnScreen) fetchLesson(seq int, contentID string) tea.Cmd {
	client := s.client
	return func() tea.Msg {
		detail, err := client.FetchLesson(context.Background(), contentID)
		return lessonMsg{Seq: seq, ContentID: contentID, Detail: detail, Err: err}
	}
}

func (s *LearnScreen) completeLesson(seq int, contentID string) tea.Cmd {
	client := s.client
	return func() tea.Msg {
		err := client.CompleteLesson(context.Background(), contentID)
		return completeDoneMsg{Seq: seq, ContentID: contentID, Err: err}
	}
}

func (s *LearnScreen) saveResume(contentID string) tea.Cmd {
	if s.resume == nil {
		return nil
	}
	repo := s.resume
	courseID := s.courseID
	link := sess.DeepLinkFor(s.st.Catalog, contentID)
	return func() tea.Msg {
		_ = repo.Save(context.Background(), store.ResumePosition{
			CourseID:  courseID,
			ContentID: link.ContentID,
			Position:  link.Position,
		})
		return nil
	}
}

func (s *LearnScreen) appendHistory(kind, contentID, trigger string) tea.Cmd {
	if s.history == nil {
		return nil
	}
	repo := s.history
	courseID := s.courseID
	return func() tea.Msg {
		_ = repo.Append(context.Background(), store.HistoryEvent{
			Kind:      kind,
			CourseID:  courseID,
			ContentID: contentID,
			Trigger:   trigger,
		})
		return nil
	}
}

func playbackTick() tea.Cmd {
	return tea.Tick(playbackTickInterval, func(t time.Time) tea.Msg {
		return playbackTickMsg(t)
	})
}

func mentorPoll() tea.Cmd {
	return tea.Tick(mentorPollInterval, func(t time.Time) tea.Msg {
		return mentorPollMsg(t)
	})
}
