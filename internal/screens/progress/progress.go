// Package progress is the progress overview: server-side completion per
// course combined with locally recorded activity.
package progress

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ivasilev/secdojo/internal/api"
	"github.com/ivasilev/secdojo/internal/course"
	"github.com/ivasilev/secdojo/internal/screen"
	"github.com/ivasilev/secdojo/internal/store"
	"github.com/ivasilev/secdojo/internal/ui/components"
	"github.com/ivasilev/secdojo/internal/ui/theme"
)

// courseStats is one course's server progress plus local activity counts.
type courseStats struct {
	Summary     course.Summary
	Visits      int
	Completions int
	MentorAsks  int
}

type statsMsg struct {
	Stats []courseStats
	Err   error
}

// ProgressScreen shows completion and activity across courses.
type ProgressScreen struct {
	client  api.Client
	history store.HistoryRepo

	stats  []courseStats
	loaded bool
	err    error
}

var _ screen.Screen = (*ProgressScreen)(nil)

// New creates the progress overview screen.
func New(client api.Client, historyRepo store.HistoryRepo) *ProgressScreen {
	return &ProgressScreen{client: client, history: historyRepo}
}

func (p *ProgressScreen) Init() tea.Cmd {
	client := p.client
	history := p.history
	return func() tea.Msg {
		ctx := context.Background()
		list, err := client.ListCourses(ctx)
		if err != nil {
			return statsMsg{Err: err}
		}
		stats := make([]courseStats, 0, len(list))
		for _, cs := range list {
			st := courseStats{Summary: cs}
			if history != nil {
				st.Visits, _ = history.CountByKind(ctx, cs.ID, store.KindVisit)
				st.Completions, _ = history.CountByKind(ctx, cs.ID, store.KindCompletion)
				st.MentorAsks, _ = history.CountByKind(ctx, cs.ID, store.KindMentorAsk)
			}
			stats = append(stats, st)
		}
		return statsMsg{Stats: stats}
	}
}

func (p *ProgressScreen) Title() string {
	return "Progress"
}

func (p *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		p.loaded = true
		p.err = msg.Err
		p.stats = msg.Stats
		return p, nil
	case tea.KeyMsg:
		if msg.String() == "r" && p.err != nil {
			p.loaded = false
			p.err = nil
			return p, p.Init()
		}
	}
	return p, nil
}

func (p *ProgressScreen) View(width, height int) string {
	if !p.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Crunching your progress...")
	}
	if p.err != nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n\n  Could not load progress: " + p.err.Error() + "\n\n  Press r to retry.")
	}
	if len(p.stats) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Nothing to report yet. Go learn something!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, st := range p.stats {
		b.WriteString(p.renderCourse(st, min(width-8, 72)))
		b.WriteString("\n")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (p *ProgressScreen) renderCourse(st courseStats, width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(st.Summary.Title))
	b.WriteString("\n")

	pct := 0.0
	if st.Summary.TotalLessons > 0 {
		pct = float64(st.Summary.CompletedLessons) / float64(st.Summary.TotalLessons)
	}
	b.WriteString(components.NewProgressBar("", pct, true, width-4).View())
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d visits · %d completions · %d mentor questions",
			st.Visits, st.Completions, st.MentorAsks)))

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(b.String())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
