// Package courses is the course picker: it lists enrolled courses and
// opens a learning session on the selected one.
package courses

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ivasilev/secdojo/internal/api"
	"github.com/ivasilev/secdojo/internal/course"
	"github.com/ivasilev/secdojo/internal/mentor"
	"github.com/ivasilev/secdojo/internal/router"
	"github.com/ivasilev/secdojo/internal/screen"
	"github.com/ivasilev/secdojo/internal/screens/learn"
	sess "github.com/ivasilev/secdojo/internal/session"
	"github.com/ivasilev/secdojo/internal/store"
	"github.com/ivasilev/secdojo/internal/ui/layout"
	"github.com/ivasilev/secdojo/internal/ui/theme"
)

// coursesMsg is sent when the course list fetch settles.
type coursesMsg struct {
	Courses []course.Summary
	Err     error
}

// CoursesScreen lists enrolled courses.
type CoursesScreen struct {
	client  api.Client
	resume  store.ResumeRepo
	history store.HistoryRepo
	mentor  *mentor.Service

	courses  []course.Summary
	selected int
	loaded   bool
	err      error
}

var _ screen.Screen = (*CoursesScreen)(nil)
var _ screen.KeyHintProvider = (*CoursesScreen)(nil)

// New creates the course picker.
func New(client api.Client, resumeRepo store.ResumeRepo, historyRepo store.HistoryRepo, mentorSvc *mentor.Service) *CoursesScreen {
	return &CoursesScreen{
		client:  client,
		resume:  resumeRepo,
		history: historyRepo,
		mentor:  mentorSvc,
	}
}

func (c *CoursesScreen) Init() tea.Cmd {
	client := c.client
	return func() tea.Msg {
		list, err := client.ListCourses(context.Background())
		return coursesMsg{Courses: list, Err: err}
	}
}

func (c *CoursesScreen) Title() string {
	return "Courses"
}

func (c *CoursesScreen) KeyHints() []layout.KeyHint {
	if c.err != nil {
		return []layout.KeyHint{
			{Key: "r", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Open"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case coursesMsg:
		c.loaded = true
		c.err = msg.Err
		if msg.Err == nil {
			c.courses = msg.Courses
			if c.selected >= len(c.courses) {
				c.selected = 0
			}
		}
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if c.selected > 0 {
				c.selected--
			}
		case "down", "j":
			if c.selected < len(c.courses)-1 {
				c.selected++
			}
		case "enter":
			if c.selected >= 0 && c.selected < len(c.courses) {
				picked := c.courses[c.selected]
				return c, func() tea.Msg {
					return router.PushScreenMsg{
						Screen: learn.New(c.client, c.resume, c.history, c.mentor,
							picked.ID, sess.DeepLink{Position: -1}),
					}
				}
			}
		case "r":
			if c.err != nil {
				c.loaded = false
				c.err = nil
				return c, c.Init()
			}
		}
	}
	return c, nil
}

func (c *CoursesScreen) View(width, height int) string {
	if !c.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Loading your courses...")
	}
	if c.err != nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("\n\n\n  Could not load courses: " + c.err.Error() + "\n\n  Press r to retry.")
	}
	if len(c.courses) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  No enrolled courses yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, cs := range c.courses {
		b.WriteString(c.renderCourse(cs, i == c.selected, width-8))
		b.WriteString("\n")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (c *CoursesScreen) renderCourse(cs course.Summary, selected bool, width int) string {
	titleStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	border := theme.Border
	if selected {
		titleStyle = titleStyle.Foreground(theme.Primary)
		border = theme.Primary
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(cs.Title))
	if cs.Difficulty != "" {
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render("[" + cs.Difficulty + "]"))
	}
	b.WriteString("\n")
	if cs.Description != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(cs.Description))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Render(fmt.Sprintf("%d/%d lessons completed", cs.CompletedLessons, cs.TotalLessons)))

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(b.String())
}
