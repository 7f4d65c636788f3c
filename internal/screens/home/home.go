// Package home is the landing screen: a small menu into the course
// browser and the progress overview.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ivasilev/secdojo/internal/api"
	"github.com/ivasilev/secdojo/internal/mentor"
	"github.com/ivasilev/secdojo/internal/router"
	"github.com/ivasilev/secdojo/internal/screen"
	"github.com/ivasilev/secdojo/internal/screens/courses"
	"github.com/ivasilev/secdojo/internal/screens/progress"
	"github.com/ivasilev/secdojo/internal/store"
	"github.com/ivasilev/secdojo/internal/ui/components"
	"github.com/ivasilev/secdojo/internal/ui/theme"
)

const banner = `
  ███ ███ ███ ██▄ ███ ▄██ ▄██
  █▄  █▄  █   █ █ █ █ █ █ █ █
  ▄▄█ █▄▄ ███ ███ ███ ██▀ ▀██
`

// HomeScreen is the application landing screen.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen with its navigation menu.
func New(client api.Client, resumeRepo store.ResumeRepo, historyRepo store.HistoryRepo, mentorSvc *mentor.Service) *HomeScreen {
	items := []components.MenuItem{
		{
			Label:  "BROWSE COURSES",
			Detail: "Pick a course and start learning",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: courses.New(client, resumeRepo, historyRepo, mentorSvc),
					}
				}
			},
		},
		{
			Label:  "PROGRESS",
			Detail: "Completion and activity across your courses",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: progress.New(client, historyRepo),
					}
				}
			},
		},
		{
			Label:  "QUIT",
			Detail: "Leave the dojo",
			Action: func() tea.Cmd {
				return tea.Quit
			},
		},
	}

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(banner))

	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("Hands-on security training, one lesson at a time."))

	sections = append(sections, "")
	sections = append(sections, h.menu.View())

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
