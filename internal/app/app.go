// Package app holds the root Bubble Tea model: window sizing, the screen
// router, and the header/footer frame around the active screen.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ivasilev/secdojo/internal/api"
	"github.com/ivasilev/secdojo/internal/mentor"
	"github.com/ivasilev/secdojo/internal/router"
	"github.com/ivasilev/secdojo/internal/screen"
	"github.com/ivasilev/secdojo/internal/screens/home"
	"github.com/ivasilev/secdojo/internal/screens/learn"
	sess "github.com/ivasilev/secdojo/internal/session"
	"github.com/ivasilev/secdojo/internal/store"
	"github.com/ivasilev/secdojo/internal/ui/layout"
)

// Options carries the wired dependencies plus the optional deep link that
// opens a learning session directly.
type Options struct {
	Client  api.Client
	Resume  store.ResumeRepo
	History store.HistoryRepo
	Mentor  *mentor.Service

	// CourseID, when set, skips the home screen and opens the course.
	CourseID string
	Link     sess.DeepLink
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	var initial screen.Screen
	if opts.CourseID != "" {
		initial = learn.New(opts.Client, opts.Resume, opts.History, opts.Mentor, opts.CourseID, opts.Link)
	} else {
		initial = home.New(opts.Client, opts.Resume, opts.History, opts.Mentor)
	}
	return AppModel{router: router.New(initial)}
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if ei, ok := m.router.Active().(screen.EscInterceptor); ok && ei.WantsEsc() {
				break // deliver to the screen
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	completed, total := 0, 0
	if pp, ok := active.(screen.ProgressProvider); ok {
		completed, total = pp.Progress()
	}

	header := layout.RenderHeader(title, completed, total, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{
				{Key: "Esc", Description: "Back"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		} else {
			footerHints = []layout.KeyHint{
				{Key: "↑↓", Description: "Navigate"},
				{Key: "Enter", Description: "Select"},
				{Key: "Ctrl+C", Description: "Quit"},
			}
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
