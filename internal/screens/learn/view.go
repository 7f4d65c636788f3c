package learn

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ivasilev/secdojo/internal/api"
	"github.com/ivasilev/secdojo/internal/course"
	sess "github.com/ivasilev/secdojo/internal/session"
	"github.com/ivasilev/secdojo/internal/ui/components"
	"github.com/ivasilev/secdojo/internal/ui/theme"
)

const sidebarWidth = 34

func (s *LearnScreen) View(width, height int) string {
	loading := sess.ResolveLoading(s.st)

	if loading == sess.LoadingInitial {
		if s.st.CatalogErr != nil {
			return renderError(width, "Could not load the course catalog: "+s.st.CatalogErr.Error(), "Press r to retry, Esc to go back.")
		}
		return renderCentered(width, theme.TextDim, "\n\n\n  Loading course catalog...")
	}

	// Loaded but empty is a valid catalog, not a failure.
	if s.st.Catalog.Len() == 0 {
		return renderCentered(width, theme.TextDim, "\n\n\n  This course has no content yet.\n\n  Check back once lessons are published.")
	}

	if s.st.PlayerMaximized && s.st.Detail != nil {
		return s.renderMaximizedPlayer(width, height)
	}

	main := width - sidebarWidth - 2
	if main < 20 {
		main = 20
	}

	sidebar := s.renderSidebar(sidebarWidth, height)

	var pane string
	switch {
	case s.jumpActive:
		pane = s.renderJumpPicker(main, height)
	default:
		pane = s.renderLessonPane(main, height, loading)
	}

	if s.mentorActive {
		pane = lipgloss.JoinVertical(lipgloss.Left, pane, s.renderMentorPanel(main))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", pane)
}

// renderSidebar renders the section-grouped catalog with the active lesson
// highlighted.
func (s *LearnScreen) renderSidebar(width, height int) string {
	var b strings.Builder

	pct := s.st.Catalog.ProgressPercent()
	b.WriteString(components.NewProgressBar("Course", pct/100, true, width-4).View())
	b.WriteString("\n\n")

	for _, section := range s.st.Catalog.Sections {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render(truncate(section.Title, width-4)))
		b.WriteString("\n")

		for _, stub := range section.Contents {
			mark := components.StatusMark(stub.IsCompleted)
			label := truncate(stub.Title, width-8)
			line := fmt.Sprintf(" %s %s", mark, label)
			if stub.ContentID == s.st.CurrentContentID {
				line = lipgloss.NewStyle().
					Foreground(theme.Primary).
					Bold(true).
					Render("▸" + line[1:])
			} else {
				line = lipgloss.NewStyle().Foreground(theme.Text).Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(b.String())
}

func (s *LearnScreen) renderLessonPane(width, height int, loading sess.Loading) string {
	if s.st.Completion != nil {
		return s.renderCompletionBanner(width)
	}

	switch loading {
	case sess.LoadingNavigation:
		return renderCentered(width, theme.TextDim, "\n\n\n  Switching lesson...")
	case sess.LoadingContent:
		return renderCentered(width, theme.TextDim, "\n\n\n  Loading lesson...")
	case sess.LoadingRendering:
		return renderCentered(width, theme.TextDim, "\n\n\n  Preparing lesson...")
	}

	if s.st.DetailErr != nil {
		return renderError(width, "Could not load this lesson: "+s.st.DetailErr.Error(), "Press r to retry, or navigate to another lesson.")
	}

	d := s.st.Detail
	if d == nil {
		return renderCentered(width, theme.TextDim, "\n\n\n  No lesson selected.")
	}

	var b strings.Builder

	nav := sess.Locate(s.st.Catalog, s.st.CurrentContentID)
	posStr := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Lesson %d of %d", nav.Position, nav.Total))

	b.WriteString(components.TypeBadge(d.Content.Type))
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(d.Content.Title))
	b.WriteString("  ")
	b.WriteString(posStr)
	b.WriteString("\n")

	if d.Progress.Status == course.StatusCompleted {
		b.WriteString(theme.Completed.Render("✓ Completed"))
		b.WriteString("\n")
	}
	if s.st.CompletionErr != nil {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Error).
			Render("Completion failed: " + s.st.CompletionErr.Error() + " (press c to retry)"))
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width-2)))
	b.WriteString("\n\n")

	if d.Content.Description != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width - 4).
			Foreground(theme.Text).
			Render(d.Content.Description))
		b.WriteString("\n\n")
	}

	switch d.Content.Type {
	case course.TypeVideo:
		b.WriteString(s.renderPlayer(width - 4))
	case course.TypeLab, course.TypeGame:
		b.WriteString(s.renderInstructions(d, width-4))
	}

	if d.HasPlayground() {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render("⚑ Playground available: " + strings.Join(d.Content.AvailableTools, ", ")))
		b.WriteString("\n")
	}

	if len(d.Content.Resources) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Resources"))
		b.WriteString("\n")
		for _, r := range d.Content.Resources {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  • " + r.Title + "  " + r.URL))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(b.String())
}

// renderPlayer renders the simulated video player: state line plus a
// watch-progress bar.
func (s *LearnScreen) renderPlayer(width int) string {
	var b strings.Builder

	state := "▶ Press Space to play"
	if s.st.Playing {
		state = "⏸ Playing (Space to pause)"
	} else if s.st.WatchPercent > 0 {
		state = "▶ Paused (Space to resume)"
	}

	dur := s.st.LessonDuration()
	watched := dur.Seconds() * s.st.WatchPercent / 100
	timeStr := fmt.Sprintf("%s / %s", formatSeconds(int(watched)), formatSeconds(int(dur.Seconds())))

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(state))
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(timeStr))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", s.st.WatchPercent/100, true, width).View())
	b.WriteString("\n")

	return b.String()
}

func (s *LearnScreen) renderMaximizedPlayer(width, height int) string {
	d := s.st.Detail
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(d.Content.Title))
	b.WriteString("\n\n")
	player := s.renderPlayer(min(width-8, 80))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, player))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press m or Esc to exit the full-screen player"))
	return b.String()
}

// renderInstructions renders parsed lab/game instructions, falling back to
// the raw text when the payload is absent.
func (s *LearnScreen) renderInstructions(d *course.LessonDetail, width int) string {
	inst, err := api.ParseInstructions(d.Content.Instructions)
	if err != nil || inst == nil {
		if d.Content.Instructions != "" {
			return lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(d.Content.Instructions) + "\n"
		}
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("No instructions provided for this exercise.") + "\n"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Objective"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(inst.Objective))
	b.WriteString("\n\n")

	for i, step := range inst.Steps {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Render(fmt.Sprintf("%d. %s", i+1, step.Title)))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width - 3).Foreground(theme.Text).Render("   " + step.Body))
		b.WriteString("\n")
		if step.Command != "" {
			b.WriteString(lipgloss.NewStyle().
				Foreground(theme.Accent).
				Background(theme.BgCard).
				Render("   $ " + step.Command))
			b.WriteString("\n")
		}
	}

	if len(inst.Hints) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Hints"))
		b.WriteString("\n")
		for _, h := range inst.Hints {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  ◦ " + h))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *LearnScreen) renderCompletionBanner(width int) string {
	label := "Marking lesson complete..."
	if s.st.Completion.Trigger == sess.TriggerAuto {
		label = "Lesson watched — marking complete..."
	}
	return renderCentered(width, theme.Success, "\n\n\n  ✓ "+label)
}

func (s *LearnScreen) renderJumpPicker(width, height int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Jump to lesson"))
	b.WriteString("\n\n")

	for i := 0; i < s.st.Catalog.Len(); i++ {
		stub := s.st.Catalog.At(i)
		mark := components.StatusMark(stub.IsCompleted)
		line := fmt.Sprintf(" %s %s  %s", mark, truncate(stub.Title, width-16), stub.SectionTitle)
		if i == s.jumpSelected {
			line = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("▸" + line[1:])
		} else {
			line = lipgloss.NewStyle().Foreground(theme.Text).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(b.String())
}

func (s *LearnScreen) renderMentorPanel(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Mentor"))
	b.WriteString("\n")

	switch {
	case s.mentorBusy:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Thinking..."))
	case s.mentorErr != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("Mentor unavailable: " + s.mentorErr.Error()))
	case s.mentorAdvice != nil:
		b.WriteString(lipgloss.NewStyle().Width(width - 4).Foreground(theme.Text).Render(s.mentorAdvice.Answer))
		if len(s.mentorAdvice.KeyPoints) > 0 {
			b.WriteString("\n")
			for _, p := range s.mentorAdvice.KeyPoints {
				b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  • " + p))
				b.WriteString("\n")
			}
		}
	default:
		b.WriteString(s.mentorInput.View())
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(b.String())
}

func renderCentered(width int, c color.Color, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(c).
		Render(text)
}

func renderError(width int, msg, hint string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("\n\n\n  " + msg + "\n\n  " + hint)
}

// truncate shortens s to at most max runes, never splitting a rune.
func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func formatSeconds(total int) string {
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
