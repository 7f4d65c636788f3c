package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ivasilev/secdojo/internal/ui/theme"
)

// ProgressBar renders completion as a horizontal rune bar. Percent is
// clamped to [0, 1] at render time.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the bar sized to fit Width alongside the label and the
// optional percentage suffix.
func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	suffixWidth := 0
	if p.ShowPercent {
		suffixWidth = 6 // "  100%"
	}

	barWidth := p.Width - lipgloss.Width(b.String()) - suffixWidth
	if barWidth < 4 {
		barWidth = 4
	}

	pct := p.Percent
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	filled := int(float64(barWidth) * pct)
	if filled > barWidth {
		filled = barWidth
	}

	b.WriteString(theme.ProgressFilled.Render(strings.Repeat("━", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat("╌", barWidth-filled)))

	if p.ShowPercent {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(pct*100))))
	}

	return b.String()
}
