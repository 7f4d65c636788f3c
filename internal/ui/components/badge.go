package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/ivasilev/secdojo/internal/course"
	"github.com/ivasilev/secdojo/internal/ui/theme"
)

// TypeBadge renders a short colored tag for a content type.
func TypeBadge(t course.ContentType) string {
	var label string
	var bg color.Color

	switch t {
	case course.TypeVideo:
		label = "VIDEO"
		bg = theme.Primary
	case course.TypeLab:
		label = "LAB"
		bg = theme.Secondary
	case course.TypeGame:
		label = "GAME"
		bg = theme.Accent
	case course.TypeDocument:
		label = "DOC"
		bg = theme.TextDim
	default:
		label = "?"
		bg = theme.TextDim
	}

	return lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// StatusMark renders the completion marker used in catalog listings.
func StatusMark(completed bool) string {
	if completed {
		return theme.Completed.Render("✓")
	}
	return theme.Pending.Render("○")
}
