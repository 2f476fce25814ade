package components

import (
	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// NewViewport constructs a borderless themed viewport. Dimensions are
// clamped to zero so panel math on tiny terminals never underflows.
func NewViewport(width, height int, th theme.Theme) *viewport.Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	vp := viewport.New(width, height)
	vp.Style = th.PanelStyle().
		BorderStyle(lipgloss.Border{}).
		BorderForeground(lipgloss.Color(""))
	return &vp
}
