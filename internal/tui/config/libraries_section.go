package config

import (
	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// librariesSection edits the movie and show roots plus the SMB mount
// settings that re-root them.
type librariesSection struct {
	state *LibrariesState
	theme theme.Theme
	icons theme.IconSet
	width int
}

func newLibrariesSection(state *LibrariesState, th theme.Theme) *librariesSection {
	return &librariesSection{
		state: state,
		theme: th,
		icons: th.IconSet(),
	}
}

func (s *librariesSection) Section() Section { return SectionLibraries }
func (s *librariesSection) Title() string    { return "Libraries" }

func (s *librariesSection) Focus() tea.Cmd {
	s.ensureFocusable()
	return s.applyFocus()
}

func (s *librariesSection) Blur() {
	s.state.MoviePaths.Blur()
	s.state.ShowPaths.Blur()
	s.state.MountPoint.Blur()
}

func (s *librariesSection) Resize(width int) { s.width = width }

func (s *librariesSection) Init() tea.Cmd { return nil }

// focusOrder lists the reachable fields. The mount point only joins
// when the SMB toggle is on.
func (s *librariesSection) focusOrder() []LibrariesField {
	order := []LibrariesField{LibrariesFieldMovies, LibrariesFieldShows, LibrariesFieldSMBToggle}
	if s.state.UseSMB {
		order = append(order, LibrariesFieldMount)
	}
	return order
}

func (s *librariesSection) ensureFocusable() {
	for _, f := range s.focusOrder() {
		if f == s.state.Focus {
			return
		}
	}
	s.state.Focus = LibrariesFieldMovies
}

func (s *librariesSection) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || key.Alt {
		return s, nil
	}

	s.ensureFocusable()

	switch key.Type {
	case tea.KeyUp:
		return s, s.moveFocus(-1)
	case tea.KeyDown:
		return s, s.moveFocus(1)
	case tea.KeyEnter:
		if s.state.Focus == LibrariesFieldSMBToggle {
			return s, s.toggleSMB()
		}
		return s, nil
	case tea.KeySpace:
		if s.state.Focus == LibrariesFieldSMBToggle {
			return s, s.toggleSMB()
		}
		// Paths may contain spaces, so feed the rune through.
		key = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	}

	return s, s.updateActiveInput(key)
}

func (s *librariesSection) moveFocus(delta int) tea.Cmd {
	order := s.focusOrder()
	idx := 0
	for i, f := range order {
		if f == s.state.Focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	s.state.Focus = order[idx]
	return s.applyFocus()
}

func (s *librariesSection) toggleSMB() tea.Cmd {
	s.state.UseSMB = !s.state.UseSMB
	if !s.state.UseSMB {
		s.ensureFocusable()
	}
	return s.applyFocus()
}

func (s *librariesSection) applyFocus() tea.Cmd {
	s.Blur()
	switch s.state.Focus {
	case LibrariesFieldMovies:
		return s.state.MoviePaths.Focus()
	case LibrariesFieldShows:
		return s.state.ShowPaths.Focus()
	case LibrariesFieldMount:
		return s.state.MountPoint.Focus()
	}
	return nil
}

func (s *librariesSection) updateActiveInput(key tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch s.state.Focus {
	case LibrariesFieldMovies:
		s.state.MoviePaths, cmd = s.state.MoviePaths.Update(key)
	case LibrariesFieldShows:
		s.state.ShowPaths, cmd = s.state.ShowPaths.Update(key)
	case LibrariesFieldMount:
		if s.state.UseSMB {
			s.state.MountPoint, cmd = s.state.MountPoint.Update(key)
		}
	}
	return cmd
}

func (s *librariesSection) View() string {
	colors := s.theme.Colors()
	focusedStyle := lipgloss.NewStyle().Background(colors.Accent).Foreground(colors.Background)
	valueStyle := lipgloss.NewStyle().Foreground(colors.Primary)
	mutedStyle := lipgloss.NewStyle().Foreground(colors.Muted)

	title := s.theme.PanelTitleStyle().Render("Media Libraries")

	movieLine := "Movie Roots: "
	if s.state.Focus == LibrariesFieldMovies {
		movieLine += focusedStyle.Render(s.state.MoviePaths.View())
	} else {
		movieLine += valueStyle.Render(s.state.MoviePaths.Value())
	}

	showLine := "Show Roots: "
	if s.state.Focus == LibrariesFieldShows {
		showLine += focusedStyle.Render(s.state.ShowPaths.View())
	} else {
		showLine += valueStyle.Render(s.state.ShowPaths.Value())
	}

	checkbox := "[ ]"
	stateText := "Disabled"
	stateStyle := lipgloss.NewStyle().Foreground(colors.Error)
	if s.state.UseSMB {
		checkbox = "[" + s.icons["check"] + "]"
		stateText = "Enabled"
		stateStyle = lipgloss.NewStyle().Foreground(colors.Success)
	}
	toggleLine := "SMB Mount: "
	if s.state.Focus == LibrariesFieldSMBToggle {
		toggleLine += focusedStyle.Render(checkbox + " " + stateText)
	} else {
		toggleLine += stateStyle.Render(checkbox + " " + stateText)
	}

	mountLine := "Mount Point: "
	switch {
	case s.state.Focus == LibrariesFieldMount:
		mountLine += focusedStyle.Render(s.state.MountPoint.View())
	case s.state.UseSMB:
		mountLine += valueStyle.Render(s.state.MountPoint.Value())
	default:
		mountLine += mutedStyle.Render(s.state.MountPoint.Value() + " (disabled)")
	}

	help := mutedStyle.Render("Comma separated directories. The mount point re-roots them when enabled.")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		movieLine,
		showLine,
		toggleLine,
		mountLine,
		"",
		help,
	)
}
