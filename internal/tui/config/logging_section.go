package config

import (
	"unicode"

	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loggingSection edits the journaling toggle and retention window.
type loggingSection struct {
	state *LoggingState
	theme theme.Theme
	icons theme.IconSet
	width int
}

func newLoggingSection(state *LoggingState, th theme.Theme) *loggingSection {
	return &loggingSection{
		state: state,
		theme: th,
		icons: th.IconSet(),
	}
}

func (s *loggingSection) Section() Section { return SectionLogging }
func (s *loggingSection) Title() string    { return "Logging" }

func (s *loggingSection) Focus() tea.Cmd { return s.applyFocus() }

func (s *loggingSection) Blur() {
	s.state.Retention.Blur()
}

func (s *loggingSection) Resize(width int) { s.width = width }

func (s *loggingSection) Init() tea.Cmd { return nil }

func (s *loggingSection) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || key.Alt {
		return s, nil
	}

	switch key.Type {
	case tea.KeyUp:
		return s, s.moveFocus(-1)
	case tea.KeyDown:
		return s, s.moveFocus(1)
	case tea.KeyEnter:
		if s.state.Focus == LoggingFieldToggle {
			s.state.Enabled = !s.state.Enabled
		}
		return s, nil
	case tea.KeySpace:
		if s.state.Focus == LoggingFieldToggle {
			s.state.Enabled = !s.state.Enabled
		}
		return s, nil
	}

	if s.state.Focus == LoggingFieldRetention && s.state.Enabled {
		if key.Type == tea.KeyRunes {
			filtered := make([]rune, 0, len(key.Runes))
			for _, r := range key.Runes {
				if unicode.IsDigit(r) {
					filtered = append(filtered, r)
				}
			}
			if len(filtered) == 0 {
				return s, nil
			}
			key = tea.KeyMsg{Type: tea.KeyRunes, Runes: filtered}
		}
		var cmd tea.Cmd
		s.state.Retention, cmd = s.state.Retention.Update(key)
		return s, cmd
	}

	return s, nil
}

func (s *loggingSection) moveFocus(delta int) tea.Cmd {
	s.state.Focus = LoggingField((int(s.state.Focus) + delta + 2) % 2)
	return s.applyFocus()
}

func (s *loggingSection) applyFocus() tea.Cmd {
	s.Blur()
	if s.state.Focus == LoggingFieldRetention && s.state.Enabled {
		return s.state.Retention.Focus()
	}
	return nil
}

func (s *loggingSection) View() string {
	colors := s.theme.Colors()
	focusedStyle := lipgloss.NewStyle().Background(colors.Accent).Foreground(colors.Background)
	valueStyle := lipgloss.NewStyle().Foreground(colors.Primary)
	mutedStyle := lipgloss.NewStyle().Foreground(colors.Muted)

	title := s.theme.PanelTitleStyle().Render("Logging Configuration")

	checkbox := "[ ]"
	stateText := "Disabled"
	stateStyle := lipgloss.NewStyle().Foreground(colors.Error)
	if s.state.Enabled {
		checkbox = "[" + s.icons["check"] + "]"
		stateText = "Enabled"
		stateStyle = lipgloss.NewStyle().Foreground(colors.Success)
	}
	toggleLine := "Session Journals: "
	if s.state.Focus == LoggingFieldToggle {
		toggleLine += focusedStyle.Render(checkbox + " " + stateText)
	} else {
		toggleLine += stateStyle.Render(checkbox + " " + stateText)
	}

	retentionLine := "Retention (days): "
	switch {
	case s.state.Focus == LoggingFieldRetention && s.state.Enabled:
		retentionLine += focusedStyle.Render(s.state.Retention.View())
	case s.state.Enabled:
		retentionLine += valueStyle.Render(s.state.Retention.Value())
	default:
		retentionLine += mutedStyle.Render(s.state.Retention.Value() + " (disabled)")
	}

	help := mutedStyle.Render("Session journals record every download so undo can reverse it.")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		toggleLine,
		retentionLine,
		"",
		help,
	)
}
