package config

import (
	"unicode"

	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// scanningSection edits the scanner and cache knobs.
type scanningSection struct {
	state *ScanningState
	theme theme.Theme
	width int
}

func newScanningSection(state *ScanningState, th theme.Theme) *scanningSection {
	return &scanningSection{state: state, theme: th}
}

func (s *scanningSection) Section() Section { return SectionScanning }
func (s *scanningSection) Title() string    { return "Scanning" }

func (s *scanningSection) Focus() tea.Cmd { return s.applyFocus() }

func (s *scanningSection) Blur() {
	s.state.SeasonPrefix.Blur()
	s.state.Extensions.Blur()
	s.state.SampleSize.Blur()
	s.state.CacheTTL.Blur()
}

func (s *scanningSection) Resize(width int) { s.width = width }

func (s *scanningSection) Init() tea.Cmd { return nil }

func (s *scanningSection) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		return s, nil
	}

	var cmd tea.Cmd
	switch s.state.Focus {
	case ScanningFieldSeasonPrefix:
		if key.Type == tea.KeySpace {
			return s, nil
		}
		s.state.SeasonPrefix, cmd = s.state.SeasonPrefix.Update(key)
	case ScanningFieldExtensions:
		if key.Type == tea.KeySpace {
			key = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
		}
		s.state.Extensions, cmd = s.state.Extensions.Update(key)
	case ScanningFieldSampleSize:
		cmd = updateDigits(&s.state.SampleSize, key)
	case ScanningFieldCacheTTL:
		cmd = updateDigits(&s.state.CacheTTL, key)
	}
	return s, cmd
}

func (s *scanningSection) moveFocus(delta int) tea.Cmd {
	s.state.Focus = ScanningField((int(s.state.Focus) + delta + 4) % 4)
	return s.applyFocus()
}

func (s *scanningSection) applyFocus() tea.Cmd {
	s.Blur()
	switch s.state.Focus {
	case ScanningFieldSeasonPrefix:
		return s.state.SeasonPrefix.Focus()
	case ScanningFieldExtensions:
		return s.state.Extensions.Focus()
	case ScanningFieldSampleSize:
		return s.state.SampleSize.Focus()
	case ScanningFieldCacheTTL:
		return s.state.CacheTTL.Focus()
	}
	return nil
}

// updateDigits feeds only digit runes into a numeric input.
func updateDigits(input *textinput.Model, key tea.KeyMsg) tea.Cmd {
	if key.Type == tea.KeySpace {
		return nil
	}
	if key.Type == tea.KeyRunes {
		filtered := make([]rune, 0, len(key.Runes))
		for _, r := range key.Runes {
			if unicode.IsDigit(r) {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == 0 {
			return nil
		}
		key = tea.KeyMsg{Type: tea.KeyRunes, Runes: filtered}
	}
	var cmd tea.Cmd
	*input, cmd = input.Update(key)
	return cmd
}

func (s *scanningSection) View() string {
	colors := s.theme.Colors()
	focusedStyle := lipgloss.NewStyle().Background(colors.Accent).Foreground(colors.Background)
	valueStyle := lipgloss.NewStyle().Foreground(colors.Primary)
	mutedStyle := lipgloss.NewStyle().Foreground(colors.Muted)

	title := s.theme.PanelTitleStyle().Render("Scanning & Cache")

	renderField := func(label string, input textinput.Model, field ScanningField) string {
		line := label
		if s.state.Focus == field {
			line += focusedStyle.Render(input.View())
		} else {
			line += valueStyle.Render(input.Value())
		}
		return line
	}

	help := mutedStyle.Render("Sample size 0 scans everything. Cache TTL is in seconds.")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		renderField("Season Prefix: ", s.state.SeasonPrefix, ScanningFieldSeasonPrefix),
		renderField("Extensions: ", s.state.Extensions, ScanningFieldExtensions),
		renderField("Sample Size: ", s.state.SampleSize, ScanningFieldSampleSize),
		renderField("Cache TTL: ", s.state.CacheTTL, ScanningFieldCacheTTL),
		"",
		help,
	)
}
