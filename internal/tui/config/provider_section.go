package config

import (
	"strings"
	"unicode"

	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// providerSection edits the TMDB credentials and lookup languages. API
// key edits queue a debounced validation against the real API.
type providerSection struct {
	state *ProviderState
	theme theme.Theme
	icons theme.IconSet
	width int

	// Injectable so tests can stub out the network.
	tmdbValidate func(string) tea.Cmd
	tmdbDebounce func(string) tea.Cmd
}

func newProviderSection(state *ProviderState, th theme.Theme) *providerSection {
	return &providerSection{
		state:        state,
		theme:        th,
		icons:        th.IconSet(),
		tmdbValidate: validateTMDBAPIKey,
		tmdbDebounce: debouncedTMDBValidate,
	}
}

func (s *providerSection) Section() Section { return SectionProvider }
func (s *providerSection) Title() string    { return "TMDB" }

func (s *providerSection) Focus() tea.Cmd { return s.applyFocus() }

func (s *providerSection) Blur() {
	s.state.APIKey.Blur()
	s.state.Languages.Blur()
}

func (s *providerSection) Resize(width int) { s.width = width }

func (s *providerSection) Init() tea.Cmd { return nil }

// Activate validates the current key when the section gains focus.
// Keys that already passed validation are not re-checked.
func (s *providerSection) Activate() tea.Cmd {
	key := strings.TrimSpace(s.state.APIKey.Value())
	if key == "" || key == s.state.Validation.LastValidated {
		return nil
	}
	s.state.Validation.Status = ProviderValidationValidating
	return s.tmdbValidate(key)
}

func (s *providerSection) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Alt {
			return s, nil
		}
		return s.handleKey(msg)
	case tmdbValidateCmd:
		return s.handleValidateCmd(msg)
	case tmdbValidationMsg:
		return s.handleValidationMsg(msg)
	}
	return s, nil
}

func (s *providerSection) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
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
	case ProviderFieldAPIKey:
		if key.Type == tea.KeySpace {
			return s, nil
		}
		prev := s.state.APIKey.Value()
		s.state.APIKey, cmd = s.state.APIKey.Update(key)
		if s.state.APIKey.Value() != prev {
			cmd = tea.Batch(cmd, s.queueValidation())
		}
	case ProviderFieldLanguages:
		if key.Type == tea.KeySpace {
			key = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
		}
		if key.Type == tea.KeyRunes {
			filtered := make([]rune, 0, len(key.Runes))
			for _, r := range key.Runes {
				if unicode.IsLetter(r) || r == '-' || r == ',' || r == ' ' {
					filtered = append(filtered, r)
				}
			}
			if len(filtered) == 0 {
				return s, nil
			}
			key = tea.KeyMsg{Type: tea.KeyRunes, Runes: filtered}
		}
		s.state.Languages, cmd = s.state.Languages.Update(key)
	}
	return s, cmd
}

func (s *providerSection) moveFocus(delta int) tea.Cmd {
	s.state.Focus = ProviderField((int(s.state.Focus) + delta + 2) % 2)
	return s.applyFocus()
}

func (s *providerSection) applyFocus() tea.Cmd {
	s.Blur()
	switch s.state.Focus {
	case ProviderFieldAPIKey:
		return s.state.APIKey.Focus()
	case ProviderFieldLanguages:
		return s.state.Languages.Focus()
	}
	return nil
}

// queueValidation resets the status and schedules a debounced check so
// each keystroke does not hit the API.
func (s *providerSection) queueValidation() tea.Cmd {
	key := strings.TrimSpace(s.state.APIKey.Value())
	s.state.Validation.Reset()
	if key == "" {
		return nil
	}
	return s.tmdbDebounce(key)
}

// handleValidateCmd fires the real validation once the debounce window
// closes, unless the key changed or already validated in the meantime.
func (s *providerSection) handleValidateCmd(msg tmdbValidateCmd) (tea.Model, tea.Cmd) {
	current := strings.TrimSpace(s.state.APIKey.Value())
	if msg.apiKey != current {
		return s, nil
	}
	if msg.apiKey == s.state.Validation.LastValidated {
		return s, nil
	}
	s.state.Validation.Status = ProviderValidationValidating
	return s, s.tmdbValidate(msg.apiKey)
}

func (s *providerSection) handleValidationMsg(msg tmdbValidationMsg) (tea.Model, tea.Cmd) {
	current := strings.TrimSpace(s.state.APIKey.Value())
	if msg.apiKey != current {
		return s, nil
	}
	if msg.valid {
		s.state.Validation.Status = ProviderValidationValid
	} else {
		s.state.Validation.Status = ProviderValidationInvalid
	}
	s.state.Validation.LastValidated = msg.apiKey
	return s, nil
}

func (s *providerSection) View() string {
	colors := s.theme.Colors()
	focusedStyle := lipgloss.NewStyle().Background(colors.Accent).Foreground(colors.Background)
	valueStyle := lipgloss.NewStyle().Foreground(colors.Primary)
	mutedStyle := lipgloss.NewStyle().Foreground(colors.Muted)

	title := s.theme.PanelTitleStyle().Render("TMDB Provider")

	keyLine := "API Key: "
	if s.state.Focus == ProviderFieldAPIKey {
		keyLine += focusedStyle.Render(s.state.APIKey.View())
	} else {
		keyLine += valueStyle.Render(s.state.MaskedAPIKey(4, 4))
	}

	statusLine := "Status: Not configured"
	if s.state.Validation.Status != ProviderValidationUnknown {
		statusLine = "Status: " + s.state.Validation.Status.String()
	}

	langLine := "Languages: "
	if s.state.Focus == ProviderFieldLanguages {
		langLine += focusedStyle.Render(s.state.Languages.View())
	} else {
		langLine += valueStyle.Render(s.state.Languages.Value())
	}

	help := mutedStyle.Render("Languages are tried in order until a trailer is found.")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		keyLine,
		statusLine,
		langLine,
		"",
		help,
	)
}
