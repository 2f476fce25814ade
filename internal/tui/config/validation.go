package config

import (
	"errors"
	"time"

	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/Digital-Shane/trailer-tidy/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

const validationDebounce = time.Second

// tmdbValidateCmd asks for the key to be validated once the debounce
// window has closed.
type tmdbValidateCmd struct {
	apiKey string
}

// tmdbValidationMsg carries the validation verdict for a key.
type tmdbValidationMsg struct {
	apiKey string
	valid  bool
}

// validateTMDBAPIKey checks the key against the live API with a known
// movie lookup. A no-results response still proves the key
// authenticates.
func validateTMDBAPIKey(apiKey string) tea.Cmd {
	return func() tea.Msg {
		if apiKey == "" {
			return tmdbValidationMsg{apiKey: apiKey, valid: false}
		}
		p, err := provider.NewTMDBProvider(apiKey, provider.DefaultLanguages)
		if err != nil {
			return tmdbValidationMsg{apiKey: apiKey, valid: false}
		}
		year := 1999
		_, err = p.MovieTrailers("The Matrix", &year)
		if err != nil && !errors.Is(err, provider.ErrNoResults) {
			return tmdbValidationMsg{apiKey: apiKey, valid: false}
		}
		return tmdbValidationMsg{apiKey: apiKey, valid: true}
	}
}

func debouncedTMDBValidate(apiKey string) tea.Cmd {
	return components.Debounce(validationDebounce, func() tea.Msg {
		return tmdbValidateCmd{apiKey: apiKey}
	})
}
