package config

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

// Section represents each top-level settings panel.
type Section int

const (
	SectionLibraries Section = iota
	SectionScanning
	SectionProvider
	SectionLogging
)

// LibrariesField identifies the focusable elements within the libraries
// section.
type LibrariesField int

const (
	LibrariesFieldMovies LibrariesField = iota
	LibrariesFieldShows
	LibrariesFieldSMBToggle
	LibrariesFieldMount
)

// LibrariesState tracks media root configuration and UI focus.
type LibrariesState struct {
	MoviePaths textinput.Model
	ShowPaths  textinput.Model
	UseSMB     bool
	MountPoint textinput.Model
	Focus      LibrariesField
}

// ScanningField identifies the focusable elements within the scanning
// section.
type ScanningField int

const (
	ScanningFieldSeasonPrefix ScanningField = iota
	ScanningFieldExtensions
	ScanningFieldSampleSize
	ScanningFieldCacheTTL
)

// ScanningState tracks scanner tuning values and UI focus.
type ScanningState struct {
	SeasonPrefix textinput.Model
	Extensions   textinput.Model
	SampleSize   textinput.Model
	CacheTTL     textinput.Model
	Focus        ScanningField
}

// ProviderField enumerates focusable inputs within the provider section.
type ProviderField int

const (
	ProviderFieldAPIKey ProviderField = iota
	ProviderFieldLanguages
)

// ProviderState stores TMDB lookup configuration and focus management.
type ProviderState struct {
	APIKey    textinput.Model
	Languages textinput.Model
	Focus     ProviderField

	Validation ProviderValidationState
}

// MaskedAPIKey returns the masked representation of the API key using the
// provided prefix/suffix visibility values.
func (p ProviderState) MaskedAPIKey(prefix, suffix int) string {
	return maskAPIKeyVisible(p.APIKey.Value(), prefix, suffix)
}

// ProviderValidationState tracks the live key check against the TMDB API.
type ProviderValidationState struct {
	Status        ProviderValidationStatus
	LastValidated string
}

// Reset clears validation progress and history.
func (p *ProviderValidationState) Reset() {
	p.Status = ProviderValidationUnknown
	p.LastValidated = ""
}

// ProviderValidationStatus enumerates validation phases for the API key.
type ProviderValidationStatus int

const (
	ProviderValidationUnknown ProviderValidationStatus = iota
	ProviderValidationValidating
	ProviderValidationValid
	ProviderValidationInvalid
)

// String converts the validation status into a human readable label.
func (s ProviderValidationStatus) String() string {
	switch s {
	case ProviderValidationValidating:
		return "Validating..."
	case ProviderValidationValid:
		return "Valid"
	case ProviderValidationInvalid:
		return "Invalid"
	default:
		return ""
	}
}

// LoggingField identifies the focusable elements within the logging
// section.
type LoggingField int

const (
	LoggingFieldToggle LoggingField = iota
	LoggingFieldRetention
)

// LoggingState tracks session journaling configuration and UI focus.
type LoggingState struct {
	Enabled   bool
	Focus     LoggingField
	Retention textinput.Model
}

// SettingsState aggregates all section-specific state objects.
type SettingsState struct {
	Libraries LibrariesState
	Scanning  ScanningState
	Provider  ProviderState
	Logging   LoggingState
}

func maskAPIKeyVisible(key string, prefix, suffix int) string {
	key = strings.TrimSpace(key)
	if len(key) == 0 {
		return ""
	}
	if prefix < 0 {
		prefix = 0
	}
	if suffix < 0 {
		suffix = 0
	}
	if prefix+suffix >= len(key) {
		return strings.Repeat("*", len(key))
	}
	maskedLen := len(key) - prefix - suffix
	return key[:prefix] + strings.Repeat("*", maskedLen) + key[len(key)-suffix:]
}
