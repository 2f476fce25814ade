package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"
)

// preview is one resolved settings line shown under the active section.
type preview struct {
	icon    string
	label   string
	preview string
}

// buildPreviews resolves the current inputs into the values a save
// would produce.
func buildPreviews(section Section, state *SettingsState, icons theme.IconSet) []preview {
	switch section {
	case SectionLibraries:
		return librariesPreviews(state, icons)
	case SectionScanning:
		return scanningPreviews(state, icons)
	case SectionProvider:
		return providerPreviews(state, icons)
	case SectionLogging:
		return loggingPreviews(state, icons)
	}
	return nil
}

func librariesPreviews(state *SettingsState, icons theme.IconSet) []preview {
	mount := "Disabled"
	if state.Libraries.UseSMB {
		mount = strings.TrimSpace(state.Libraries.MountPoint.Value())
		if mount == "" {
			mount = "Enabled (no mount point)"
		}
	}
	return []preview{
		{icons["movie"], "Movie Roots", summarizeList(splitList(state.Libraries.MoviePaths.Value()))},
		{icons["tv"], "Show Roots", summarizeList(splitList(state.Libraries.ShowPaths.Value()))},
		{icons["link"], "SMB Mount", mount},
	}
}

func scanningPreviews(state *SettingsState, icons theme.IconSet) []preview {
	prefix := strings.TrimSpace(state.Scanning.SeasonPrefix.Value())
	if prefix == "" {
		prefix = "season"
	}

	sample := strings.TrimSpace(state.Scanning.SampleSize.Value())
	switch sample {
	case "":
		sample = "Default"
	case "0":
		sample = "Unlimited"
	}

	ttl := "Default"
	if secs, err := strconv.Atoi(strings.TrimSpace(state.Scanning.CacheTTL.Value())); err == nil && secs > 0 {
		ttl = (time.Duration(secs) * time.Second).String()
	}

	return []preview{
		{icons["search"], "Season Prefix", prefix},
		{icons["document"], "Extensions", summarizeList(splitList(state.Scanning.Extensions.Value()))},
		{icons["stats"], "Sample Size", sample},
		{icons["folder"], "Cache TTL", ttl},
	}
}

func providerPreviews(state *SettingsState, icons theme.IconSet) []preview {
	api := "Not configured"
	if strings.TrimSpace(state.Provider.APIKey.Value()) != "" {
		api = validationLabel(state.Provider.Validation)
		if api == "" {
			api = "Configured"
		}
	}

	order := strings.Join(splitList(state.Provider.Languages.Value()), " → ")
	if order == "" {
		order = "fr-FR → en-US"
	}

	return []preview{
		{icons["key"], "TMDB API", api},
		{icons["globe"], "Lookup Order", order},
	}
}

func loggingPreviews(state *SettingsState, icons theme.IconSet) []preview {
	journaling := "Disabled"
	if state.Logging.Enabled {
		journaling = "Enabled"
	}

	retention := strings.TrimSpace(state.Logging.Retention.Value())
	if retention == "" {
		retention = "Default"
	} else {
		retention = fmt.Sprintf("%s days", retention)
	}

	return []preview{
		{icons["check"], "Journaling", journaling},
		{icons["calendar"], "Retention", retention},
		{icons["folder"], "Journal Location", "~/.trailer-tidy/logs/"},
		{icons["document"], "Journal Format", "JSON session files"},
	}
}

func summarizeList(items []string) string {
	switch {
	case len(items) == 0:
		return "None"
	case len(items) <= 2:
		return strings.Join(items, ", ")
	default:
		return fmt.Sprintf("%s (+%d more)", items[0], len(items)-1)
	}
}

func validationLabel(v ProviderValidationState) string {
	if label := v.Status.String(); label != "" {
		return label
	}
	if v.LastValidated != "" {
		return "Valid"
	}
	return ""
}
