package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Digital-Shane/trailer-tidy/internal/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/google/go-cmp/cmp"
)

// newSettingsTestModel builds a settings UI around a temp config file
// with the TMDB network stubbed out. Keys containing "invalid" fail
// validation and the debounce fires immediately.
func newSettingsTestModel(t *testing.T, width, height int) (*teatest.TestModel, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	m, err := New(path)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	m.providerSection.tmdbValidate = func(apiKey string) tea.Cmd {
		return func() tea.Msg {
			return tmdbValidationMsg{apiKey: apiKey, valid: !strings.Contains(apiKey, "invalid")}
		}
	}
	m.providerSection.tmdbDebounce = func(apiKey string) tea.Cmd {
		return func() tea.Msg {
			return tmdbValidateCmd{apiKey: apiKey}
		}
	}

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(width, height))
	t.Cleanup(func() {
		_ = tm.Quit()
	})

	return tm, path
}

func waitForOutput(t *testing.T, tm *teatest.TestModel, contains string) {
	t.Helper()

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte(contains))
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))
}

func press(tm *teatest.TestModel, key tea.KeyType, edits ...func(*tea.KeyMsg)) {
	msg := tea.KeyMsg{Type: key}
	for _, edit := range edits {
		edit(&msg)
	}
	tm.Send(msg)
}

func withAlt(msg *tea.KeyMsg) { msg.Alt = true }

func backspaceN(tm *teatest.TestModel, n int) {
	for i := 0; i < n; i++ {
		press(tm, tea.KeyBackspace)
	}
}

func finalSettingsModel(t *testing.T, tm *teatest.TestModel) *Model {
	t.Helper()

	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second))
	model, ok := final.(*Model)
	if !ok {
		t.Fatalf("Final model was %T, want *Model", final)
	}
	return model
}

func TestSettingsSectionNavigation(t *testing.T) {
	tm, _ := newSettingsTestModel(t, 120, 40)

	waitForOutput(t, tm, "[ Libraries ]")

	press(tm, tea.KeyTab)
	waitForOutput(t, tm, "[ Scanning ]")

	press(tm, tea.KeyTab)
	waitForOutput(t, tm, "[ TMDB ]")

	press(tm, tea.KeyTab)
	waitForOutput(t, tm, "[ Logging ]")

	// Tab wraps back to the first section, shift+tab wraps backwards.
	press(tm, tea.KeyTab)
	press(tm, tea.KeyShiftTab)
	press(tm, tea.KeyEsc)

	fm := finalSettingsModel(t, tm)
	if got := fm.activeSection(); got != SectionLogging {
		t.Errorf("active section = %v, want %v", got, SectionLogging)
	}
}

func TestSettingsEditLibraries(t *testing.T) {
	tm, _ := newSettingsTestModel(t, 120, 40)

	waitForOutput(t, tm, "[ Libraries ]")

	tm.Type("/movies,/archive")
	press(tm, tea.KeyDown)
	tm.Type("/tv")
	press(tm, tea.KeyDown)
	press(tm, tea.KeySpace)
	waitForOutput(t, tm, "Enabled (no mount point)")

	press(tm, tea.KeyDown)
	tm.Type("/mnt/nas")
	press(tm, tea.KeyEsc)

	fm := finalSettingsModel(t, tm)
	if got := fm.state.Libraries.MoviePaths.Value(); got != "/movies,/archive" {
		t.Errorf("movie paths = %q, want %q", got, "/movies,/archive")
	}
	if got := fm.state.Libraries.ShowPaths.Value(); got != "/tv" {
		t.Errorf("show paths = %q, want %q", got, "/tv")
	}
	if !fm.state.Libraries.UseSMB {
		t.Error("smb mount = disabled, want enabled")
	}
	if got := fm.state.Libraries.MountPoint.Value(); got != "/mnt/nas" {
		t.Errorf("mount point = %q, want %q", got, "/mnt/nas")
	}
}

func TestSettingsScanningDigitFilters(t *testing.T) {
	tm, _ := newSettingsTestModel(t, 120, 40)

	waitForOutput(t, tm, "[ Libraries ]")
	press(tm, tea.KeyTab)
	waitForOutput(t, tm, "[ Scanning ]")

	// Replace the season prefix. A literal space press is swallowed.
	backspaceN(tm, len("season"))
	tm.Type("temporada")
	press(tm, tea.KeySpace)

	press(tm, tea.KeyDown)
	press(tm, tea.KeyDown)
	backspaceN(tm, 1)
	tm.Type("5x7")
	press(tm, tea.KeyDown)
	press(tm, tea.KeyEsc)

	fm := finalSettingsModel(t, tm)
	if got := fm.state.Scanning.SeasonPrefix.Value(); got != "temporada" {
		t.Errorf("season prefix = %q, want %q", got, "temporada")
	}
	if got := fm.state.Scanning.SampleSize.Value(); got != "57" {
		t.Errorf("sample size = %q, want %q", got, "57")
	}
	if got := fm.state.Scanning.Focus; got != ScanningFieldCacheTTL {
		t.Errorf("focus = %v, want %v", got, ScanningFieldCacheTTL)
	}
}

func TestSettingsLoggingKeys(t *testing.T) {
	tm, _ := newSettingsTestModel(t, 120, 40)

	waitForOutput(t, tm, "[ Libraries ]")
	press(tm, tea.KeyTab)
	press(tm, tea.KeyTab)
	press(tm, tea.KeyTab)
	waitForOutput(t, tm, "[ Logging ]")

	// Edit retention while journaling is enabled.
	press(tm, tea.KeyDown)
	backspaceN(tm, 2)
	tm.Type("45")

	// Disable journaling. Retention stops accepting input.
	press(tm, tea.KeyUp)
	press(tm, tea.KeySpace)
	press(tm, tea.KeyDown)
	tm.Type("7")

	// Re-enable with enter and append a digit.
	press(tm, tea.KeyUp)
	press(tm, tea.KeyEnter)
	press(tm, tea.KeyDown)
	tm.Type("2")
	press(tm, tea.KeyEsc)

	fm := finalSettingsModel(t, tm)
	if !fm.state.Logging.Enabled {
		t.Error("journaling = disabled, want enabled")
	}
	if got := fm.state.Logging.Retention.Value(); got != "452" {
		t.Errorf("retention = %q, want %q", got, "452")
	}
	if got := fm.state.Logging.Focus; got != LoggingFieldRetention {
		t.Errorf("focus = %v, want %v", got, LoggingFieldRetention)
	}
}

func TestSettingsProviderValidationFlow(t *testing.T) {
	tm, _ := newSettingsTestModel(t, 120, 40)

	waitForOutput(t, tm, "[ Libraries ]")
	press(tm, tea.KeyTab)
	press(tm, tea.KeyTab)
	waitForOutput(t, tm, "[ TMDB ]")

	tm.Type("invalid-key-123")
	waitForOutput(t, tm, "invalid-key-123")
	waitForOutput(t, tm, "Status: Invalid")
	press(tm, tea.KeyEsc)

	fm := finalSettingsModel(t, tm)
	if got := fm.state.Provider.Validation.Status; got != ProviderValidationInvalid {
		t.Errorf("validation status = %v, want %v", got, ProviderValidationInvalid)
	}
	if got := fm.state.Provider.Validation.LastValidated; got != "invalid-key-123" {
		t.Errorf("last validated = %q, want %q", got, "invalid-key-123")
	}
	if got := fm.state.Provider.APIKey.Value(); got != "invalid-key-123" {
		t.Errorf("api key = %q, want %q", got, "invalid-key-123")
	}
}

func TestSettingsSaveAndReset(t *testing.T) {
	tm, path := newSettingsTestModel(t, 120, 40)

	waitForOutput(t, tm, "[ Libraries ]")

	tm.Type("/alpha")
	press(tm, tea.KeyCtrlS)
	waitForOutput(t, tm, "Configuration saved!")

	saved, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(%q) = %v", path, err)
	}
	if diff := cmp.Diff([]string{"/alpha"}, saved.MoviePaths); diff != "" {
		t.Errorf("saved movie paths mismatch (-want +got):\n%s", diff)
	}

	// Edits after the save roll back to the saved values on reset.
	backspaceN(tm, len("/alpha"))
	tm.Type("/beta")
	press(tm, tea.KeyCtrlR)
	press(tm, tea.KeyEsc)

	fm := finalSettingsModel(t, tm)
	if got := fm.state.Libraries.MoviePaths.Value(); got != "/alpha" {
		t.Errorf("movie paths after reset = %q, want %q", got, "/alpha")
	}
	if got := fm.saveStatus; got != "Reset to saved values" {
		t.Errorf("save status = %q, want %q", got, "Reset to saved values")
	}
}

func TestSettingsGuideScrolling(t *testing.T) {
	// Small terminal so the guide overflows its viewport.
	tm, _ := newSettingsTestModel(t, 100, 20)

	waitForOutput(t, tm, "[ Libraries ]")

	press(tm, tea.KeyPgDown)
	press(tm, tea.KeyPgDown)
	press(tm, tea.KeyPgUp)
	press(tm, tea.KeySpace, withAlt)
	press(tm, tea.KeyEsc)

	fm := finalSettingsModel(t, tm)
	if fm.guide.YOffset == 0 {
		t.Error("guide offset = 0, want scrolled")
	}
	if !fm.guideAuto {
		t.Error("auto scroll = disabled, want re-enabled")
	}
}
