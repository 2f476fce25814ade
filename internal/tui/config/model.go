package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/trailer-tidy/internal/config"
	"github.com/Digital-Shane/trailer-tidy/internal/tui/components"
	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const guideAutoScrollInterval = 3 * time.Second

type guideTickMsg struct{}

// Model orchestrates the settings UI.
type Model struct {
	config     *config.Config
	original   *config.Config
	configPath string

	state           SettingsState
	theme           theme.Theme
	icons           theme.IconSet
	sections        []sectionModel
	providerSection *providerSection
	activeIndex     int

	guide     *viewport.Model
	guideAuto bool

	width, height int

	saveStatus string
	err        error
}

// New creates a settings UI model editing the config file at path. The
// file is read as written, without environment overrides, so saving
// round-trips cleanly.
func New(path string) (*Model, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	m := &Model{
		config:     cfg,
		original:   cfg.Clone(),
		configPath: path,
		theme:      theme.Default(),
	}

	m.icons = m.theme.IconSet()
	m.state = buildStateFromConfig(cfg, m.theme)
	m.initSections()
	m.guide = components.NewViewport(0, 0, m.theme)
	m.guideAuto = true
	m.refreshGuidePanel()

	return m, nil
}

func (m *Model) initSections() {
	provider := newProviderSection(&m.state.Provider, m.theme)
	m.sections = []sectionModel{
		newLibrariesSection(&m.state.Libraries, m.theme),
		newScanningSection(&m.state.Scanning, m.theme),
		provider,
		newLoggingSection(&m.state.Logging, m.theme),
	}
	m.providerSection = provider
	m.activeIndex = 0
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.scheduleGuideTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.sections[m.activeIndex].Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.activeSection() == SectionProvider {
		if cmd := m.providerSection.Activate(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)
		m.refreshGuidePanel()
		return m, nil

	case guideTickMsg:
		if m.guideAuto {
			m.autoScrollGuide()
		}
		if cmd := m.scheduleGuideTick(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tmdbValidateCmd, tmdbValidationMsg:
		return m, m.handleProviderMessage(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlS:
			m.save()
			return m, nil
		case tea.KeyCtrlR:
			m.reset()
			return m, nil
		case tea.KeyTab:
			return m, m.setActiveSection((m.activeIndex + 1) % len(m.sections))
		case tea.KeyShiftTab:
			next := (m.activeIndex - 1 + len(m.sections)) % len(m.sections)
			return m, m.setActiveSection(next)
		case tea.KeySpace:
			if key.Alt {
				m.guideAuto = !m.guideAuto
				if m.guideAuto {
					if cmd := m.scheduleGuideTick(); cmd != nil {
						cmds = append(cmds, cmd)
					}
				}
				return m, tea.Batch(cmds...)
			}
		case tea.KeyPgUp:
			m.disableGuideAuto()
			m.scrollGuide(-1, m.guide.Height/2)
			return m, nil
		case tea.KeyPgDown:
			m.disableGuideAuto()
			m.scrollGuide(1, m.guide.Height/2)
			return m, nil
		}
	}

	if cmd := m.dispatchToActiveSection(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleProviderMessage(msg tea.Msg) tea.Cmd {
	if m.providerSection == nil {
		return nil
	}
	switch msg := msg.(type) {
	case tmdbValidateCmd:
		_, cmd := m.providerSection.handleValidateCmd(msg)
		return cmd
	case tmdbValidationMsg:
		_, cmd := m.providerSection.handleValidationMsg(msg)
		return cmd
	default:
		return nil
	}
}

func (m *Model) dispatchToActiveSection(msg tea.Msg) tea.Cmd {
	_, cmd := m.sections[m.activeIndex].Update(msg)
	return cmd
}

func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	leftWidth := m.width / 3
	rightWidth := max(m.width-leftWidth-4, 0)
	panelHeight := max(m.height-10, 0)

	m.guide.Width = max(leftWidth-4, 0)
	m.guide.Height = max(panelHeight-4, 0)

	for _, sec := range m.sections {
		sec.Resize(rightWidth - 2)
	}
}

func (m *Model) setActiveSection(idx int) tea.Cmd {
	if idx == m.activeIndex {
		return nil
	}
	m.sections[m.activeIndex].Blur()
	m.activeIndex = idx
	cmd := m.sections[m.activeIndex].Focus()
	if m.activeSection() == SectionProvider {
		if activate := m.providerSection.Activate(); activate != nil {
			cmd = tea.Batch(cmd, activate)
		}
	}
	m.refreshGuidePanel()
	m.guide.GotoTop()
	return cmd
}

func (m *Model) activeSection() Section {
	return m.sections[m.activeIndex].Section()
}

// View renders the UI.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.width < 30 || m.height < 10 {
		return "Terminal too small. Please resize to at least 30x10."
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.theme.Colors().Primary).
		Padding(1, 0).
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.icons["config"] + " Trailer-Tidy Settings")

	tabs := m.renderTabs()

	leftWidth := m.width / 3
	rightWidth := max(m.width-leftWidth-4, 0)
	panelHeight := max(m.height-10, 0)

	leftPanel := m.renderLeftPanel(leftWidth, panelHeight)
	rightPanel := m.renderRightPanel(rightWidth, panelHeight)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, title, tabs, panels, status)
}

func (m *Model) renderTabs() string {
	base := lipgloss.NewStyle().Padding(0, 2)
	active := base.Bold(true).Foreground(m.theme.Colors().Primary)

	rendered := make([]string, len(m.sections))
	for i, sec := range m.sections {
		label := sec.Title()
		style := base
		if i == m.activeIndex {
			style = active
			label = "[ " + label + " ]"
		}
		rendered[i] = style.Render(label)
	}
	joined := lipgloss.JoinHorizontal(lipgloss.Center, rendered...)
	return lipgloss.NewStyle().Align(lipgloss.Center).Width(m.width).Render(joined)
}

func (m *Model) renderLeftPanel(width, height int) string {
	panel := m.theme.PanelStyle().Width(width).Height(height)
	return panel.Render(m.renderGuideSidebar(width - 4))
}

func (m *Model) renderGuideSidebar(width int) string {
	if width < 0 {
		width = 0
	}

	title := m.theme.PanelTitleStyle().Render("Settings Guide")

	muted := lipgloss.NewStyle().Foreground(m.theme.Colors().Muted)
	if width > 0 {
		muted = muted.Width(width)
	}

	info := muted.Render("Explains the fields in the active section.")

	indicatorStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Accent)
	indicatorText := "Auto Scroll: On (Alt+Space)"
	if !m.guideAuto {
		indicatorStyle = muted
		indicatorText = "Auto Scroll: Off (Alt+Space)"
	}
	indicator := indicatorStyle.Render(indicatorText)

	body := m.guide.View()
	if strings.TrimSpace(body) == "" {
		body = muted.Render("No guidance for this section.")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		indicator,
		info,
		"",
		body,
	)
}

func (m *Model) renderRightPanel(width, height int) string {
	panel := m.theme.PanelStyle().Width(width).Height(height)

	sectionView := m.sections[m.activeIndex].View()

	previews := buildPreviews(m.activeSection(), &m.state, m.icons)
	previewView := m.renderPreview(previews, width-2)
	separator := lipgloss.NewStyle().Foreground(m.theme.Colors().Muted).Render(strings.Repeat("─", max(width-2, 0)))

	content := lipgloss.JoinVertical(lipgloss.Left, sectionView, separator, previewView)
	return panel.Render(content)
}

func (m *Model) renderPreview(previews []preview, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Muted)
	valueStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Success)
	lines := []string{m.theme.PanelTitleStyle().Render("Resolved Settings:"), ""}
	for _, p := range previews {
		line := fmt.Sprintf("%s %s %s", p.icon, labelStyle.Render(p.label+":"), valueStyle.Render(p.preview))
		if lipgloss.Width(line) > width && width > 3 {
			line = line[:width-3] + "..."
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStatusBar() string {
	key := lipgloss.NewStyle().Foreground(m.theme.Colors().Accent).Bold(true)
	help := lipgloss.NewStyle().Foreground(m.theme.Colors().Muted)
	success := m.theme.StatusBarStyle().Foreground(m.theme.Colors().Background)
	failure := lipgloss.NewStyle().Foreground(m.theme.Colors().Error).Bold(true)

	parts := []string{
		key.Render("Tab") + ": Switch",
		key.Render("↑/↓") + ": Field",
		key.Render("Ctrl+S") + ": Save",
		key.Render("Ctrl+R") + ": Reset",
		key.Render("Esc/Ctrl+C") + ": Quit",
	}
	if m.guideOverflowing() {
		parts = append(parts, key.Render("PgUp/PgDn")+": Scroll", key.Render("Alt+Space")+": Toggle auto")
	}

	line := help.Render(strings.Join(parts, " │ "))
	if m.saveStatus != "" {
		if m.err != nil {
			line += " │ " + failure.Render(m.saveStatus)
		} else {
			line += " │ " + success.Render(m.saveStatus)
		}
	}
	return line
}

func (m *Model) save() {
	defaults := config.DefaultConfig()

	m.config.MoviePaths = splitList(stripNullChars(m.state.Libraries.MoviePaths.Value()))
	m.config.ShowPaths = splitList(stripNullChars(m.state.Libraries.ShowPaths.Value()))
	m.config.UseSMBMount = m.state.Libraries.UseSMB
	m.config.SMBMountPoint = strings.TrimSpace(stripNullChars(m.state.Libraries.MountPoint.Value()))

	prefix := strings.TrimSpace(stripNullChars(m.state.Scanning.SeasonPrefix.Value()))
	if prefix == "" {
		prefix = defaults.SeasonPrefix
	}
	m.config.SeasonPrefix = prefix

	exts := normalizeExtensions(splitList(stripNullChars(m.state.Scanning.Extensions.Value())))
	if len(exts) == 0 {
		exts = defaults.VideoExtensions
	}
	m.config.VideoExtensions = exts

	sample := stripNullChars(m.state.Scanning.SampleSize.Value())
	if sample == "" {
		m.config.SampleSize = defaults.SampleSize
	} else if n, err := strconv.Atoi(sample); err == nil && n >= 0 {
		m.config.SampleSize = n
	} else {
		m.config.SampleSize = defaults.SampleSize
	}

	ttl := stripNullChars(m.state.Scanning.CacheTTL.Value())
	if ttl == "" {
		m.config.CacheTTLSeconds = defaults.CacheTTLSeconds
	} else if secs, err := strconv.Atoi(ttl); err == nil && secs > 0 {
		m.config.CacheTTLSeconds = secs
	} else {
		m.config.CacheTTLSeconds = defaults.CacheTTLSeconds
	}

	m.config.TMDBAPIKey = strings.TrimSpace(stripNullChars(m.state.Provider.APIKey.Value()))
	languages := splitList(stripNullChars(m.state.Provider.Languages.Value()))
	if len(languages) == 0 {
		languages = defaults.Languages
	}
	m.config.Languages = languages

	m.config.EnableLogging = m.state.Logging.Enabled
	retention := stripNullChars(m.state.Logging.Retention.Value())
	if retention == "" {
		m.config.LogRetentionDays = defaults.LogRetentionDays
	} else if days, err := strconv.Atoi(retention); err == nil && days > 0 {
		m.config.LogRetentionDays = days
	} else {
		m.config.LogRetentionDays = defaults.LogRetentionDays
	}

	if err := m.config.SaveTo(m.configPath); err != nil {
		m.err = err
		m.saveStatus = "Failed to save: " + err.Error()
		return
	}

	m.err = nil
	m.saveStatus = "Configuration saved!"
	m.original = m.config.Clone()
}

func (m *Model) reset() {
	m.state.Libraries.MoviePaths.SetValue(joinList(m.original.MoviePaths))
	m.state.Libraries.MoviePaths.CursorEnd()
	m.state.Libraries.ShowPaths.SetValue(joinList(m.original.ShowPaths))
	m.state.Libraries.ShowPaths.CursorEnd()
	m.state.Libraries.UseSMB = m.original.UseSMBMount
	m.state.Libraries.MountPoint.SetValue(m.original.SMBMountPoint)
	m.state.Libraries.MountPoint.CursorEnd()

	m.state.Scanning.SeasonPrefix.SetValue(m.original.SeasonPrefix)
	m.state.Scanning.SeasonPrefix.CursorEnd()
	m.state.Scanning.Extensions.SetValue(joinList(m.original.VideoExtensions))
	m.state.Scanning.Extensions.CursorEnd()
	m.state.Scanning.SampleSize.SetValue(strconv.Itoa(m.original.SampleSize))
	m.state.Scanning.SampleSize.CursorEnd()
	m.state.Scanning.CacheTTL.SetValue(strconv.Itoa(m.original.CacheTTLSeconds))
	m.state.Scanning.CacheTTL.CursorEnd()

	m.state.Provider.APIKey.SetValue(m.original.TMDBAPIKey)
	m.state.Provider.APIKey.CursorEnd()
	m.state.Provider.Languages.SetValue(joinList(m.original.Languages))
	m.state.Provider.Languages.CursorEnd()
	m.state.Provider.Validation.Reset()

	m.state.Logging.Enabled = m.original.EnableLogging
	m.state.Logging.Retention.SetValue(fmt.Sprintf("%d", m.original.LogRetentionDays))
	m.state.Logging.Retention.CursorEnd()

	m.saveStatus = "Reset to saved values"
	m.err = nil
}

func (m *Model) disableGuideAuto() {
	if m.guideAuto {
		m.guideAuto = false
	}
}

func (m *Model) scrollGuide(direction int, lines int) {
	if m.guide == nil {
		return
	}
	if lines < 1 {
		lines = 1
	}
	switch {
	case direction < 0:
		m.guide.ScrollUp(lines)
	case direction > 0:
		m.guide.ScrollDown(lines)
	}
}

func (m *Model) autoScrollGuide() {
	if m.guide == nil {
		return
	}
	if !m.guideOverflowing() {
		return
	}
	if m.guide.AtBottom() {
		m.guide.GotoTop()
		return
	}
	m.guide.ScrollDown(4)
}

func (m *Model) scheduleGuideTick() tea.Cmd {
	if !m.guideAuto || m.guide == nil {
		return nil
	}
	return components.Tick(guideAutoScrollInterval, func(time.Time) tea.Msg { return guideTickMsg{} })
}

func (m *Model) guideOverflowing() bool {
	if m.guide == nil {
		return false
	}
	return m.guide.TotalLineCount() > m.guide.Height+1
}

func (m *Model) refreshGuidePanel() {
	entries := buildGuide(m.activeSection())
	if len(entries) == 0 {
		m.guide.SetContent("")
		return
	}

	nameStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Muted)
	exampleStyle := lipgloss.NewStyle().Foreground(m.theme.Colors().Primary).Italic(true)

	lines := make([]string, 0, len(entries)*3)
	for _, e := range entries {
		lines = append(lines, nameStyle.Render(e.name))
		lines = append(lines, descStyle.Render("  "+e.description))
		if e.example != "" {
			lines = append(lines, exampleStyle.Render("  Example: "+e.example))
		}
		lines = append(lines, "")
	}
	m.guide.SetContent(strings.Join(lines, "\n"))
}

func buildStateFromConfig(cfg *config.Config, th theme.Theme) SettingsState {
	movies := newListInput(joinList(cfg.MoviePaths), th)
	shows := newListInput(joinList(cfg.ShowPaths), th)
	mount := newListInput(cfg.SMBMountPoint, th)

	prefix := textinput.New()
	configureInput(&prefix, th)
	prefix.SetValue(cfg.SeasonPrefix)
	prefix.CursorEnd()
	prefix.CharLimit = 24
	prefix.Width = 24

	extensions := newListInput(joinList(cfg.VideoExtensions), th)

	sample := textinput.New()
	configureInput(&sample, th)
	sample.SetValue(strconv.Itoa(cfg.SampleSize))
	sample.CursorEnd()
	sample.CharLimit = 5
	sample.Width = 8

	ttl := textinput.New()
	configureInput(&ttl, th)
	ttl.SetValue(strconv.Itoa(cfg.CacheTTLSeconds))
	ttl.CursorEnd()
	ttl.CharLimit = 8
	ttl.Width = 10

	apiKey := textinput.New()
	configureInput(&apiKey, th)
	apiKey.SetValue(cfg.TMDBAPIKey)
	apiKey.CursorEnd()
	apiKey.CharLimit = 64
	apiKey.Width = 40

	languages := newListInput(joinList(cfg.Languages), th)
	languages.CharLimit = 48
	languages.Width = 32

	retention := textinput.New()
	configureInput(&retention, th)
	retention.SetValue(fmt.Sprintf("%d", cfg.LogRetentionDays))
	retention.CursorEnd()
	retention.CharLimit = 3
	retention.Width = 6

	return SettingsState{
		Libraries: LibrariesState{
			MoviePaths: movies,
			ShowPaths:  shows,
			UseSMB:     cfg.UseSMBMount,
			MountPoint: mount,
		},
		Scanning: ScanningState{
			SeasonPrefix: prefix,
			Extensions:   extensions,
			SampleSize:   sample,
			CacheTTL:     ttl,
		},
		Provider: ProviderState{
			APIKey:    apiKey,
			Languages: languages,
		},
		Logging: LoggingState{
			Enabled:   cfg.EnableLogging,
			Retention: retention,
		},
	}
}

func newListInput(value string, th theme.Theme) textinput.Model {
	ti := textinput.New()
	configureInput(&ti, th)
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Width = 64
	return ti
}

func configureInput(ti *textinput.Model, th theme.Theme) {
	ti.Prompt = ""
	ti.Placeholder = ""
	ti.Cursor.Style = lipgloss.NewStyle().Background(th.Colors().Accent).Foreground(th.Colors().Background)
	ti.TextStyle = lipgloss.NewStyle().Foreground(th.Colors().Primary)
	ti.Focus()
	ti.Blur()
}

// splitList parses a comma separated field into trimmed entries.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func joinList(values []string) string {
	return strings.Join(values, ", ")
}

// normalizeExtensions lowercases entries and guarantees the leading dot
// the scanner matches against.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func stripNullChars(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
