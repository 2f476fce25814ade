package progress

import (
	"fmt"
	"math"
	"strings"

	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PipelineUpdate reports trailer pipeline progress. A non-empty Stage
// starts a new stage with Total pending items, a non-empty Item marks
// one item finished, and Trailers counts files downloaded for it.
type PipelineUpdate struct {
	Stage    string
	Total    int
	Item     string
	Trailers int
}

// PipelineFunc runs one trailer pipeline, reporting progress through
// report as it goes.
type PipelineFunc func(report func(PipelineUpdate)) error

// PipelineProgressModel is a dedicated Bubble Tea model that displays a
// full-screen progress UI while a trailer pipeline runs. Once complete
// the caller extracts the error and renders the final report.
type PipelineProgressModel struct {
	// config
	title string
	run   PipelineFunc

	// pipeline progress
	stage      string
	totalItems int
	processed  int
	trailers   int
	lastItem   string
	done       bool

	// layout
	width  int
	height int

	err error

	// progress components
	progress progress.Model
	msgCh    chan tea.Msg

	theme theme.Theme
}

// pipelineProgressMsg updates counters.
type pipelineProgressMsg struct{}

// pipelineCompleteMsg signals completion.
type pipelineCompleteMsg struct{}

// NewPipelineProgressModel creates a model for the named pipeline.
func NewPipelineProgressModel(title string, run PipelineFunc, th theme.Theme) *PipelineProgressModel {
	gradient := th.ProgressGradient()
	if len(gradient) < 2 {
		colors := th.Colors()
		gradient = []string{string(colors.Primary), string(colors.Accent)}
	}
	p := progress.New(progress.WithGradient(gradient[0], gradient[1]))
	p.Width = 50
	return &PipelineProgressModel{
		title:      title,
		run:        run,
		stage:      "Starting",
		totalItems: 1,
		width:      80,
		height:     12,
		progress:   p,
		msgCh:      make(chan tea.Msg, 64),
		theme:      th,
	}
}

// Init kicks off the pipeline in the background.
func (m *PipelineProgressModel) Init() tea.Cmd {
	go m.runAsync()
	return m.waitForMsg()
}

func (m *PipelineProgressModel) waitForMsg() tea.Cmd { return func() tea.Msg { return <-m.msgCh } }

func (m *PipelineProgressModel) runAsync() {
	err := m.run(func(u PipelineUpdate) {
		if u.Stage != "" {
			m.stage = u.Stage
			m.totalItems = max(u.Total, 1)
			m.processed = 0
		}
		if u.Item != "" {
			m.lastItem = u.Item
			m.processed++
		}
		m.trailers += u.Trailers
		select {
		case m.msgCh <- pipelineProgressMsg{}:
		default:
		}
	})
	m.err = err
	m.done = true
	m.msgCh <- pipelineCompleteMsg{}
}

// Update processes Bubble Tea messages.
func (m *PipelineProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			return m, tea.Quit
		}
	case pipelineProgressMsg:
		ratio := math.Min(float64(m.processed)/float64(m.totalItems), 1)
		cmd := m.progress.SetPercent(ratio)
		// Always continue waiting so we can receive pipelineCompleteMsg.
		return m, tea.Batch(cmd, m.waitForMsg())
	case pipelineCompleteMsg:
		return m, tea.Quit
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View renders the progress UI.
func (m *PipelineProgressModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}
	percent := 0
	if m.totalItems > 0 {
		percent = 100 * m.processed / m.totalItems
	}

	infoLines := []string{fmt.Sprintf("%s: %d/%d  Trailers downloaded: %d", m.stage, m.processed, m.totalItems, m.trailers)}
	if m.lastItem != "" {
		infoLines = append(infoLines, fmt.Sprintf("Last: %s", m.lastItem))
	}

	statsLines := []string{
		fmt.Sprintf("Stage: %s", m.stage),
		fmt.Sprintf("Items Processed: %d/%d", m.processed, m.totalItems),
		fmt.Sprintf("Trailers Downloaded: %d", m.trailers),
		fmt.Sprintf("Progress: %d%%", percent),
	}

	sections := []string{
		m.theme.HeaderStyle().Width(m.width).Render(m.title),
		m.progress.View(),
		strings.Join(infoLines, "\n"),
	}

	panel := m.theme.PanelStyle()
	panelWidth := m.width - panel.GetHorizontalFrameSize()
	if panelWidth < 0 {
		panelWidth = 0
	}
	sections = append(sections, panel.Width(panelWidth).Render(strings.Join(statsLines, "\n")))

	status := m.theme.StatusBarStyle().Width(m.width).Render("Fetching trailers... please wait")
	sections = append(sections, status)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Done reports whether the pipeline ran to completion.
func (m *PipelineProgressModel) Done() bool { return m.done }

// Err returns the pipeline error, if any.
func (m *PipelineProgressModel) Err() error { return m.err }
