package cmd

import (
	"fmt"
	"os"
	"strings"

	journal "github.com/Digital-Shane/trailer-tidy/internal/log"
	"github.com/Digital-Shane/trailer-tidy/internal/tui/undo"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo a recorded download session",
	Long: `Browse recorded sessions and reverse the filesystem operations one
journaled: downloaded trailer files are removed, extension fixes are
renamed back, and created trailers directories are deleted when empty.
An undone session journal is marked so a second invocation targets the
run before it.

With --no-tui the most recent session is undone without the browser.`,
	RunE: runUndoCommand,
}

func runUndoCommand(cmd *cobra.Command, args []string) error {
	if _, _, err := setup("undo"); err != nil {
		return err
	}

	if noTUI {
		report, err := undoLatestSession()
		fmt.Print(report)
		return err
	}

	summaries, err := journal.GetSessionSummaries()
	if err != nil {
		return fmt.Errorf("failed to read log sessions: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Println("No operation sessions found to undo.")
		return nil
	}

	model := undo.NewUndoModel(summaries)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// undoLatestSession reverses the newest journaled session and returns
// the report text. The session file is renamed afterwards so it is not
// picked up again.
func undoLatestSession() (string, error) {
	summaries, err := journal.GetSessionSummaries()
	if err != nil {
		return "", fmt.Errorf("failed to read log sessions: %w", err)
	}

	if len(summaries) == 0 {
		return "No operation sessions found to undo.\n", nil
	}

	latest := summaries[0]
	meta := latest.Session.Metadata

	var b strings.Builder
	fmt.Fprintf(&b, "%s Undoing %s session from %s (%d operations)\n",
		latest.Icon, meta.CommandArgs[0], latest.RelativeTime, meta.TotalOps)

	successful, failed, errs := journal.UndoSession(latest.Session)
	for _, undoErr := range errs {
		fmt.Fprintf(&b, "  ✗ %v\n", undoErr)
	}
	fmt.Fprintf(&b, "Undo complete: %d operation(s) reverted, %d failed\n", successful, failed)

	if err := os.Rename(latest.FilePath, latest.FilePath+".undone"); err != nil {
		return b.String(), fmt.Errorf("failed to mark session undone: %w", err)
	}
	return b.String(), nil
}

func init() {
	rootCmd.AddCommand(undoCmd)
}
