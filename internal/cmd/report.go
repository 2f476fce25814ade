package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/trailer-tidy/internal/tui/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type reportStyles struct {
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	summary lipgloss.Style
}

func newReportStyles(th theme.Theme) reportStyles {
	colors := th.Colors()
	return reportStyles{
		title:   th.PanelTitleStyle(),
		success: lipgloss.NewStyle().Foreground(colors.Success),
		warning: lipgloss.NewStyle().Foreground(colors.Accent),
		summary: lipgloss.NewStyle().Bold(true),
	}
}

// renderScanReport lists the directories missing trailers and the scan
// verdict line.
func renderScanReport(th theme.Theme, cmdConfig CommandConfig, missing []string, verbose bool) string {
	st := newReportStyles(th)
	var b strings.Builder

	if len(missing) == 0 {
		b.WriteString(st.success.Render("✓ All media have trailers!"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(st.title.Render(fmt.Sprintf("%s Without Trailers", cmdConfig.PluralLabel)))
	b.WriteString("\n")
	icon := th.Icon(cmdConfig.IconKey)
	for _, dir := range missing {
		fmt.Fprintf(&b, "  %s %s\n", icon, itemName(dir, verbose))
	}
	b.WriteString("\n")
	b.WriteString(st.warning.Render(fmt.Sprintf("⚠ Scan complete: %d items missing trailers", len(missing))))
	b.WriteString("\n")
	return b.String()
}

// renderSearchReport shows the TMDB lookup outcome per directory along
// with the found totals.
func renderSearchReport(th theme.Theme, cmdConfig CommandConfig, missing []string, found map[string][]string, verbose bool) string {
	st := newReportStyles(th)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(st.title.Render(fmt.Sprintf("%s Search Results:", cmdConfig.MediaLabel)))
	b.WriteString("\n")

	for _, dir := range missing {
		urls := found[dir]
		name := itemName(dir, verbose)
		if len(urls) == 0 {
			b.WriteString(st.warning.Render(fmt.Sprintf("✗ %s - No TMDB trailers found", name)))
			b.WriteString("\n")
			continue
		}

		b.WriteString(st.success.Render(fmt.Sprintf("✓ %s", name)))
		b.WriteString("\n")
		for i, url := range urls {
			if !verbose {
				url = shortURL(url)
			}
			fmt.Fprintf(&b, "    %d. %s\n", i+1, url)
		}
	}

	fmt.Fprintf(&b, "\n  %s: %d/%d found on TMDB\n", cmdConfig.PluralLabel, countFound(found), len(missing))
	return b.String()
}

// renderDownloadReport shows per-directory download outcomes, the
// download summary and the bytes written to disk.
func renderDownloadReport(th theme.Theme, cmdConfig CommandConfig, missing []string, found, downloaded map[string][]string, verbose bool) string {
	st := newReportStyles(th)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(st.title.Render(fmt.Sprintf("%s Download Results:", cmdConfig.MediaLabel)))
	b.WriteString("\n")

	okItems := 0
	files := 0
	var size int64
	for _, dir := range missing {
		if len(found[dir]) == 0 {
			continue
		}

		name := itemName(dir, verbose)
		paths := downloaded[dir]
		if len(paths) == 0 {
			b.WriteString(st.warning.Render(fmt.Sprintf("✗ %s - Download failed or skipped", name)))
			b.WriteString("\n")
			continue
		}

		okItems++
		files += len(paths)
		b.WriteString(st.success.Render(fmt.Sprintf("✓ %s - %d trailer(s) downloaded", name, len(paths))))
		b.WriteString("\n")
		for _, p := range paths {
			if info, err := os.Stat(p); err == nil {
				size += info.Size()
			}
			if verbose {
				fmt.Fprintf(&b, "    → %s\n", p)
			}
		}
	}

	total := countFound(found)
	fmt.Fprintf(&b, "\n  %s: %d/%d downloaded\n", cmdConfig.PluralLabel, okItems, total)
	b.WriteString("\n")
	b.WriteString(st.summary.Render(fmt.Sprintf("Download Summary: %d/%d items downloaded", okItems, total)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Fetched %d trailer file(s) (%s)\n", files, humanize.Bytes(uint64(size)))
	return b.String()
}

// countFound counts directories the search phase found at least one
// trailer URL for.
func countFound(found map[string][]string) int {
	n := 0
	for _, urls := range found {
		if len(urls) > 0 {
			n++
		}
	}
	return n
}

// itemName shows the directory base name, or the full path in verbose
// mode.
func itemName(dir string, verbose bool) string {
	if verbose {
		return dir
	}
	return filepath.Base(dir)
}

// shortURL compacts a YouTube watch URL down to its video id form.
func shortURL(url string) string {
	if i := strings.LastIndex(url, "="); i >= 0 {
		return "youtube.com/watch?v=" + url[i+1:]
	}
	return url
}
