package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ideamans/go-l10n"
)

// Color palette
var (
	primaryColor   = lipgloss.Color("#2E86DE")
	successColor   = lipgloss.Color("#00AA00")
	errorColor     = lipgloss.Color("#D63031")
	mutedColor     = lipgloss.Color("#888888")
	highlightColor = lipgloss.Color("#FDCB6E")
	textColor      = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor).
			MarginTop(1)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlightColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)

func printVersion(version string) {
	fmt.Println(titleStyle.Render("yuvenc"))
	fmt.Printf("%s %s\n", keyStyle.Render(l10n.T("Version:")), valueStyle.Render(version))
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render(l10n.T("Error:")), message)
}

func printWarning(message string) {
	fmt.Printf("%s %s\n", warningStyle.Render(l10n.T("Warning:")), message)
}

func printSection(title string) {
	fmt.Println(headerStyle.Render(title))
}

// kv renders aligned key/value rows.
func kv(rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		pad := strings.Repeat(" ", width-lipgloss.Width(r[0]))
		b.WriteString(keyStyle.Render(r[0]+":") + pad + " " + valueStyle.Render(r[1]))
	}
	return b.String()
}

func printBox(title string, rows [][2]string) {
	content := successStyle.Render(title) + "\n\n" + kv(rows)
	fmt.Println(boxStyle.Render(content))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
