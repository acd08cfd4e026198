package main

import (
	"fmt"
	"io"
	"strings"

	"traypack/internal/report"
	"traypack/pkg/types"

	"github.com/charmbracelet/lipgloss"
)

// Colors follow the default theme: purple frame, green/yellow/red/blue status.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("213")).
			Padding(0, 1)
)

func successText(msg string) string { return successStyle.Render("[SUCCESS]") + " " + msg }
func warningText(msg string) string { return warningStyle.Render("[WARNING]") + " " + msg }
func errorText(msg string) string   { return errorStyle.Render("[ERROR]") + " " + msg }
func infoText(msg string) string    { return infoStyle.Render("[INFO]") + " " + msg }

// itemText picks the status prefix for one gallery item.
func itemText(item types.ItemResult) string {
	line := report.ItemLine(item)
	switch item.Status {
	case types.StatusPacked:
		return successText(line)
	case types.StatusCorrupted:
		return warningText(line + " (the gallery item is corrupted)")
	case types.StatusSkipped:
		return errorText(line)
	default:
		return infoText(line)
	}
}

func printResult(w io.Writer, result *types.PackResult) {
	for _, item := range result.Items {
		fmt.Fprintln(w, itemText(item))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(report.Summary(result), "\n")))
}
