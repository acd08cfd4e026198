// Package report writes the outcome of a pack run as JSON and renders
// short human-readable summaries of it.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"traypack/pkg/types"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
)

// Marshal encodes a pack result as indented JSON.
func Marshal(result *types.PackResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// Write stores the JSON report at path, creating parent folders.
func Write(path string, result *types.PackResult) error {
	data, err := Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) (*types.PackResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var result types.PackResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &result, nil
}

// Summary returns the lines printed at the end of a run.
func Summary(result *types.PackResult) []string {
	lines := []string{}
	if result.DryRun {
		lines = append(lines, fmt.Sprintf("%d gallery items planned, nothing was copied", result.Count(types.StatusPlanned)))
	} else {
		lines = append(lines,
			fmt.Sprintf("%d gallery items packed (%s)", result.Count(types.StatusPacked), humanize.Bytes(uint64(result.TotalBytes()))),
		)
		if n := result.Count(types.StatusCorrupted); n > 0 {
			lines = append(lines, fmt.Sprintf("%d gallery items packed with missing files", n))
		}
		if n := result.Count(types.StatusSkipped); n > 0 {
			lines = append(lines, fmt.Sprintf("%d gallery items skipped", n))
		}
	}
	if n := len(result.Skipped); n > 0 {
		lines = append(lines, fmt.Sprintf("%d tray files ignored", n))
	}
	if !result.StartedAt.IsZero() && !result.FinishedAt.IsZero() {
		lines = append(lines, "finished in "+result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond).String())
	}
	if result.Archive != "" {
		lines = append(lines, "archive: "+result.Archive)
	}
	return lines
}

// ItemLine renders one item for listings.
func ItemLine(item types.ItemResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-9s %s", item.Status, item.Folder)
	if n := len(item.Files); n > 0 {
		fmt.Fprintf(&sb, " [%d files, %s]", n, humanize.Bytes(uint64(item.Bytes())))
	}
	if item.Reason != "" {
		fmt.Fprintf(&sb, ": %s", item.Reason)
	}
	return sb.String()
}
