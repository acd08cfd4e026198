package types

import "time"

// ItemStatus is the final state of one gallery item after a pack run
type ItemStatus string

const (
	StatusPacked    ItemStatus = "packed"    // every file copied
	StatusCorrupted ItemStatus = "corrupted" // primary copied, some companions missing
	StatusSkipped   ItemStatus = "skipped"   // nothing usable was written
	StatusPlanned   ItemStatus = "planned"   // dry run
)

// FileResult holds the outcome of copying a single file of a gallery item
type FileResult struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Role            string `json:"role"`
	Bytes           int64  `json:"bytes"`
	Copied          bool   `json:"copied"`
	Error           string `json:"error,omitempty"`
}

// ItemResult holds the outcome for one gallery item
type ItemResult struct {
	Name   string       `json:"name"`
	ID     string       `json:"id"`
	Type   string       `json:"type"`
	Folder string       `json:"folder"`
	Status ItemStatus   `json:"status"`
	Reason string       `json:"reason,omitempty"`
	Files  []FileResult `json:"files"`
}

// Bytes returns the number of bytes copied for this item
func (r ItemResult) Bytes() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Bytes
	}
	return total
}

// SkippedFile is a tray file dropped before assembly
type SkippedFile struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// PackResult summarizes a complete pack run
type PackResult struct {
	TrayDir    string        `json:"tray_dir"`
	OutputDir  string        `json:"output_dir"`
	DryRun     bool          `json:"dry_run"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Items      []ItemResult  `json:"items"`
	Skipped    []SkippedFile `json:"skipped_files"`
	Archive    string        `json:"archive,omitempty"`
}

// Count returns how many items ended in the given status
func (r *PackResult) Count(status ItemStatus) int {
	n := 0
	for _, item := range r.Items {
		if item.Status == status {
			n++
		}
	}
	return n
}

// TotalBytes returns the number of bytes copied across all items
func (r *PackResult) TotalBytes() int64 {
	var total int64
	for i := range r.Items {
		total += r.Items[i].Bytes()
	}
	return total
}
