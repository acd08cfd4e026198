package report

import (
	"path/filepath"
	"testing"
	"time"

	"traypack/pkg/types"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *types.PackResult {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &types.PackResult{
		TrayDir:    "/tray",
		OutputDir:  "/out",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Items: []types.ItemResult{
			{
				Name: "Acme", ID: "0x100", Type: "household", Folder: "households/Acme (0x100)",
				Status: types.StatusPacked,
				Files: []types.FileResult{
					{SourcePath: "/tray/a.trayitem", Role: "primary", Bytes: 1500, Copied: true},
					{SourcePath: "/tray/a.hhi", Role: "auxiliary", Bytes: 500, Copied: true},
				},
			},
			{
				Name: "Den", ID: "0x300", Type: "room", Folder: "rooms/Den (0x300)",
				Status: types.StatusCorrupted,
				Files: []types.FileResult{
					{SourcePath: "/tray/d.trayitem", Role: "primary", Bytes: 1000, Copied: true},
					{SourcePath: "/tray/d.rmi", Role: "auxiliary", Error: "disk full"},
				},
			},
			{Name: "Lot", Status: types.StatusSkipped, Folder: "plots/Lot (0x5)", Reason: "copy failed"},
		},
		Skipped: []types.SkippedFile{{Path: "/tray/notes.txt", Kind: "unsupported_extension", Error: "unknown extension .txt"}},
	}
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")
	result := sampleResult()

	require.NoError(t, Write(path, result))

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, result.Items, loaded.Items)
	assert.Equal(t, result.Skipped, loaded.Skipped)
	assert.True(t, result.StartedAt.Equal(loaded.StartedAt))
}

func TestMarshalFieldNames(t *testing.T) {
	data, err := Marshal(sampleResult())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "skipped_files")
	assert.Contains(t, raw, "output_dir")
	assert.NotContains(t, raw, "archive", "empty archive is omitted")
}

func TestSummary(t *testing.T) {
	lines := Summary(sampleResult())
	assert.Equal(t, []string{
		"1 gallery items packed (3.0 kB)",
		"1 gallery items packed with missing files",
		"1 gallery items skipped",
		"1 tray files ignored",
		"finished in 1.5s",
	}, lines)

	dry := &types.PackResult{DryRun: true, Items: []types.ItemResult{{Status: types.StatusPlanned}}}
	assert.Equal(t, []string{"1 gallery items planned, nothing was copied"}, Summary(dry))
}

func TestItemLine(t *testing.T) {
	result := sampleResult()
	assert.Equal(t, "packed    households/Acme (0x100) [2 files, 2.0 kB]", ItemLine(result.Items[0]))
	assert.Equal(t, "skipped   plots/Lot (0x5): copy failed", ItemLine(result.Items[2]))
}
