package assemble_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"traypack/internal/assemble"
	"traypack/internal/config"
	"traypack/internal/fsx"
	"traypack/internal/tray"
	"traypack/pkg/testutils"
	"traypack/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	familyItem   = "0x00000001!0x0000000000000100.trayitem"
	familyHHI    = "0x00000003!0x0000000000000100.hhi"
	familyBinary = "0x00000000!0x0000000000000100.householdbinary"
	familySGI1   = "0x00000002!0x0000000000000101.sgi"
	familySGI2   = "0x00000002!0x0000000000000102.sgi"
	familySGI4   = "0x00000002!0x0000000000000104.sgi"
	otherHHI     = "0x00000003!0x0000000000000200.hhi"
	roomItem     = "0x00000003!0x0000000000000300.trayitem"
	roomRMI      = "0x00000004!0x0000000000000300.rmi"
)

// setupTray writes a tray folder and returns it with its classification.
func setupTray(t *testing.T) (string, *tray.Content) {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		familyItem:   testutils.TrayItem(t, tray.Household, "Acme", 4),
		familyHHI:    []byte("hhi"),
		familyBinary: []byte("household binary"),
		familySGI1:   []byte("sgi 1"),
		familySGI2:   []byte("sgi 2"),
		familySGI4:   []byte("sgi 4"),
		otherHHI:     []byte("other"),
		roomItem:     testutils.TrayItem(t, tray.Room, "Den", 4),
		roomRMI:      []byte("rmi"),
		"notes.txt":  []byte("ignored"),
	}
	testutils.WriteFiles(t, dir, files)

	content, err := tray.NewClassifier(dir).Classify()
	require.NoError(t, err)
	return dir, content
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func resultByName(r *types.PackResult, name string) types.ItemResult {
	for _, item := range r.Items {
		if item.Name == name {
			return item
		}
	}
	return types.ItemResult{}
}

func TestPack(t *testing.T) {
	trayDir, content := setupTray(t)
	out := filepath.Join(t.TempDir(), "output")
	require.NoError(t, fsx.PrepareOutput(out, true, tray.Folders()))

	engine := assemble.New(out, assemble.WithCopier(fsx.FileCopier{Verify: true}))
	result := engine.Pack(trayDir, content)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 2, result.Count(types.StatusPacked))
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "unsupported_extension", result.Skipped[0].Kind)

	familyDir := filepath.Join(out, "households", "Acme (0x100)")
	assert.ElementsMatch(t, []string{familyItem, familyHHI, familyBinary, familySGI1, familySGI2}, listDir(t, familyDir))

	roomDir := filepath.Join(out, "rooms", "Den (0x300)")
	assert.ElementsMatch(t, []string{roomItem, roomRMI}, listDir(t, roomDir))

	got, err := os.ReadFile(filepath.Join(familyDir, familySGI2))
	require.NoError(t, err)
	assert.Equal(t, "sgi 2", string(got))

	family := resultByName(result, "Acme")
	assert.Equal(t, "household", family.Type)
	assert.Equal(t, "0x100", family.ID)
	assert.Equal(t, filepath.Join("households", "Acme (0x100)"), family.Folder)
	assert.Len(t, family.Files, 5)
	assert.Equal(t, result.TotalBytes(), family.Bytes()+resultByName(result, "Den").Bytes())
}

func TestPackDryRun(t *testing.T) {
	trayDir, content := setupTray(t)
	out := filepath.Join(t.TempDir(), "output")

	result := assemble.New(out, assemble.WithDryRun(true)).Pack(trayDir, content)

	assert.True(t, result.DryRun)
	assert.Equal(t, 2, result.Count(types.StatusPlanned))
	assert.Len(t, resultByName(result, "Acme").Files, 5)
	assert.NoDirExists(t, out)
}

type failingCopier struct {
	fsx.FileCopier
	fail map[string]bool
}

func (c failingCopier) CopyFile(src, dst string) (int64, error) {
	if c.fail[filepath.Base(src)] {
		return 0, errors.New("disk full")
	}
	return c.FileCopier.CopyFile(src, dst)
}

func TestPrimaryCopyFailureSkipsItem(t *testing.T) {
	trayDir, content := setupTray(t)
	out := t.TempDir()

	copier := failingCopier{fail: map[string]bool{familyItem: true}}
	result := assemble.New(out, assemble.WithCopier(copier)).Pack(trayDir, content)

	family := resultByName(result, "Acme")
	assert.Equal(t, types.StatusSkipped, family.Status)
	assert.Contains(t, family.Reason, "disk full")
	assert.Len(t, family.Files, 1, "companions are not attempted")
	assert.NoDirExists(t, filepath.Join(out, "households", "Acme (0x100)"))

	assert.Equal(t, types.StatusPacked, resultByName(result, "Den").Status)
}

func TestExtraCopyFailureMarksCorrupted(t *testing.T) {
	trayDir, content := setupTray(t)
	out := t.TempDir()

	copier := failingCopier{fail: map[string]bool{familyHHI: true}}
	result := assemble.New(out, assemble.WithCopier(copier)).Pack(trayDir, content)

	family := resultByName(result, "Acme")
	assert.Equal(t, types.StatusCorrupted, family.Status)

	familyDir := filepath.Join(out, "households", "Acme (0x100)")
	assert.ElementsMatch(t, []string{familyItem, familyBinary, familySGI1, familySGI2}, listDir(t, familyDir))

	var failed []string
	for _, f := range family.Files {
		if !f.Copied {
			failed = append(failed, filepath.Base(f.SourcePath))
		}
	}
	assert.Equal(t, []string{familyHHI}, failed)
}

func TestTypeFolderFailureSkipsType(t *testing.T) {
	trayDir, content := setupTray(t)
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, "households"), []byte("in the way"), 0o644))

	result := assemble.New(out).Pack(trayDir, content)

	assert.Equal(t, types.StatusSkipped, resultByName(result, "Acme").Status)
	assert.Equal(t, types.StatusPacked, resultByName(result, "Den").Status)
}

func TestItemFolderExistsSkipsItem(t *testing.T) {
	trayDir, content := setupTray(t)
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "rooms", "Den (0x300)"), 0o755))

	result := assemble.New(out).Pack(trayDir, content)

	den := resultByName(result, "Den")
	assert.Equal(t, types.StatusSkipped, den.Status)
	assert.Empty(t, den.Files)
	assert.Empty(t, listDir(t, filepath.Join(out, "rooms", "Den (0x300)")))
}

func TestNewWithConfig(t *testing.T) {
	trayDir, content := setupTray(t)
	out := t.TempDir()

	cfg := config.NewTestConfig(out)
	cfg.Filter.Types = []string{"rooms"}

	engine, err := assemble.NewWithConfig(cfg)
	require.NoError(t, err)
	assert.False(t, engine.IsDryRun())
	assert.Equal(t, out, engine.Output())

	result := engine.Pack(trayDir, content)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Den", result.Items[0].Name)
	assert.Equal(t, types.StatusPacked, result.Items[0].Status)

	cfg.Filter.Include = []string{"[bad"}
	_, err = assemble.NewWithConfig(cfg)
	assert.Error(t, err)
}
