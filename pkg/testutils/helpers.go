package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"traypack/internal/tray"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// TrayItem builds a .trayitem body with name stored at the header offset of
// typ, followed by trailing zero bytes.
func TrayItem(t *testing.T, typ tray.ItemType, name string, trailing int) []byte {
	t.Helper()
	offset, ok := typ.NameOffset()
	require.True(t, ok, "no header layout for %s", typ)
	require.Less(t, len(name), 256)

	buf := make([]byte, offset, offset+1+len(name)+trailing)
	buf = append(buf, byte(len(name)))
	buf = append(buf, name...)
	return append(buf, make([]byte, trailing)...)
}

// WriteFiles creates each file of files inside dir.
func WriteFiles(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), content, 0644)
		require.NoError(t, err)
	}
}

// StripANSI removes terminal styling from rendered output.
func StripANSI(str string) string {
	return ansi.Strip(str)
}
