// Package locate finds the Sims 4 Tray folder on the local machine.
package locate

import (
	"os"
	"path/filepath"

	serr "traypack/internal/errors"

	"github.com/adrg/xdg"
)

// trayPath is the Tray folder relative to the user's Documents folder.
var trayPath = []string{"Electronic Arts", "The Sims 4", "Tray"}

// Replaced in tests.
var (
	userHomeDir  = os.UserHomeDir
	documentsDir = func() string { return xdg.UserDirs.Documents }
)

// DocumentsDir returns the platform Documents folder: the known folder on
// Windows (including OneDrive redirection), XDG_DOCUMENTS_DIR on Linux and
// ~/Documents on macOS. It falls back to <home>/Documents.
func DocumentsDir() (string, error) {
	if dir := documentsDir(); dir != "" {
		return dir, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", serr.NewFileError("couldn't find user directories", "", serr.FileNotFound, err)
	}
	return filepath.Join(home, "Documents"), nil
}

// DefaultTrayDir returns <Documents>/Electronic Arts/The Sims 4/Tray without
// checking that it exists.
func DefaultTrayDir() (string, error) {
	docs, err := DocumentsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{docs}, trayPath...)...), nil
}

// TrayDir resolves the tray folder to use. An explicit dir wins over the
// default location. The folder must exist and be a readable directory.
func TrayDir(dir string) (string, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultTrayDir(); err != nil {
			return "", err
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", serr.NewFileError("tray folder doesn't exist", dir, serr.FileNotFound, err)
		}
		return "", serr.NewFileError("unable to read the tray folder", dir, serr.FileAccessDenied, err)
	}
	if !info.IsDir() {
		return "", serr.NewFileError("tray folder is not a directory", dir, serr.FileNotFound, nil)
	}
	return dir, nil
}
