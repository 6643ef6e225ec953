package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath replaces a leading ~/ or $HOME/ with the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, path[2:])
		}
	}

	if strings.HasPrefix(path, "$HOME/") {
		home, _ := os.UserHomeDir()
		if home != "" {
			return filepath.Join(home, path[len("$HOME/"):])
		}
	}

	return path
}
