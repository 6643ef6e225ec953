//go:build unix

package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// mountRoot returns the topmost ancestor of path on the same device.
func mountRoot(path string) (string, error) {
	dir := filepath.Dir(path)
	dev, err := deviceOf(dir)
	if err != nil {
		return "", err
	}
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir, nil
		}
		pdev, err := deviceOf(parent)
		if err != nil || pdev != dev {
			return dir, nil
		}
		dir = parent
	}
}

func deviceOf(path string) (uint64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("no device information for %s", path)
	}
	return uint64(st.Dev), nil
}
