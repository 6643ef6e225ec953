package collectors

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// VideoExtensions is the fixed set of accepted extensions (lowercase, with dot).
var VideoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
	".flv": true,
	".wmv": true,
}

type Collector interface {
	ListVideoFiles(folder string) ([]string, error)
}

// FilesystemCollector lists video files directly inside a folder.
type FilesystemCollector struct{}

func NewFilesystemCollector() *FilesystemCollector {
	return &FilesystemCollector{}
}

// ListVideoFiles returns the top-level files of folder whose extension is a
// video extension, sorted by name. Subdirectories are never entered. A folder
// without matches yields an empty slice and no error.
func (fc *FilesystemCollector) ListVideoFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !isRegular(folder, e) {
			continue
		}
		if IsVideoFile(e.Name()) {
			files = append(files, filepath.Join(folder, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsVideoFile reports whether name carries an accepted extension, ignoring case.
func IsVideoFile(name string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(name))]
}

// isRegular accepts regular files and symlinks that resolve to a regular file.
func isRegular(folder string, e os.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(folder, e.Name()))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
