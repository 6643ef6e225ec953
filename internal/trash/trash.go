// Package trash moves files into a recoverable trash location instead of
// deleting them. The on-disk layout is the freedesktop.org home trash
// (files/ plus info/*.trashinfo), which desktop file managers can restore from.
package trash

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Trasher removes a file reversibly.
type Trasher interface {
	MoveToTrash(path string) error
}

// Normalize returns the absolute, cleaned form of path. Symlinks are left
// alone so the link itself is what gets trashed.
func Normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// DefaultDir is the home trash: $XDG_DATA_HOME/Trash, else ~/.local/share/Trash.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

const maxNameAttempts = 1000

// Bin is a trash directory with files/ and info/ subdirectories. Files on
// another filesystem go to the trash at the top of their own volume.
type Bin struct {
	dir string
	uid int
	now func() time.Time

	rename    func(oldpath, newpath string) error
	mountRoot func(path string) (string, error)

	mu sync.Mutex
}

func NewBin(dir string) *Bin {
	return &Bin{
		dir:       dir,
		uid:       os.Getuid(),
		now:       time.Now,
		rename:    os.Rename,
		mountRoot: mountRoot,
	}
}

func (b *Bin) Dir() string {
	return b.dir
}

// MoveToTrash renames path into the bin and writes its .trashinfo record.
// When the bin is on another filesystem the file goes to $topdir/.Trash/$uid
// or $topdir/.Trash-$uid of the volume holding it, with a relative Path=.
func (b *Bin) MoveToTrash(path string) error {
	abs, err := Normalize(path)
	if err != nil {
		return err
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return fmt.Errorf("refusing to trash directory %s", abs)
	}

	err = b.moveInto(b.dir, abs, abs)
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	top, rerr := b.mountRoot(abs)
	if rerr != nil {
		return fmt.Errorf("failed to locate volume of %s: %w", abs, errors.Join(err, rerr))
	}
	volumeDir, verr := b.volumeTrash(top)
	if verr != nil {
		return errors.Join(err, verr)
	}
	rel, rerr := filepath.Rel(top, abs)
	if rerr != nil {
		return fmt.Errorf("failed to relativise %s: %w", abs, rerr)
	}
	return b.moveInto(volumeDir, abs, rel)
}

func (b *Bin) moveInto(dir, abs, recorded string) error {
	filesDir := filepath.Join(dir, "files")
	infoDir := filepath.Join(dir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return fmt.Errorf("failed to create trash directory: %w", err)
		}
	}

	// Name reservation and rename happen as one step per bin.
	b.mu.Lock()
	defer b.mu.Unlock()

	name, infoPath, err := b.reserve(filesDir, infoDir, filepath.Base(abs), recorded)
	if err != nil {
		return err
	}

	if err := b.rename(abs, filepath.Join(filesDir, name)); err != nil {
		_ = os.Remove(infoPath)
		return fmt.Errorf("failed to move %s to trash: %w", abs, err)
	}
	return nil
}

// volumeTrash prefers an admin-created sticky $topdir/.Trash and falls back
// to a private $topdir/.Trash-$uid.
func (b *Bin) volumeTrash(top string) (string, error) {
	shared := filepath.Join(top, ".Trash")
	if fi, err := os.Lstat(shared); err == nil && fi.IsDir() && fi.Mode()&os.ModeSticky != 0 {
		dir := filepath.Join(shared, strconv.Itoa(b.uid))
		if err := os.MkdirAll(dir, 0700); err == nil {
			return dir, nil
		}
	}

	dir := filepath.Join(top, fmt.Sprintf(".Trash-%d", b.uid))
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create volume trash: %w", err)
	}
	return dir, nil
}

// reserve picks a free name and exclusively creates its .trashinfo file.
func (b *Bin) reserve(filesDir, infoDir, base, original string) (string, string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 1; i <= maxNameAttempts; i++ {
		name := base
		if i > 1 {
			name = fmt.Sprintf("%s.%d%s", stem, i, ext)
		}

		if _, err := os.Lstat(filepath.Join(filesDir, name)); err == nil {
			continue
		}

		infoPath := filepath.Join(infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("failed to create trash info: %w", err)
		}

		_, werr := f.WriteString(b.infoContent(original))
		cerr := f.Close()
		if werr != nil || cerr != nil {
			_ = os.Remove(infoPath)
			return "", "", fmt.Errorf("failed to write trash info: %w", errors.Join(werr, cerr))
		}
		return name, infoPath, nil
	}
	return "", "", fmt.Errorf("no free trash name for %s", base)
}

// infoContent records original, which is absolute for the home trash and
// relative to the volume top for a volume trash.
func (b *Bin) infoContent(original string) string {
	encoded := (&url.URL{Path: filepath.ToSlash(original)}).EscapedPath()
	return "[Trash Info]\n" +
		"Path=" + encoded + "\n" +
		"DeletionDate=" + b.now().Format("2006-01-02T15:04:05") + "\n"
}

// Recorder is a Trasher that only remembers the paths it was given.
// It backs dry runs.
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *Recorder) MoveToTrash(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return nil
}

func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}
