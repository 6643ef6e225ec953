package collectors

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestListVideoFiles_TopLevelOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b.MP4", "a.mkv", "c.mov", "d.avi", "e.flv", "f.WMV",
		"notes.txt", "clip.webm", "noext",
		filepath.Join("sub", "nested.mp4"),
	} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.mp4"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := NewFilesystemCollector().ListVideoFiles(dir)
	if err != nil {
		t.Fatal(err)
	}

	var want []string
	for _, name := range []string{"a.mkv", "b.MP4", "c.mov", "d.avi", "e.flv", "f.WMV"} {
		want = append(want, filepath.Join(dir, name))
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListVideoFiles =\n%v\nwant\n%v", got, want)
	}
}

func TestListVideoFiles_EmptyFolder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "readme.md"))

	got, err := NewFilesystemCollector().ListVideoFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no files, got %v", got)
	}
}

func TestListVideoFiles_Idempotent(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.mp4", "y.mkv", "z.txt"} {
		touch(t, filepath.Join(dir, name))
	}
	c := NewFilesystemCollector()
	first, err := c.ListVideoFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.ListVideoFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("listing changed: %v vs %v", first, second)
	}
}

func TestListVideoFiles_MissingFolder(t *testing.T) {
	_, err := NewFilesystemCollector().ListVideoFiles(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing folder")
	}
}

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"movie.mp4", true},
		{"MOVIE.MKV", true},
		{"clip.Mov", true},
		{"a.b.avi", true},
		{"x.flv", true},
		{"x.wmv", true},
		{"x.m4v", false},
		{"x.mp4.txt", false},
		{"mp4", false},
	}
	for _, tt := range tests {
		if got := IsVideoFile(tt.name); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
