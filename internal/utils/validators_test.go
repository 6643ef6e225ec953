package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jdpx/vidsweep/internal/models"
)

func TestValidateFolder(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.mp4")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if got, err := ValidateFolder(dir); err != nil || got != dir {
		t.Errorf("ValidateFolder(dir) = %q, %v", got, err)
	}

	for _, bad := range []string{"", "   ", file, filepath.Join(dir, "missing")} {
		_, err := ValidateFolder(bad)
		var verr *models.ValidationError
		if !errors.As(err, &verr) || verr.Field != "folder" {
			t.Errorf("ValidateFolder(%q) err = %v, want folder ValidationError", bad, err)
		}
	}
}

func TestParseMinDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"10", 10, false},
		{" 2.5 ", 2.5, false},
		{"0", 0, false},
		{"1e2", 100, false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMinDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMinDuration(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMinDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("10", "4:3")
	if err != nil {
		t.Fatal(err)
	}
	if p.MinDurationSeconds != 10 || p.AspectRatio != models.Aspect4x3 || p.Tolerance != models.DefaultAspectTolerance {
		t.Errorf("policy = %+v", p)
	}

	var verr *models.ValidationError
	if _, err := ParsePolicy("10", "3:2"); !errors.As(err, &verr) || verr.Field != "aspect_ratio" {
		t.Errorf("unknown aspect err = %v", err)
	}
	if _, err := ParsePolicy("-5", "All"); !errors.As(err, &verr) || verr.Field != "min_duration" {
		t.Errorf("negative duration err = %v", err)
	}
}

func TestValidateURL(t *testing.T) {
	for _, ok := range []string{"", "https://discord.com/api/webhooks/1/abc", "http://localhost:8080/hook"} {
		if err := ValidateURL(ok); err != nil {
			t.Errorf("ValidateURL(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"ftp://example.com", "https://", "::"} {
		if err := ValidateURL(bad); err == nil {
			t.Errorf("ValidateURL(%q) expected error", bad)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := map[string]string{
		"~/videos":         filepath.Join(home, "videos"),
		"$HOME/Trash":      filepath.Join(home, "Trash"),
		"/abs/path":        "/abs/path",
		"relative/path":    "relative/path",
		"~notahome/videos": "~notahome/videos",
	}
	for in, want := range tests {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
