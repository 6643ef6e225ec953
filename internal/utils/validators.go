package utils

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jdpx/vidsweep/internal/models"
)

// ValidateFolder expands path and checks that it names an existing directory.
// It returns the expanded path.
func ValidateFolder(path string) (string, error) {
	path = ExpandPath(strings.TrimSpace(path))
	if path == "" {
		return "", &models.ValidationError{Field: "folder", Message: "please select a folder"}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &models.ValidationError{Field: "folder", Message: fmt.Sprintf("folder does not exist: %s", path)}
		}
		return "", &models.ValidationError{Field: "folder", Message: fmt.Sprintf("cannot access folder: %v", err)}
	}
	if !info.IsDir() {
		return "", &models.ValidationError{Field: "folder", Message: fmt.Sprintf("not a directory: %s", path)}
	}

	return path, nil
}

// ParseMinDuration parses user text as a non-negative number of seconds.
func ParseMinDuration(text string) (float64, error) {
	s := strings.TrimSpace(text)
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, &models.ValidationError{
			Field:   "min_duration",
			Message: fmt.Sprintf("%q is not a valid non-negative number of seconds", text),
		}
	}
	return d, nil
}

// ParsePolicy validates the raw front-end inputs and builds a policy.
func ParsePolicy(minDurationText, aspectKey string) (models.CleanupPolicy, error) {
	minDuration, err := ParseMinDuration(minDurationText)
	if err != nil {
		return models.CleanupPolicy{}, err
	}
	aspect, err := models.ParseAspectRatio(aspectKey)
	if err != nil {
		return models.CleanupPolicy{}, err
	}
	return models.NewCleanupPolicy(minDuration, aspect)
}

func ValidateURL(u string) error {
	if u == "" {
		return nil
	}

	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
