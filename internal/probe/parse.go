package probe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jdpx/vidsweep/internal/models"
)

var ErrNoVideoStream = errors.New("no video stream")

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []json.RawMessage `json:"streams"`
}

type streamHeader struct {
	CodecType string `json:"codec_type"`
}

type videoStream struct {
	Duration json.RawMessage `json:"duration"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
}

// ParseJSON extracts metadata from the first video stream of ffprobe
// -show_streams JSON output. Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (models.VideoMetadata, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.VideoMetadata{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	for _, rs := range raw.Streams {
		var h streamHeader
		if err := json.Unmarshal(rs, &h); err != nil || h.CodecType != "video" {
			continue
		}
		return convertVideo(rs)
	}
	return models.VideoMetadata{}, ErrNoVideoStream
}

func convertVideo(rs json.RawMessage) (models.VideoMetadata, error) {
	var s videoStream
	if err := json.Unmarshal(rs, &s); err != nil {
		return models.VideoMetadata{}, fmt.Errorf("parse video stream: %w", err)
	}
	if s.Width < 0 || s.Height < 0 {
		return models.VideoMetadata{}, fmt.Errorf("negative dimensions %dx%d", s.Width, s.Height)
	}

	dur, err := parseDuration(s.Duration)
	if err != nil {
		return models.VideoMetadata{}, err
	}

	return models.VideoMetadata{
		Duration: dur,
		Width:    s.Width,
		Height:   s.Height,
	}, nil
}

// parseDuration accepts a JSON string or number. Missing, null and empty
// values mean 0.
func parseDuration(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("parse duration: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, nil
		}
	} else {
		text = string(raw)
	}

	d, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", text, err)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, fmt.Errorf("invalid duration %q", text)
	}
	return d, nil
}
