package models

// VideoMetadata is what a probe extracted from the first video stream of a file.
// Duration is in seconds; all values are non-negative.
type VideoMetadata struct {
	Duration float64 `json:"duration_seconds"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// Ratio returns width/height. ok is false when the height is zero.
func (m VideoMetadata) Ratio() (ratio float64, ok bool) {
	if m.Height <= 0 {
		return 0, false
	}
	return float64(m.Width) / float64(m.Height), true
}

// MetadataResult is either present metadata or the absence of it (probe
// failed, output unparsable, or no video stream). The zero value is absent.
type MetadataResult struct {
	meta    VideoMetadata
	present bool
}

func Present(m VideoMetadata) MetadataResult {
	return MetadataResult{meta: m, present: true}
}

func Absent() MetadataResult {
	return MetadataResult{}
}

// Metadata returns the metadata and whether it is present.
func (r MetadataResult) Metadata() (VideoMetadata, bool) {
	return r.meta, r.present
}

func (r MetadataResult) IsAbsent() bool {
	return !r.present
}
