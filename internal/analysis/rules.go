package analysis

import (
	"math"

	"github.com/jdpx/vidsweep/internal/models"
)

// AspectMatches reports whether meta satisfies the aspect criterion of
// policy. An unconstrained policy always matches; a zero height never does.
func AspectMatches(meta models.VideoMetadata, policy models.CleanupPolicy) bool {
	target, constrained := policy.AspectRatio.Target()
	if !constrained {
		return true
	}
	ratio, ok := meta.Ratio()
	if !ok {
		return false
	}
	return math.Abs(ratio-target) < policy.EffectiveTolerance()
}

// ShouldDelete is the keep/delete verdict for one file. Unreadable files
// are always kept. With no duration threshold and no aspect constraint every
// readable file is deleted.
func ShouldDelete(result models.MetadataResult, policy models.CleanupPolicy) bool {
	meta, ok := result.Metadata()
	if !ok {
		return false
	}

	aspectMatches := AspectMatches(meta, policy)

	if policy.DurationConstrained() {
		return meta.Duration < policy.MinDurationSeconds && aspectMatches
	}
	return aspectMatches
}
