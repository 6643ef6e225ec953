package models

import "math"

// DefaultAspectTolerance is the maximum absolute difference between a file's
// width/height and the target ratio that still counts as a match.
const DefaultAspectTolerance = 0.01

// CleanupPolicy is fixed for the lifetime of a run.
// A MinDurationSeconds of 0 disables the duration criterion.
type CleanupPolicy struct {
	MinDurationSeconds float64     `json:"min_duration_seconds"`
	AspectRatio        AspectRatio `json:"aspect_ratio"`
	Tolerance          float64     `json:"tolerance"`
}

// NewCleanupPolicy validates minDuration and returns a policy using the
// default aspect tolerance.
func NewCleanupPolicy(minDuration float64, aspect AspectRatio) (CleanupPolicy, error) {
	if math.IsNaN(minDuration) || math.IsInf(minDuration, 0) || minDuration < 0 {
		return CleanupPolicy{}, &ValidationError{
			Field:   "min_duration",
			Message: "must be a valid non-negative number of seconds",
		}
	}
	if !aspect.valid() {
		return CleanupPolicy{}, &ValidationError{Field: "aspect_ratio", Message: "unrecognized aspect ratio"}
	}
	return CleanupPolicy{
		MinDurationSeconds: minDuration,
		AspectRatio:        aspect,
		Tolerance:          DefaultAspectTolerance,
	}, nil
}

// WithTolerance returns a copy of p using tol. Non-positive values restore the default.
func (p CleanupPolicy) WithTolerance(tol float64) CleanupPolicy {
	if tol <= 0 || math.IsNaN(tol) {
		tol = DefaultAspectTolerance
	}
	p.Tolerance = tol
	return p
}

// EffectiveTolerance is Tolerance, or the default when unset.
func (p CleanupPolicy) EffectiveTolerance() float64 {
	if p.Tolerance <= 0 {
		return DefaultAspectTolerance
	}
	return p.Tolerance
}

// DurationConstrained reports whether the duration criterion applies.
func (p CleanupPolicy) DurationConstrained() bool {
	return p.MinDurationSeconds > 0
}

// DeletesEverything is true when neither criterion is active, so every
// readable file would be trashed. Front-ends must warn before running it.
func (p CleanupPolicy) DeletesEverything() bool {
	return !p.DurationConstrained() && !p.AspectRatio.Constrained()
}
