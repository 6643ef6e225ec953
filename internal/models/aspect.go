package models

import (
	"fmt"
	"strings"
)

// AspectRatio is one of the fixed ratio choices a cleanup policy can target.
// AspectAll leaves the ratio unconstrained.
type AspectRatio int

const (
	AspectAll AspectRatio = iota
	Aspect16x9
	Aspect4x3
	Aspect1x1
	Aspect21x9
	Aspect9x16
)

type aspectDef struct {
	key      string
	num, den int
}

var aspectDefs = [...]aspectDef{
	AspectAll:  {key: "All"},
	Aspect16x9: {key: "16:9", num: 16, den: 9},
	Aspect4x3:  {key: "4:3", num: 4, den: 3},
	Aspect1x1:  {key: "1:1", num: 1, den: 1},
	Aspect21x9: {key: "21:9", num: 21, den: 9},
	Aspect9x16: {key: "9:16", num: 9, den: 16},
}

// AspectRatioKeys lists the accepted keys in presentation order.
func AspectRatioKeys() []string {
	keys := make([]string, len(aspectDefs))
	for i, d := range aspectDefs {
		keys[i] = d.key
	}
	return keys
}

// ParseAspectRatio maps a key such as "16:9" or "All" to its AspectRatio.
func ParseAspectRatio(key string) (AspectRatio, error) {
	key = strings.TrimSpace(key)
	for i, d := range aspectDefs {
		if d.key == key {
			return AspectRatio(i), nil
		}
	}
	return AspectAll, &ValidationError{
		Field:   "aspect_ratio",
		Message: fmt.Sprintf("unrecognized aspect ratio %q (use one of %s)", key, strings.Join(AspectRatioKeys(), ", ")),
	}
}

func (a AspectRatio) valid() bool {
	return a >= AspectAll && int(a) < len(aspectDefs)
}

func (a AspectRatio) String() string {
	if !a.valid() {
		return fmt.Sprintf("AspectRatio(%d)", int(a))
	}
	return aspectDefs[a].key
}

// Constrained reports whether the ratio filters anything at all.
func (a AspectRatio) Constrained() bool {
	return a != AspectAll
}

// Rational returns the numerator and denominator. ok is false for AspectAll.
func (a AspectRatio) Rational() (num, den int, ok bool) {
	if !a.valid() || a == AspectAll {
		return 0, 0, false
	}
	d := aspectDefs[a]
	return d.num, d.den, true
}

// Target returns num/den as a float. ok is false for AspectAll.
func (a AspectRatio) Target() (float64, bool) {
	num, den, ok := a.Rational()
	if !ok {
		return 0, false
	}
	return float64(num) / float64(den), true
}

func (a AspectRatio) MarshalText() ([]byte, error) {
	if !a.valid() {
		return nil, fmt.Errorf("invalid aspect ratio %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *AspectRatio) UnmarshalText(text []byte) error {
	parsed, err := ParseAspectRatio(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
