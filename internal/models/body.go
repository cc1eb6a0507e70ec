package models

import "fmt"

// BodyRule decides which intensities count as body (foreground). Every
// analysis takes a rule explicitly; callers must use the same rule for
// all analyses on one volume.
type BodyRule interface {
	IsBody(v uint8) bool
	String() string
}

// ExactBody accepts exactly one intensity, typically 255.
type ExactBody uint8

// IsBody implements BodyRule.
func (b ExactBody) IsBody(v uint8) bool { return v == uint8(b) }

func (b ExactBody) String() string { return fmt.Sprintf("== %d", uint8(b)) }

// ThresholdBody accepts every intensity strictly greater than the threshold,
// e.g. ThresholdBody(127) for a greater-than-midpoint test.
type ThresholdBody uint8

// IsBody implements BodyRule.
func (b ThresholdBody) IsBody(v uint8) bool { return v > uint8(b) }

func (b ThresholdBody) String() string { return fmt.Sprintf("> %d", uint8(b)) }

// ParseBodyRule builds a rule from a mode name ("exact" or "threshold").
func ParseBodyRule(mode string, value uint8) (BodyRule, error) {
	switch mode {
	case "exact", "":
		return ExactBody(value), nil
	case "threshold":
		return ThresholdBody(value), nil
	default:
		return nil, fmt.Errorf("unknown body mode %q (must be exact or threshold)", mode)
	}
}
