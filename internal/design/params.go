// Package design builds Capture Hi-C viewpoints: it finds the restriction
// fragments around an anchor, places baits on fragment margins, selects the
// fragments to enrich and scores the result.
package design

import (
	"errors"
	"fmt"
	"strings"

	"vpdesign/internal/enzyme"
)

// Approach is the fragment selection policy of a viewpoint.
type Approach int

const (
	// Simple selects the fragment containing the anchor, optionally patched
	// with one neighbour.
	Simple Approach = iota
	// Extended selects every usable fragment inside the search window.
	Extended
)

func (a Approach) String() string {
	switch a {
	case Simple:
		return "simple"
	case Extended:
		return "extended"
	}
	return fmt.Sprintf("Approach(%d)", int(a))
}

// ParseApproach accepts "simple" or "extended" in any case.
func ParseApproach(s string) (Approach, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple":
		return Simple, nil
	case "extended":
		return Extended, nil
	}
	return 0, fmt.Errorf("unknown approach %q (want simple or extended)", s)
}

// patchThreshold is the Simple score below which a neighbour is added.
const patchThreshold = 0.6

// Params are the design parameters shared by every viewpoint of a run.
type Params struct {
	MinFragmentSize int
	ProbeLength     int
	MinBaitCount    int // per margin
	MinGC, MaxGC    float64
	// MaxRepeat is reported alongside bait content but does not gate bait
	// usability.
	MaxRepeat       float64
	MaxAlignability float64
	MarginSize      int
	AllowUnbalanced bool
	AllowPatching   bool

	// Search half-windows relative to the direction of transcription.
	UpstreamLength   int
	DownstreamLength int

	Enzymes []enzyme.Enzyme

	// MeanFragmentLength parameterises the Simple score.
	MeanFragmentLength int
	// GrowthStep is the base increment of the adaptive window; the n-th
	// retry grows a side by n*GrowthStep.
	GrowthStep int
}

// DefaultParams returns the stock design parameters with DpnII.
func DefaultParams() Params {
	dpn, _ := enzyme.Lookup("DpnII")
	return Params{
		MinFragmentSize:    130,
		ProbeLength:        120,
		MinBaitCount:       2,
		MinGC:              0.25,
		MaxGC:              0.65,
		MaxRepeat:          0.6,
		MaxAlignability:    10,
		MarginSize:         250,
		AllowUnbalanced:    true,
		AllowPatching:      false,
		UpstreamLength:     5000,
		DownstreamLength:   5000,
		Enzymes:            []enzyme.Enzyme{dpn},
		MeanFragmentLength: 0,
		GrowthStep:         1000,
	}
}

var ErrNoEnzymes = errors.New("no restriction enzymes chosen")

// Validate checks parameter ranges. MeanFragmentLength may be zero; callers
// estimate it before building Simple viewpoints.
func (p Params) Validate() error {
	var errs []error
	if len(p.Enzymes) == 0 {
		errs = append(errs, ErrNoEnzymes)
	}
	if p.ProbeLength < 1 {
		errs = append(errs, fmt.Errorf("probe length must be >= 1, got %d", p.ProbeLength))
	}
	if p.MinBaitCount < 1 {
		errs = append(errs, fmt.Errorf("minimum bait count must be >= 1, got %d", p.MinBaitCount))
	}
	if p.MarginSize < p.ProbeLength {
		errs = append(errs, fmt.Errorf("margin size %d is shorter than probe length %d", p.MarginSize, p.ProbeLength))
	}
	if p.MinGC < 0 || p.MaxGC > 1 || p.MinGC > p.MaxGC {
		errs = append(errs, fmt.Errorf("GC bounds must satisfy 0 <= min <= max <= 1, got %.2f..%.2f", p.MinGC, p.MaxGC))
	}
	if p.MaxRepeat < 0 || p.MaxRepeat > 1 {
		errs = append(errs, fmt.Errorf("max repeat content must be in [0,1], got %.2f", p.MaxRepeat))
	}
	if p.MaxAlignability < 1 {
		errs = append(errs, fmt.Errorf("max alignability must be >= 1, got %.2f", p.MaxAlignability))
	}
	if p.MinFragmentSize < 0 {
		errs = append(errs, fmt.Errorf("minimum fragment size must be >= 0, got %d", p.MinFragmentSize))
	}
	if p.UpstreamLength < 0 || p.DownstreamLength < 0 {
		errs = append(errs, fmt.Errorf("search windows must be >= 0, got %d/%d", p.UpstreamLength, p.DownstreamLength))
	}
	if p.MeanFragmentLength < 0 {
		errs = append(errs, fmt.Errorf("mean fragment length must be >= 0, got %d", p.MeanFragmentLength))
	}
	if p.GrowthStep < 1 {
		errs = append(errs, fmt.Errorf("growth step must be >= 1, got %d", p.GrowthStep))
	}
	return errors.Join(errs...)
}

// genomicWindows converts the transcription-relative half windows into
// (lower-coordinate side, higher-coordinate side).
func (p Params) genomicWindows(positive bool) (up, down int) {
	if positive {
		return p.UpstreamLength, p.DownstreamLength
	}
	return p.DownstreamLength, p.UpstreamLength
}
