// Package rating implements the deterministic yearly rating drift and the
// training boost.
package rating

import (
	"math"
	"strings"
)

// Oscillator constants.
const (
	perfFactor     = 7
	potFactor      = 11
	subKindPhase   = 13
	phaseScale     = 0.137
	amplitude      = 0.35
	maxDeltaAbs    = 0.5
	perfKindPrefix = "perf"
)

// Kind names the rating a delta is drawn for.
type Kind string

// Rating kinds. The numbered kinds are the advanced sub-ratings.
const (
	Perf  Kind = "perf"
	Pot   Kind = "pot"
	Perf1 Kind = "perf1"
	Perf2 Kind = "perf2"
	Perf3 Kind = "perf3"
	Pot1  Kind = "pot1"
	Pot2  Kind = "pot2"
	Pot3  Kind = "pot3"
)

// PerfKinds and PotKinds list the sub-kinds by index.
var (
	PerfKinds = [3]Kind{Perf1, Perf2, Perf3}
	PotKinds  = [3]Kind{Pot1, Pot2, Pot3}
)

// IsPerformance reports whether k belongs to the performance family. Every
// other kind is treated as potential.
func (k Kind) IsPerformance() bool { return strings.HasPrefix(string(k), perfKindPrefix) }

// index returns the sub-kind number (1-3) or 0 for the base kinds.
func (k Kind) index() int {
	s := string(k)
	if s == "" {
		return 0
	}
	c := s[len(s)-1]
	if c >= '1' && c <= '9' {
		return int(c - '0')
	}
	return 0
}

// Delta returns a bounded, reproducible rating change for the entity in the
// given round. It depends on nothing but its arguments.
func Delta(entityID string, round int, kind Kind) float64 {
	seed := 0
	for _, r := range entityID {
		seed += int(r)
	}
	factor := potFactor
	if kind.IsPerformance() {
		factor = perfFactor
	}
	x := float64(seed+round*factor+kind.index()*subKindPhase) * phaseScale
	return clamp(math.Sin(x)*amplitude, -maxDeltaAbs, maxDeltaAbs)
}

// Clamp bounds a rating to the [1, 5] scale.
func Clamp(v float64) float64 { return clamp(v, 1.0, 5.0) }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
