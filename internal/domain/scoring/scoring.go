// Package scoring computes the organization score from the active roster.
package scoring

import (
	"math"

	"github.com/okian/talentsim/internal/domain/level"
	"github.com/okian/talentsim/internal/domain/model"
)

const (
	defaultLevelWeight = 1.0
	scorePrecision     = 1000
)

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithLevelWeights replaces the per-level weights. Non-positive weights are ignored.
func WithLevelWeights(weights map[level.Level]float64) Option {
	return func(s *WeightedScorer) {
		for l, w := range weights {
			if w > 0 {
				s.weights[l] = w
			}
		}
	}
}

// WithLevelWeightsFromConfig sets weights from a name keyed configuration map.
// Unknown level names are skipped.
func WithLevelWeightsFromConfig(weights map[string]float64, defaultWeight float64) Option {
	return func(s *WeightedScorer) {
		for name, w := range weights {
			l, ok := level.Parse(name)
			if !ok || w <= 0 {
				continue
			}
			s.weights[l] = w
		}
		if defaultWeight > 0 {
			s.defaultWeight = defaultWeight
		}
	}
}

// Scorer computes a score for a snapshot.
type Scorer interface {
	Score(s model.Snapshot) float64
}

// WeightedScorer implements Scorer as a level weighted mean of effective
// performance.
type WeightedScorer struct {
	weights       map[level.Level]float64
	defaultWeight float64
}

// NewWeightedScorer creates a scorer with the standard level weights.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{
		weights:       level.DefaultWeights(),
		defaultWeight: defaultLevelWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weight returns the weight applied to a title.
func (s *WeightedScorer) Weight(title string) float64 {
	if w, ok := s.weights[level.Of(title)]; ok {
		return w
	}
	return s.defaultWeight
}

// Score returns the weighted mean over active employees rounded to three
// decimals, or 0 when nobody is active.
func (s *WeightedScorer) Score(snap model.Snapshot) float64 {
	var sum, total float64
	for _, e := range snap.Employees {
		if !e.IsActive() {
			continue
		}
		w := s.Weight(e.Position)
		sum += e.EffectivePerformance(snap.Mode) * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return Round(sum / total)
}

// Round rounds v to the score precision.
func Round(v float64) float64 {
	return math.Round(v*scorePrecision) / scorePrecision
}

var defaultScorer = NewWeightedScorer()

// Score scores s with the default weights.
func Score(s model.Snapshot) float64 {
	return defaultScorer.Score(s)
}
