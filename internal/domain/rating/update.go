package rating

import "github.com/okian/talentsim/internal/domain/model"

// boostAmount is the full training gain at the bottom of the scale.
const boostAmount = 0.7

// Boost applies a training gain with diminishing returns: the gain shrinks
// linearly to zero as the rating approaches the top of the scale.
func Boost(r float64, training model.TrainingKind) float64 {
	if !training.Counts() {
		return r
	}
	headroom := 1 - (r-model.MinRating)/(model.MaxRating-model.MinRating)
	return Clamp(r + boostAmount*headroom)
}

// Update advances one employee's ratings for the round. Non-active
// employees are returned unchanged. In advanced mode a record without
// sub-ratings takes the single-dimension path.
func Update(e model.Employee, round int, training model.TrainingKind, mode model.Mode) model.Employee {
	if !e.IsActive() {
		return e
	}
	next := e.Clone()
	if mode == model.ModeAdvanced && next.Advanced != nil {
		updateAdvanced(&next, round, training)
	} else {
		updateBasic(&next, round, training)
	}
	next.PerfHistory = push(next.PerfHistory, next.Performance)
	next.PotHistory = push(next.PotHistory, next.Potential)
	return next
}

func updateBasic(e *model.Employee, round int, training model.TrainingKind) {
	perf := Clamp(e.Performance + Delta(e.ID, round, Perf))
	pot := Clamp(e.Potential + Delta(e.ID, round, Pot))

	switch training {
	case model.TrainingPerformance:
		perf = Boost(perf, training)
	case model.TrainingPotential:
		pot = Boost(pot, training)
	}
	e.Performance = perf
	e.Potential = pot
}

func updateAdvanced(e *model.Employee, round int, training model.TrainingKind) {
	d := e.Advanced
	for i, k := range PerfKinds {
		d.Performance[i] = Clamp(d.Performance[i] + Delta(e.ID, round, k))
	}
	for i, k := range PotKinds {
		d.Potential[i] = Clamp(d.Potential[i] + Delta(e.ID, round, k))
	}

	switch training {
	case model.TrainingPerformance:
		for i := range d.Performance {
			d.Performance[i] = Boost(d.Performance[i], training)
		}
	case model.TrainingPotential:
		for i := range d.Potential {
			d.Potential[i] = Boost(d.Potential[i], training)
		}
	}

	e.Performance = d.MeanPerformance()
	e.Potential = d.MeanPotential()
}

// push appends v and keeps the last model.HistoryDepth values.
func push(buf []float64, v float64) []float64 {
	out := append(append([]float64(nil), buf...), v)
	if len(out) > model.HistoryDepth {
		out = out[len(out)-model.HistoryDepth:]
	}
	return out
}
