// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"strings"
)

// Rating scale bounds and defaults.
const (
	MinRating     = 1.0
	MaxRating     = 5.0
	DefaultRating = 3.0

	// HistoryDepth bounds the rolling rating history kept per employee.
	HistoryDepth = 3
)

// Status is the lifecycle state of a roster record.
type Status string

// Roster record statuses.
const (
	StatusActive  Status = "active"
	StatusRetired Status = "retired"
	StatusQuit    Status = "quit"
	StatusFired   Status = "fired"
	StatusVacant  Status = "vacant"
)

// IsActive reports whether the record takes part in scoring and decisions.
func (s Status) IsActive() bool { return s == StatusActive }

// IsDeparture reports whether the status is an exit of a real person
// (vacancy placeholders are not departures).
func (s Status) IsDeparture() bool {
	switch s {
	case StatusRetired, StatusQuit, StatusFired:
		return true
	}
	return false
}

// Mode selects between the single-dimension and the three-dimension rating model.
type Mode string

// Operating modes.
const (
	ModeBasic    Mode = "basic"
	ModeAdvanced Mode = "advanced"
)

// ParseMode maps free text to a Mode, falling back to basic.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeAdvanced)) {
		return ModeAdvanced
	}
	return ModeBasic
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool { return m == ModeBasic || m == ModeAdvanced }

// TrainingKind is the per-round development choice for one employee.
type TrainingKind string

// Training kinds. TrainingNone is the zero value.
const (
	TrainingNone        TrainingKind = ""
	TrainingPerformance TrainingKind = "performance"
	TrainingPotential   TrainingKind = "potential"
)

// ParseTrainingKind maps free text to a TrainingKind. The second result is
// false for unrecognised input.
func ParseTrainingKind(s string) (TrainingKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TrainingNone, true
	case string(TrainingPerformance):
		return TrainingPerformance, true
	case string(TrainingPotential):
		return TrainingPotential, true
	}
	return TrainingNone, false
}

// Counts reports whether the choice consumes a training slot.
func (k TrainingKind) Counts() bool {
	return k == TrainingPerformance || k == TrainingPotential
}

// Dimensions holds the advanced-mode sub-ratings.
type Dimensions struct {
	Performance [3]float64
	Potential   [3]float64
}

// MeanPerformance returns the mean of the performance sub-ratings.
func (d Dimensions) MeanPerformance() float64 { return mean3(d.Performance) }

// MeanPotential returns the mean of the potential sub-ratings.
func (d Dimensions) MeanPotential() float64 { return mean3(d.Potential) }

func mean3(v [3]float64) float64 { return (v[0] + v[1] + v[2]) / 3 }

// Employee is one roster record. A nil Advanced means the record only
// carries the single-dimension ratings.
type Employee struct {
	ID          string
	Name        string
	Position    string
	Age         int
	Info        string
	Status      Status
	Performance float64
	Potential   float64
	Advanced    *Dimensions

	PerfHistory    []float64
	PotHistory     []float64
	LowPerfStrikes int
}

// IsActive reports whether the employee is active.
func (e Employee) IsActive() bool { return e.Status.IsActive() }

// HasAdvanced reports whether the record carries sub-ratings.
func (e Employee) HasAdvanced() bool { return e.Advanced != nil }

// EffectivePerformance is the rating used for scoring and strikes.
func (e Employee) EffectivePerformance(mode Mode) float64 {
	if mode == ModeAdvanced && e.Advanced != nil {
		return e.Advanced.MeanPerformance()
	}
	return e.Performance
}

// EffectivePotential mirrors EffectivePerformance for potential.
func (e Employee) EffectivePotential(mode Mode) float64 {
	if mode == ModeAdvanced && e.Advanced != nil {
		return e.Advanced.MeanPotential()
	}
	return e.Potential
}

// Clone returns a deep copy.
func (e Employee) Clone() Employee {
	out := e
	if e.Advanced != nil {
		d := *e.Advanced
		out.Advanced = &d
	}
	out.PerfHistory = cloneFloats(e.PerfHistory)
	out.PotHistory = cloneFloats(e.PotHistory)
	return out
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}

// employeeJSON is the flat persisted layout.
type employeeJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Position    string   `json:"position"`
	Age         int      `json:"age,omitempty"`
	Info        string   `json:"info,omitempty"`
	Status      Status   `json:"status"`
	Performance *float64 `json:"performance,omitempty"`
	Potential   *float64 `json:"potential,omitempty"`

	Perf1 *float64 `json:"perf1,omitempty"`
	Perf2 *float64 `json:"perf2,omitempty"`
	Perf3 *float64 `json:"perf3,omitempty"`
	Pot1  *float64 `json:"pot1,omitempty"`
	Pot2  *float64 `json:"pot2,omitempty"`
	Pot3  *float64 `json:"pot3,omitempty"`

	PerfHistory    []float64 `json:"perfHistory,omitempty"`
	PotHistory     []float64 `json:"potHistory,omitempty"`
	LowPerfStrikes int       `json:"lowPerfStrikes,omitempty"`
}

// MarshalJSON writes the flat layout with perf1..pot3 keys.
func (e Employee) MarshalJSON() ([]byte, error) {
	perf, pot := e.Performance, e.Potential
	w := employeeJSON{
		ID:             e.ID,
		Name:           e.Name,
		Position:       e.Position,
		Age:            e.Age,
		Info:           e.Info,
		Status:         e.Status,
		Performance:    &perf,
		Potential:      &pot,
		PerfHistory:    e.PerfHistory,
		PotHistory:     e.PotHistory,
		LowPerfStrikes: e.LowPerfStrikes,
	}
	if d := e.Advanced; d != nil {
		w.Perf1, w.Perf2, w.Perf3 = ptr(d.Performance[0]), ptr(d.Performance[1]), ptr(d.Performance[2])
		w.Pot1, w.Pot2, w.Pot3 = ptr(d.Potential[0]), ptr(d.Potential[1]), ptr(d.Potential[2])
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the flat layout. A record becomes advanced only when
// all three performance sub-ratings are present; absent values fall back to
// mid-scale rather than failing.
func (e *Employee) UnmarshalJSON(data []byte) error {
	var w employeeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Employee{
		ID:             w.ID,
		Name:           w.Name,
		Position:       w.Position,
		Age:            w.Age,
		Info:           w.Info,
		Status:         w.Status,
		PerfHistory:    w.PerfHistory,
		PotHistory:     w.PotHistory,
		LowPerfStrikes: w.LowPerfStrikes,
	}
	if e.Status == "" {
		e.Status = StatusActive
	}

	perf := valueOr(w.Performance, DefaultRating)
	pot := valueOr(w.Potential, DefaultRating)

	if w.Perf1 != nil && w.Perf2 != nil && w.Perf3 != nil {
		d := &Dimensions{
			Performance: [3]float64{*w.Perf1, *w.Perf2, *w.Perf3},
			Potential:   [3]float64{valueOr(w.Pot1, pot), valueOr(w.Pot2, pot), valueOr(w.Pot3, pot)},
		}
		e.Advanced = d
		if w.Performance == nil {
			perf = d.MeanPerformance()
		}
		if w.Potential == nil {
			pot = d.MeanPotential()
		}
	}
	e.Performance = perf
	e.Potential = pot
	return nil
}

func ptr(v float64) *float64 { return &v }

func valueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
