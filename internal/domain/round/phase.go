package round

import (
	"sort"

	"github.com/okian/talentsim/internal/domain/model"
)

// Phase is the position of a simulation in its lifecycle.
type Phase string

// Phases.
const (
	InProgress Phase = "in_progress"
	Finished   Phase = "finished"
)

// PhaseOf reports whether more rounds may be committed.
func PhaseOf(s model.Snapshot, maxRounds int) Phase {
	if maxRounds > 0 && s.Round > maxRounds {
		return Finished
	}
	return InProgress
}

// Report is the pre-commit check. MissingPlacements blocks a commit,
// UnusedTrainingSlots only warrants a confirmation.
type Report struct {
	MissingPlacements   []model.Employee
	UnusedTrainingSlots int
}

// Blocking reports whether the commit must be refused.
func (r Report) Blocking() bool { return len(r.MissingPlacements) > 0 }

// Preflight checks s against the commit preconditions.
func Preflight(s model.Snapshot, trainingCap int) Report {
	var missing []model.Employee
	for _, e := range s.Employees {
		if !e.IsActive() {
			continue
		}
		if p, ok := s.NineBox[e.ID]; !ok || !p.Valid() {
			missing = append(missing, e.Clone())
		}
	}
	sort.SliceStable(missing, func(i, j int) bool { return missing[i].ID < missing[j].ID })

	used := 0
	for id, k := range s.Trainings {
		if !k.Counts() {
			continue
		}
		if i := s.Find(id); i >= 0 && s.Employees[i].IsActive() {
			used++
		}
	}
	unused := trainingCap - used
	if unused < 0 {
		unused = 0
	}
	return Report{MissingPlacements: missing, UnusedTrainingSlots: unused}
}
