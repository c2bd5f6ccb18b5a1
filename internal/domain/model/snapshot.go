package model

import "sort"

// Placement is an employee's cell on the 3x3 performance/potential grid.
// Buckets run 0 (low) to 2 (high).
type Placement struct {
	PerfBucket int `json:"perfBucket"`
	PotBucket  int `json:"potBucket"`
}

// nineBoxLabels is indexed [perf][pot].
var nineBoxLabels = [3][3]string{
	{"Poor Fit", "Development Needed", "Untapped Potential"},
	{"Inconsistent Performer", "Solid Performer", "Future Leader"},
	{"Performance Risk", "Core Performer", "Star / High Potential"},
}

// Valid reports whether both buckets are within the grid.
func (p Placement) Valid() bool {
	return p.PerfBucket >= 0 && p.PerfBucket <= 2 && p.PotBucket >= 0 && p.PotBucket <= 2
}

// Label returns the display name of the cell, or "" for an invalid placement.
func (p Placement) Label() string {
	if !p.Valid() {
		return ""
	}
	return nineBoxLabels[p.PerfBucket][p.PotBucket]
}

// Applicant is an external candidate targeting one position title.
type Applicant struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Position    string  `json:"position" yaml:"position"`
	Performance float64 `json:"performance" yaml:"performance"`
	Potential   float64 `json:"potential" yaml:"potential"`
	Age         int     `json:"age,omitempty" yaml:"age"`
	Notes       string  `json:"notes,omitempty" yaml:"notes"`
}

// Snapshot is the full organization state threaded through the engine and
// the unit of save/load.
type Snapshot struct {
	Round      int                     `json:"round"`
	Mode       Mode                    `json:"version"`
	Employees  []Employee              `json:"employees"`
	NineBox    map[string]Placement    `json:"ninebox"`
	Trainings  map[string]TrainingKind `json:"trainings"`
	Applicants []Applicant             `json:"applicants"`
	History    History                 `json:"history"`
}

// Normalize fills defaults on a decoded snapshot so partially written blobs
// still load.
func (s *Snapshot) Normalize() {
	if s.Round < 1 {
		s.Round = 1
	}
	if !s.Mode.Valid() {
		s.Mode = ModeBasic
	}
	if s.Employees == nil {
		s.Employees = []Employee{}
	}
	for i := range s.Employees {
		if s.Employees[i].Status == "" {
			s.Employees[i].Status = StatusActive
		}
	}
	if s.NineBox == nil {
		s.NineBox = map[string]Placement{}
	}
	if s.Trainings == nil {
		s.Trainings = map[string]TrainingKind{}
	}
	if s.Applicants == nil {
		s.Applicants = []Applicant{}
	}
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Employees = make([]Employee, len(s.Employees))
	for i, e := range s.Employees {
		out.Employees[i] = e.Clone()
	}
	out.NineBox = make(map[string]Placement, len(s.NineBox))
	for k, v := range s.NineBox {
		out.NineBox[k] = v
	}
	out.Trainings = make(map[string]TrainingKind, len(s.Trainings))
	for k, v := range s.Trainings {
		out.Trainings[k] = v
	}
	out.Applicants = append([]Applicant(nil), s.Applicants...)
	if out.Applicants == nil {
		out.Applicants = []Applicant{}
	}
	out.History = s.History.clone()
	return out
}

// Find returns the index of the employee with the given id, or -1.
func (s Snapshot) Find(id string) int {
	for i := range s.Employees {
		if s.Employees[i].ID == id {
			return i
		}
	}
	return -1
}

// Active returns copies of the active employees in roster order.
func (s Snapshot) Active() []Employee {
	out := make([]Employee, 0, len(s.Employees))
	for _, e := range s.Employees {
		if e.IsActive() {
			out = append(out, e.Clone())
		}
	}
	return out
}

// TrainingsUsed counts assignments that consume a slot.
func (s Snapshot) TrainingsUsed() int {
	n := 0
	for _, k := range s.Trainings {
		if k.Counts() {
			n++
		}
	}
	return n
}

// ApplicantIndex returns the index of the applicant with the given id, or -1.
func (s Snapshot) ApplicantIndex(id string) int {
	for i := range s.Applicants {
		if s.Applicants[i].ID == id {
			return i
		}
	}
	return -1
}

// EmployeeIDs returns all ids, sorted.
func (s Snapshot) EmployeeIDs() []string {
	ids := make([]string, 0, len(s.Employees))
	for _, e := range s.Employees {
		ids = append(ids, e.ID)
	}
	sort.Strings(ids)
	return ids
}
