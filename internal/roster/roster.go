// Package roster provides the bundled seed organization and candidate pool.
package roster

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/okian/talentsim/internal/domain/model"
)

//go:embed data/*.yaml
var bundled embed.FS

type subRatings struct {
	Performance []float64 `yaml:"performance"`
	Potential   []float64 `yaml:"potential"`
}

type seedEmployee struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Position    string      `yaml:"position"`
	Performance float64     `yaml:"performance"`
	Potential   float64     `yaml:"potential"`
	Age         int         `yaml:"age"`
	Info        string      `yaml:"info"`
	Advanced    *subRatings `yaml:"advanced"`
}

type rosterFile struct {
	Employees []seedEmployee `yaml:"employees"`
}

type applicantsFile struct {
	Applicants []model.Applicant `yaml:"applicants"`
}

// Employees returns the seed roster for the given mode. In advanced mode
// records that carry three sub-ratings per dimension get them, and their
// composite ratings are set to the sub-rating means.
func Employees(mode model.Mode) ([]model.Employee, error) {
	var f rosterFile
	if err := decode("data/roster.yaml", &f); err != nil {
		return nil, err
	}
	out := make([]model.Employee, 0, len(f.Employees))
	for _, s := range f.Employees {
		e := model.Employee{
			ID:          s.ID,
			Name:        s.Name,
			Position:    s.Position,
			Age:         s.Age,
			Info:        s.Info,
			Status:      model.StatusActive,
			Performance: s.Performance,
			Potential:   s.Potential,
		}
		if mode == model.ModeAdvanced && s.Advanced != nil {
			d, err := s.Advanced.dimensions()
			if err != nil {
				return nil, fmt.Errorf("roster: employee %s: %w", s.ID, err)
			}
			e.Advanced = &d
			e.Performance = d.MeanPerformance()
			e.Potential = d.MeanPotential()
		}
		out = append(out, e)
	}
	return out, nil
}

// Candidates returns the external applicant pool.
func Candidates() ([]model.Applicant, error) {
	var f applicantsFile
	if err := decode("data/applicants.yaml", &f); err != nil {
		return nil, err
	}
	return f.Applicants, nil
}

// NewSnapshot returns a fresh simulation at round 1 seeded with the
// bundled roster. The applicant list starts empty and fills once titles open.
func NewSnapshot(mode model.Mode) (model.Snapshot, error) {
	if !mode.Valid() {
		mode = model.ModeBasic
	}
	employees, err := Employees(mode)
	if err != nil {
		return model.Snapshot{}, err
	}
	s := model.Snapshot{Round: 1, Mode: mode, Employees: employees}
	s.Normalize()
	return s, nil
}

func (r subRatings) dimensions() (model.Dimensions, error) {
	var d model.Dimensions
	if len(r.Performance) != len(d.Performance) || len(r.Potential) != len(d.Potential) {
		return d, fmt.Errorf("expected %d sub-ratings per dimension", len(d.Performance))
	}
	copy(d.Performance[:], r.Performance)
	copy(d.Potential[:], r.Potential)
	return d, nil
}

func decode(name string, into any) error {
	data, err := bundled.ReadFile(name)
	if err != nil {
		return fmt.Errorf("roster: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("roster: decode %s: %w", name, err)
	}
	return nil
}
