package vacancy

import (
	"fmt"

	"github.com/okian/talentsim/internal/domain/level"
	"github.com/okian/talentsim/internal/domain/model"
)

// Defaults for records created from partial data.
const (
	defaultAge        = 30
	hiredInfo         = "Hired applicant"
	vacatedInfo       = "Vacated by promotion"
	vacancyNameSuffix = " (vacancy)"
)

// Hire turns an applicant into a new active employee with the given id.
// Placeholder vacancy records for the filled title are dropped, the
// applicant pool is pruned to titles that are still open, and the latest
// round summary records the hire.
func Hire(s model.Snapshot, applicantID, newID string) (model.Snapshot, model.Employee, error) {
	idx := s.ApplicantIndex(applicantID)
	if idx < 0 {
		return s, model.Employee{}, fmt.Errorf("%w: %s", ErrApplicantNotFound, applicantID)
	}
	a := s.Applicants[idx]
	title := NormalizeTitle(a.Position)
	if !IsOpen(s.Employees, title) {
		return s, model.Employee{}, fmt.Errorf("%w: %s", ErrPositionNotOpen, a.Position)
	}

	hired := model.Employee{
		ID:          newID,
		Name:        a.Name,
		Position:    title,
		Age:         a.Age,
		Info:        a.Notes,
		Status:      model.StatusActive,
		Performance: ratingOr(a.Performance),
		Potential:   ratingOr(a.Potential),
	}
	if hired.Age <= 0 {
		hired.Age = defaultAge
	}
	if hired.Info == "" {
		hired.Info = hiredInfo
	}

	next := s.Clone()
	roster := make([]model.Employee, 0, len(next.Employees)+1)
	for _, e := range next.Employees {
		if e.Status == model.StatusVacant && NormalizeTitle(e.Position) == title {
			continue
		}
		roster = append(roster, e)
	}
	next.Employees = append(roster, hired)

	open := OpenPositions(next.Employees)
	next.Applicants = EligibleApplicants(removeApplicant(next.Applicants, applicantID), open, nil)

	next.History = amend(next.History, func(r *model.RoundSummary) {
		r.OpenPositions = open
		r.Hired = append(r.Hired, model.HireRecord{
			ID:          hired.ID,
			Name:        hired.Name,
			Position:    hired.Position,
			ApplicantID: a.ID,
		})
	})
	return next, hired.Clone(), nil
}

// Promote moves an active employee into an open title of a higher level and
// leaves a vacancy placeholder, with the given id, at the old title.
func Promote(s model.Snapshot, employeeID, toTitle, vacancyID string) (model.Snapshot, error) {
	idx := s.Find(employeeID)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrEmployeeNotFound, employeeID)
	}
	emp := s.Employees[idx]
	if !emp.IsActive() {
		return s, fmt.Errorf("%w: %s is %s", ErrEmployeeNotActive, employeeID, emp.Status)
	}
	target := NormalizeTitle(toTitle)
	if !IsOpen(s.Employees, target) {
		return s, fmt.Errorf("%w: %s", ErrPositionNotOpen, toTitle)
	}
	if !level.Of(target).Above(level.Of(emp.Position)) {
		return s, fmt.Errorf("%w: %s -> %s", ErrNotHigherLevel, emp.Position, toTitle)
	}

	from := emp.Position
	next := s.Clone()
	next.Employees[idx].Position = target
	next.Employees = append(next.Employees, vacancyRecord(vacancyID, from, emp))

	open := OpenPositions(next.Employees)
	next.History = amend(next.History, func(r *model.RoundSummary) {
		r.OpenPositions = open
		r.Promoted = append(r.Promoted, model.PromotionRecord{
			ID:   emp.ID,
			Name: emp.Name,
			From: from,
			To:   target,
		})
	})
	return next, nil
}

// vacancyRecord builds a placeholder carrying the template's ratings so
// downstream computations always find values.
func vacancyRecord(id, title string, template model.Employee) model.Employee {
	age := template.Age
	if age <= 0 {
		age = defaultAge
	}
	return model.Employee{
		ID:          id,
		Name:        NormalizeTitle(title) + vacancyNameSuffix,
		Position:    title,
		Age:         age,
		Info:        vacatedInfo,
		Status:      model.StatusVacant,
		Performance: ratingOr(template.Performance),
		Potential:   ratingOr(template.Potential),
	}
}

// amend applies fn to the latest summary; before the first commit there is
// nothing to amend.
func amend(h model.History, fn func(*model.RoundSummary)) model.History {
	out, err := h.AmendLatest(fn)
	if err != nil {
		return h
	}
	return out
}

func removeApplicant(pool []model.Applicant, id string) []model.Applicant {
	out := make([]model.Applicant, 0, len(pool))
	for _, a := range pool {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func ratingOr(v float64) float64 {
	if v < model.MinRating || v > model.MaxRating {
		return model.DefaultRating
	}
	return v
}
