// Package round advances an organization snapshot by one simulated year.
package round

import (
	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/internal/domain/rating"
	"github.com/okian/talentsim/internal/domain/scoring"
	"github.com/okian/talentsim/internal/domain/turnover"
	"github.com/okian/talentsim/internal/domain/vacancy"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithScorer sets the scorer used in the final step of Advance.
func WithScorer(s scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithTurnoverPolicy sets the turnover policy.
func WithTurnoverPolicy(p turnover.Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithCandidatePool sets the external candidate pool the applicant list is
// rebuilt from after every round. Without a pool the snapshot's own
// applicants are filtered instead.
func WithCandidatePool(pool []model.Applicant) Option {
	return func(e *Engine) {
		e.pool = append([]model.Applicant(nil), pool...)
	}
}

// Engine runs the round transition. It holds no snapshot state and is safe
// for concurrent use.
type Engine struct {
	scorer scoring.Scorer
	policy turnover.Policy
	pool   []model.Applicant
}

// NewEngine creates an engine with the default scorer and turnover policy.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		scorer: scoring.NewWeightedScorer(),
		policy: turnover.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the turnover policy in use.
func (e *Engine) Policy() turnover.Policy { return e.policy }

// Advance commits the round held by s and returns the next snapshot. When
// trainings is nil the assignments recorded on s are used. The input is
// never modified.
func (e *Engine) Advance(s model.Snapshot, trainings map[string]model.TrainingKind) model.Snapshot {
	if trainings == nil {
		trainings = s.Trainings
	}
	next := s.Clone()
	committed := next.Round

	wasActive := make(map[string]bool, len(next.Employees))
	for i, emp := range next.Employees {
		if !emp.IsActive() {
			continue
		}
		wasActive[emp.ID] = true
		updated := rating.Update(emp, committed, trainings[emp.ID], next.Mode)
		next.Employees[i] = e.policy.UpdateStrikes(updated, next.Mode)
	}

	for i, emp := range next.Employees {
		if emp.IsActive() {
			next.Employees[i] = e.policy.Apply(emp, committed)
		}
	}

	open := vacancy.OpenPositions(next.Employees)
	next.Applicants = vacancy.EligibleApplicants(e.candidates(s), open, next.History.HiredApplicantIDs())

	summary := model.RoundSummary{
		Round:         committed,
		Left:          departures(next.Employees, wasActive),
		OpenPositions: open,
	}

	next.Round = committed + 1
	next.Trainings = map[string]model.TrainingKind{}
	next.NineBox = map[string]model.Placement{}
	next.History = next.History.Append(summary)

	score := e.scorer.Score(next)
	if amended, err := next.History.AmendLatest(func(r *model.RoundSummary) { r.Score = &score }); err == nil {
		next.History = amended
	}
	return next
}

// Score returns the current score of s.
func (e *Engine) Score(s model.Snapshot) float64 { return e.scorer.Score(s) }

// OpenPositions returns the open titles of s.
func (e *Engine) OpenPositions(s model.Snapshot) []string {
	return vacancy.OpenPositions(s.Employees)
}

func (e *Engine) candidates(s model.Snapshot) []model.Applicant {
	if e.pool != nil {
		return e.pool
	}
	return s.Applicants
}

func departures(employees []model.Employee, wasActive map[string]bool) []model.Departure {
	out := []model.Departure{}
	for _, emp := range employees {
		if wasActive[emp.ID] && emp.Status.IsDeparture() {
			out = append(out, model.Departure{ID: emp.ID, Name: emp.Name, Reason: emp.Status})
		}
	}
	return out
}
