package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/internal/domain/round"
	"github.com/okian/talentsim/internal/domain/vacancy"
	"github.com/okian/talentsim/pkg/logger"
	"github.com/okian/talentsim/pkg/metrics"
)

// Commit rejection reasons used as metric labels.
const (
	rejectFinished   = "finished"
	rejectIncomplete = "ninebox_incomplete"
)

// CommitResult describes a committed round.
type CommitResult struct {
	Summary model.RoundSummary
	// UnusedTrainingSlots is how many slots were left unassigned in the committed round.
	UnusedTrainingSlots int
	// Finished is true when no further round can be committed.
	Finished bool
}

// AssignTraining records the training choice for an active employee in the
// current round. "none" or "" clears it. Re-assigning an employee who
// already holds a slot never hits the cap.
func (s *Service) AssignTraining(ctx context.Context, employeeID, kind string) error {
	k, ok := model.ParseTrainingKind(kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidTraining, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if err := s.requireActive(employeeID); err != nil {
		return err
	}

	if !k.Counts() {
		delete(s.state.Trainings, employeeID)
		s.persist(ctx)
		return nil
	}
	if !s.state.Trainings[employeeID].Counts() && s.slotsUsed() >= s.trainingCap {
		return fmt.Errorf("%w: %d of %d slots used", ErrTrainingCapReached, s.slotsUsed(), s.trainingCap)
	}
	s.state.Trainings[employeeID] = k
	metrics.RecordTraining(string(k))
	s.persist(ctx)

	s.logger.Debug(ctx, "training assigned",
		logger.String("employee", employeeID),
		logger.String("kind", string(k)),
	)
	return nil
}

// PlaceNineBox records the grid cell for an active employee.
func (s *Service) PlaceNineBox(ctx context.Context, employeeID string, p model.Placement) error {
	if !p.Valid() {
		return fmt.Errorf("%w: perf=%d pot=%d", ErrInvalidPlacement, p.PerfBucket, p.PotBucket)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if err := s.requireActive(employeeID); err != nil {
		return err
	}
	s.state.NineBox[employeeID] = p
	s.persist(ctx)
	return nil
}

// Promote moves an employee into a higher open title and opens their old one.
func (s *Service) Promote(ctx context.Context, employeeID, toTitle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}

	next, err := vacancy.Promote(s.state, employeeID, toTitle, s.newID())
	if err != nil {
		return err
	}
	open := vacancy.OpenPositions(next.Employees)
	next.Applicants = vacancy.EligibleApplicants(s.pool, open, next.History.HiredApplicantIDs())
	s.state = next

	metrics.RecordPromotion()
	s.observe()
	s.persist(ctx)

	s.logger.Info(ctx, "employee promoted",
		logger.String("employee", employeeID),
		logger.String("to", vacancy.NormalizeTitle(toTitle)),
		logger.Int("openPositions", len(open)),
	)
	return nil
}

// Hire turns an applicant into an active employee.
func (s *Service) Hire(ctx context.Context, applicantID string) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return model.Employee{}, ErrNotStarted
	}

	next, hired, err := vacancy.Hire(s.state, applicantID, s.newID())
	if err != nil {
		return model.Employee{}, err
	}
	s.state = next

	metrics.RecordHire()
	s.observe()
	s.persist(ctx)

	s.logger.Info(ctx, "applicant hired",
		logger.String("applicant", applicantID),
		logger.String("employee", hired.ID),
		logger.String("position", hired.Position),
	)
	return hired, nil
}

// Commit closes the current round. Every active employee must have a
// nine-box placement and the simulation must not be finished.
func (s *Service) Commit(ctx context.Context) (CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return CommitResult{}, ErrNotStarted
	}

	if round.PhaseOf(s.state, s.maxRounds) == round.Finished {
		metrics.RecordCommitRejected(rejectFinished)
		return CommitResult{}, fmt.Errorf("%w: %d rounds played", ErrSimulationFinished, s.maxRounds)
	}
	report := round.Preflight(s.state, s.trainingCap)
	if report.Blocking() {
		metrics.RecordCommitRejected(rejectIncomplete)
		return CommitResult{}, fmt.Errorf("%w: %d unplaced", ErrNineBoxIncomplete, len(report.MissingPlacements))
	}

	start := time.Now()
	next := s.engine.Advance(s.state, nil)
	summary, _ := next.History.Latest()
	s.state = next
	metrics.RecordRoundCommitted(float64(time.Since(start).Microseconds()) / 1000)

	for _, d := range summary.Left {
		metrics.RecordDeparture(string(d.Reason))
	}
	s.observe()
	s.persist(ctx)

	finished := round.PhaseOf(s.state, s.maxRounds) == round.Finished
	s.logger.Info(ctx, "round committed",
		logger.Int("round", summary.Round),
		logger.Float64("score", summary.ScoreValue()),
		logger.Int("left", len(summary.Left)),
		logger.Int("openPositions", len(summary.OpenPositions)),
		logger.Int("unusedTrainingSlots", report.UnusedTrainingSlots),
		logger.Bool("finished", finished),
	)
	return CommitResult{
		Summary:             summary,
		UnusedTrainingSlots: report.UnusedTrainingSlots,
		Finished:            finished,
	}, nil
}

// Reset discards the simulation and seeds a new one. An invalid mode keeps
// the current one.
func (s *Service) Reset(ctx context.Context, mode model.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if !mode.Valid() {
		mode = s.state.Mode
	}

	state, err := s.seed(mode)
	if err != nil {
		return err
	}
	s.state = state
	s.observe()
	s.persist(ctx)

	s.logger.Info(ctx, "simulation reset", logger.String("mode", string(mode)))
	return nil
}

func (s *Service) requireActive(employeeID string) error {
	i := s.state.Find(employeeID)
	if i < 0 {
		return fmt.Errorf("%w: %s", vacancy.ErrEmployeeNotFound, employeeID)
	}
	if e := s.state.Employees[i]; !e.IsActive() {
		return fmt.Errorf("%w: %s is %s", vacancy.ErrEmployeeNotActive, employeeID, e.Status)
	}
	return nil
}

// slotsUsed counts training slots held by active employees.
func (s *Service) slotsUsed() int {
	n := 0
	for id, k := range s.state.Trainings {
		if i := s.state.Find(id); k.Counts() && i >= 0 && s.state.Employees[i].IsActive() {
			n++
		}
	}
	return n
}
