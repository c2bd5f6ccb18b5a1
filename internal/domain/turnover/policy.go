// Package turnover decides which active employees leave at the end of a round.
package turnover

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/talentsim/internal/domain/model"
)

// Info markers, matched case-insensitively.
const (
	retirementMarker = "retir"
	quitMarker       = "external opportunities"
)

// Policy holds the turnover thresholds.
//
// RetireFromRound and QuitFromRound are the earliest rounds at which a
// flagged employee leaves. With the default of 1 a flag takes effect on the
// first evaluation after it is set.
type Policy struct {
	Name                    string
	LowPerformanceThreshold float64
	StrikeLimit             int
	RetireFromRound         int
	QuitFromRound           int
}

// ImmediateExit is the name of the default policy.
const ImmediateExit = "immediate-exit"

// DefaultPolicy returns the ImmediateExit policy.
func DefaultPolicy() Policy {
	return Policy{
		Name:                    ImmediateExit,
		LowPerformanceThreshold: 2.5,
		StrikeLimit:             2,
		RetireFromRound:         1,
		QuitFromRound:           1,
	}
}

// UpdateStrikes adds a strike when the employee's effective performance is
// at or below the threshold. Strikes never reset.
func (p Policy) UpdateStrikes(e model.Employee, mode model.Mode) model.Employee {
	if !e.IsActive() {
		return e
	}
	if e.EffectivePerformance(mode) <= p.LowPerformanceThreshold {
		e.LowPerfStrikes++
	}
	return e
}

// Decide returns the status the employee should move to and whether it is a
// change. Only active employees are evaluated.
func (p Policy) Decide(e model.Employee, round int) (model.Status, bool) {
	if !e.IsActive() {
		return e.Status, false
	}
	info := cases.Fold().String(e.Info)
	switch {
	case strings.Contains(info, retirementMarker) && round >= p.RetireFromRound:
		return model.StatusRetired, true
	case strings.Contains(info, quitMarker) && round >= p.QuitFromRound:
		return model.StatusQuit, true
	case p.StrikeLimit > 0 && e.LowPerfStrikes >= p.StrikeLimit:
		return model.StatusFired, true
	}
	return e.Status, false
}

// Apply returns the employee with the decided status.
func (p Policy) Apply(e model.Employee, round int) model.Employee {
	if status, changed := p.Decide(e, round); changed {
		e.Status = status
	}
	return e
}
