package service

import (
	"github.com/okian/talentsim/internal/domain/model"
	"github.com/okian/talentsim/internal/domain/round"
)

// Summary is the end-of-game report.
type Summary struct {
	Round         int                `json:"round"`
	Finished      bool               `json:"finished"`
	Score         float64            `json:"score"`
	Trend         []model.TrendPoint `json:"trend"`
	OpenPositions []string           `json:"openPositions"`
	Departures    map[string]int     `json:"departures"`
	Active        int                `json:"active"`
	Hires         int                `json:"hires"`
	Promotions    int                `json:"promotions"`
}

// Finished reports whether the last round has been committed.
func (s *Service) Finished() (bool, error) {
	p, err := s.Phase()
	if err != nil {
		return false, err
	}
	return p == round.Finished, nil
}

// FinalSummary aggregates the history of the simulation. It can be called
// at any time; Finished tells whether the numbers are final.
func (s *Service) FinalSummary() (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return Summary{}, ErrNotStarted
	}

	out := Summary{
		Round:         s.state.Round,
		Finished:      round.PhaseOf(s.state, s.maxRounds) == round.Finished,
		Score:         s.engine.Score(s.state),
		Trend:         s.state.History.ScoreTrend(),
		OpenPositions: s.engine.OpenPositions(s.state),
		Departures:    map[string]int{},
		Active:        len(s.state.Active()),
	}
	for _, e := range s.state.History.Entries() {
		for _, d := range e.Left {
			out.Departures[string(d.Reason)]++
		}
		out.Hires += len(e.Hired)
		out.Promotions += len(e.Promoted)
	}
	return out, nil
}
