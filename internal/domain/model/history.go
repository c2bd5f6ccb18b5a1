package model

import (
	"encoding/json"
	"errors"
)

// ErrEmptyHistory is returned when amending a history with no entries.
var ErrEmptyHistory = errors.New("history is empty")

// Departure records an employee who left during a round.
type Departure struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Reason Status `json:"reason"`
}

// HireRecord records an applicant hired after a round was committed.
type HireRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	ApplicantID string `json:"applicantId,omitempty"`
}

// PromotionRecord records an internal move to a higher open title.
type PromotionRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

// RoundSummary is the record appended once per committed round. Score is
// nil only between append and scoring inside a single advance.
type RoundSummary struct {
	Round         int               `json:"round"`
	Score         *float64          `json:"score"`
	Left          []Departure       `json:"left"`
	OpenPositions []string          `json:"openPositions"`
	Hired         []HireRecord      `json:"hired,omitempty"`
	Promoted      []PromotionRecord `json:"promoted,omitempty"`
}

// ScoreValue returns the score or 0 when unset.
func (r RoundSummary) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

func (r RoundSummary) clone() RoundSummary {
	out := r
	if r.Score != nil {
		v := *r.Score
		out.Score = &v
	}
	out.Left = append([]Departure(nil), r.Left...)
	out.OpenPositions = append([]string(nil), r.OpenPositions...)
	out.Hired = append([]HireRecord(nil), r.Hired...)
	out.Promoted = append([]PromotionRecord(nil), r.Promoted...)
	return out
}

// History is the ordered list of round summaries. Entries can only be
// appended, and only the latest one can be amended.
type History struct {
	entries []RoundSummary
}

// NewHistory builds a history from existing summaries.
func NewHistory(entries ...RoundSummary) History {
	h := History{}
	for _, e := range entries {
		h.entries = append(h.entries, e.clone())
	}
	return h
}

// Len returns the number of entries.
func (h History) Len() int { return len(h.entries) }

// Entries returns copies of all entries in order.
func (h History) Entries() []RoundSummary {
	out := make([]RoundSummary, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.clone()
	}
	return out
}

// Latest returns a copy of the last entry.
func (h History) Latest() (RoundSummary, bool) {
	if len(h.entries) == 0 {
		return RoundSummary{}, false
	}
	return h.entries[len(h.entries)-1].clone(), true
}

// Append returns a new history with s added at the end.
func (h History) Append(s RoundSummary) History {
	out := h.clone()
	out.entries = append(out.entries, s.clone())
	return out
}

// AmendLatest returns a new history where fn has been applied to the last
// entry. Earlier entries are never touched.
func (h History) AmendLatest(fn func(*RoundSummary)) (History, error) {
	if len(h.entries) == 0 {
		return h, ErrEmptyHistory
	}
	out := h.clone()
	fn(&out.entries[len(out.entries)-1])
	return out, nil
}

// TrendPoint is one (round, score) pair.
type TrendPoint struct {
	Round int     `json:"round"`
	Score float64 `json:"score"`
}

// ScoreTrend lists the score after every committed round.
func (h History) ScoreTrend() []TrendPoint {
	out := make([]TrendPoint, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, TrendPoint{Round: e.Round, Score: e.ScoreValue()})
	}
	return out
}

// HiredApplicantIDs returns the applicant ids recorded in any hire.
func (h History) HiredApplicantIDs() map[string]bool {
	out := map[string]bool{}
	for _, e := range h.entries {
		for _, hr := range e.Hired {
			if hr.ApplicantID != "" {
				out[hr.ApplicantID] = true
			}
		}
	}
	return out
}

func (h History) clone() History {
	if h.entries == nil {
		return History{}
	}
	out := History{entries: make([]RoundSummary, len(h.entries))}
	for i, e := range h.entries {
		out.entries[i] = e.clone()
	}
	return out
}

// MarshalJSON writes the history as a plain array.
func (h History) MarshalJSON() ([]byte, error) {
	if h.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.entries)
}

// UnmarshalJSON reads a plain array.
func (h *History) UnmarshalJSON(data []byte) error {
	var entries []RoundSummary
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	h.entries = entries
	return nil
}
