// Package vacancy derives open position titles from the roster and applies
// hires and promotions against them.
package vacancy

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/okian/talentsim/internal/domain/level"
	"github.com/okian/talentsim/internal/domain/model"
)

// NormalizeTitle canonicalises a title for comparison: NFC form, single
// spaces, no leading or trailing space.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(norm.NFC.String(title)), " ")
}

// OpenPositions returns the titles held by a non-active record and by no
// active employee, in roster order and without duplicates. It is always
// computed from the given roster.
func OpenPositions(employees []model.Employee) []string {
	held := make(map[string]bool, len(employees))
	for _, e := range employees {
		if e.IsActive() {
			held[NormalizeTitle(e.Position)] = true
		}
	}
	seen := map[string]bool{}
	open := []string{}
	for _, e := range employees {
		if e.IsActive() {
			continue
		}
		t := NormalizeTitle(e.Position)
		if t == "" || held[t] || seen[t] {
			continue
		}
		seen[t] = true
		open = append(open, t)
	}
	return open
}

// IsOpen reports whether title is currently open.
func IsOpen(employees []model.Employee, title string) bool {
	want := NormalizeTitle(title)
	for _, t := range OpenPositions(employees) {
		if t == want {
			return true
		}
	}
	return false
}

// HigherOpenTitles lists the open titles ranking strictly above the given
// employee's current level. Non-active or unknown employees get none.
func HigherOpenTitles(employees []model.Employee, employeeID string) []string {
	var current *model.Employee
	for i := range employees {
		if employees[i].ID == employeeID {
			current = &employees[i]
			break
		}
	}
	if current == nil || !current.IsActive() {
		return []string{}
	}
	mine := level.Of(current.Position)
	out := []string{}
	for _, t := range OpenPositions(employees) {
		if level.Of(t).Above(mine) {
			out = append(out, t)
		}
	}
	return out
}

// EligibleApplicants keeps applicants whose target title is open and who
// have not been hired already.
func EligibleApplicants(pool []model.Applicant, open []string, consumed map[string]bool) []model.Applicant {
	openSet := make(map[string]bool, len(open))
	for _, t := range open {
		openSet[NormalizeTitle(t)] = true
	}
	out := []model.Applicant{}
	for _, a := range pool {
		if consumed[a.ID] {
			continue
		}
		if openSet[NormalizeTitle(a.Position)] {
			out = append(out, a)
		}
	}
	return out
}
