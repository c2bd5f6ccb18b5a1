// Package level classifies free-text position titles into organizational levels.
package level

import "strings"

// Level is an organizational tier. Higher values rank above lower ones.
type Level int

// Levels in ascending order.
const (
	Specialist Level = iota
	Manager
	Director
	VP
	CEO
)

// matchOrder is the substring priority used by Of; first match wins.
var matchOrder = []Level{CEO, VP, Director, Manager}

var names = map[Level]string{
	Specialist: "Specialist",
	Manager:    "Manager",
	Director:   "Director",
	VP:         "VP",
	CEO:        "CEO",
}

// String returns the title token of the level.
func (l Level) String() string {
	if n, ok := names[l]; ok {
		return n
	}
	return names[Specialist]
}

// Of classifies a title. Matching is case-sensitive on the level token and
// defaults to Specialist.
func Of(title string) Level {
	for _, l := range matchOrder {
		if strings.Contains(title, names[l]) {
			return l
		}
	}
	return Specialist
}

// Parse maps a level name (case-insensitive) back to a Level.
func Parse(name string) (Level, bool) {
	for l, n := range names {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return l, true
		}
	}
	return Specialist, false
}

// Above reports whether l ranks strictly above other.
func (l Level) Above(other Level) bool { return l > other }

// All returns every level in ascending order.
func All() []Level { return []Level{Specialist, Manager, Director, VP, CEO} }

// DefaultWeights returns the scoring weight per level.
func DefaultWeights() map[Level]float64 {
	return map[Level]float64{
		CEO:        5.0,
		VP:         4.0,
		Director:   3.0,
		Manager:    2.0,
		Specialist: 1.0,
	}
}
