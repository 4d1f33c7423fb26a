// internal/career/skillgap/roadmap.go
package skillgap

import (
	"errors"
	"fmt"
	"sort"
)

const (
	StatusCritical    = "Critical Gap"
	StatusImprovement = "Improvement Needed"

	PriorityCritical    = 1
	PriorityImprovement = 2

	NoteCritical    = "High priority: Essential for this role."
	NoteImprovement = "Moderate priority: Refine these skills."

	// criticalThreshold is the largest gap still classed as an improvement.
	criticalThreshold = 2
)

var ErrDimensionMismatch = errors.New("DIMENSION_MISMATCH")

// Entry is a single skill gap in a roadmap.
type Entry struct {
	Skill    string `json:"skill"`
	Status   string `json:"status"`
	Priority int    `json:"priority"`
	Note     string `json:"note"`
}

// Roadmap is ordered by priority, then by catalog position.
type Roadmap []Entry

// GenerateRoadmap compares user against ideal and returns one entry for every
// dimension where the user falls short.
func GenerateRoadmap(user, ideal Vector, catalog Catalog) (Roadmap, error) {
	if len(user) != len(catalog) || len(ideal) != len(catalog) {
		return nil, fmt.Errorf("%w: catalog=%d user=%d ideal=%d",
			ErrDimensionMismatch, len(catalog), len(user), len(ideal))
	}

	roadmap := Roadmap{}
	for i, skill := range catalog {
		gap := ideal[i] - user[i]
		switch {
		case gap > criticalThreshold:
			roadmap = append(roadmap, Entry{
				Skill:    skill,
				Status:   StatusCritical,
				Priority: PriorityCritical,
				Note:     NoteCritical,
			})
		case gap > 0:
			roadmap = append(roadmap, Entry{
				Skill:    skill,
				Status:   StatusImprovement,
				Priority: PriorityImprovement,
				Note:     NoteImprovement,
			})
		}
	}

	sort.SliceStable(roadmap, func(a, b int) bool {
		return roadmap[a].Priority < roadmap[b].Priority
	})
	return roadmap, nil
}

// Counts returns the number of critical and improvement entries.
func (r Roadmap) Counts() (critical, improvement int) {
	for _, e := range r {
		if e.Priority == PriorityCritical {
			critical++
		} else {
			improvement++
		}
	}
	return critical, improvement
}
