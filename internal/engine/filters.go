// Package engine filters, sorts and summarizes the dashboard's record set.
// Everything here is pure: inputs are never mutated and malformed records
// degrade instead of failing.
package engine

import (
	"strings"

	"github.com/samber/lo"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
)

const StageAll = "all"

type Mentorship string

const (
	MentorshipAll Mentorship = "all"
	MentorshipYes Mentorship = "yes"
	MentorshipNo  Mentorship = "no"
)

// Filters are AND-combined. Zero values filter nothing.
type Filters struct {
	Text       string
	Stage      string
	Mentorship Mentorship
}

// IsEmpty reports whether f lets every record through.
func (f Filters) IsEmpty() bool {
	return strings.TrimSpace(f.Text) == "" && f.allStages() && f.allMentorship()
}

func (f Filters) allStages() bool {
	return f.Stage == "" || f.Stage == StageAll
}

func (f Filters) allMentorship() bool {
	return f.Mentorship != MentorshipYes && f.Mentorship != MentorshipNo
}

// ApplyFilters returns the records matching every filter, in input order.
func ApplyFilters(apps []domain.Application, f Filters) []domain.Application {
	text := strings.TrimSpace(f.Text)
	return lo.Filter(apps, func(a domain.Application, _ int) bool {
		return domain.MatchesSearch(a, text) && f.matchesStage(a) && f.matchesMentorship(a)
	})
}

func (f Filters) matchesStage(a domain.Application) bool {
	return f.allStages() || a.Stage == f.Stage
}

func (f Filters) matchesMentorship(a domain.Application) bool {
	switch f.Mentorship {
	case MentorshipYes:
		return a.SeekingMentorship
	case MentorshipNo:
		return !a.SeekingMentorship
	}
	return true
}
