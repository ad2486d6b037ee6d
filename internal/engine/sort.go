package engine

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
)

type SortKey string

const (
	SortStartupName       SortKey = "startupName"
	SortFounderName       SortKey = "founderName"
	SortEmail             SortKey = "email"
	SortStage             SortKey = "stage"
	SortFundingAmount     SortKey = "fundingAmount"
	SortTeamSize          SortKey = "teamSize"
	SortSeekingMentorship SortKey = "seekingMentorship"
	SortCreatedAt         SortKey = "createdAt"
	SortUpdatedAt         SortKey = "updatedAt"
	SortMeetingTime       SortKey = "meetingTime"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is a sort key and direction. The zero value sorts by creation time,
// newest first.
type Sort struct {
	Key       SortKey
	Direction Direction
}

var DefaultSort = Sort{Key: SortCreatedAt, Direction: Desc}

type comparator func(a, b domain.Application) int

// Absent values (empty strings, nil numbers and instants) compare lowest.
var comparators = map[SortKey]comparator{
	SortStartupName:       byString(func(a domain.Application) string { return a.StartupName }),
	SortFounderName:       byString(func(a domain.Application) string { return a.FounderName }),
	SortEmail:             byString(func(a domain.Application) string { return a.Email }),
	SortStage:             byString(func(a domain.Application) string { return a.Stage }),
	SortFundingAmount:     byOptional(func(a domain.Application) *float64 { return a.FundingAmount }),
	SortTeamSize:          byOptional(func(a domain.Application) *int { return a.TeamSize }),
	SortSeekingMentorship: byBool(func(a domain.Application) bool { return a.SeekingMentorship }),
	SortCreatedAt:         byInstant(func(a domain.Application) *time.Time { return a.CreatedAt }),
	SortUpdatedAt:         byInstant(func(a domain.Application) *time.Time { return a.UpdatedAt }),
	SortMeetingTime:       byInstant(func(a domain.Application) *time.Time { return a.MeetingTime }),
}

// ParseSort reads a sort from user input. Unknown keys fall back to
// createdAt and unknown directions to ascending.
func ParseSort(key string, direction string) Sort {
	s := Sort{Key: SortKey(key), Direction: Direction(strings.ToLower(direction))}
	if _, ok := comparators[s.Key]; !ok {
		s.Key = DefaultSort.Key
	}
	if s.Direction != Desc {
		s.Direction = Asc
	}
	return s
}

// Toggle returns the sort a click on key's column header should produce:
// flipping the direction on the current column, ascending on a new one.
func (s Sort) Toggle(key SortKey) Sort {
	if s.Key != key {
		return Sort{Key: key, Direction: Asc}
	}
	if s.Direction == Asc {
		return Sort{Key: key, Direction: Desc}
	}
	return Sort{Key: key, Direction: Asc}
}

// SortApplications returns a sorted copy of apps. The sort is stable, so
// records with equal keys keep their input order.
func SortApplications(apps []domain.Application, s Sort) []domain.Application {
	if s == (Sort{}) {
		s = DefaultSort
	}
	compare, ok := comparators[s.Key]
	if !ok {
		compare = comparators[DefaultSort.Key]
	}
	sorted := slices.Clone(apps)
	slices.SortStableFunc(sorted, func(a, b domain.Application) int {
		if s.Direction == Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted
}

func byString(get func(domain.Application) string) comparator {
	return func(a, b domain.Application) int {
		return strings.Compare(get(a), get(b))
	}
}

func byOptional[T cmp.Ordered](get func(domain.Application) *T) comparator {
	return func(a, b domain.Application) int {
		return compareOptional(get(a), get(b), cmp.Compare[T])
	}
}

func byInstant(get func(domain.Application) *time.Time) comparator {
	return func(a, b domain.Application) int {
		return compareOptional(get(a), get(b), func(x, y time.Time) int { return x.Compare(y) })
	}
}

func byBool(get func(domain.Application) bool) comparator {
	return func(a, b domain.Application) int {
		x, y := get(a), get(b)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
}

func compareOptional[T any](x, y *T, compare func(T, T) int) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return -1
	case y == nil:
		return 1
	}
	return compare(*x, *y)
}
