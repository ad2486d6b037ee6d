package engine

import (
	"slices"

	"github.com/samber/lo"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/format"
)

// Summary holds the dashboard's headline numbers. It is always computed from
// the full record set, never the filtered view.
type Summary struct {
	Total             int
	SeekingMentorship int
	FundingTotal      float64
	FundingDisplay    string
	// Stages are the distinct non-empty stages, sorted.
	Stages []string
}

// StageCount is the number of distinct non-empty stages.
func (s Summary) StageCount() int {
	return len(s.Stages)
}

// Summarize aggregates apps. Absent funding amounts count as zero.
func Summarize(apps []domain.Application, funding format.FundingFormatter) Summary {
	total := lo.SumBy(apps, func(a domain.Application) float64 {
		if a.FundingAmount == nil {
			return 0
		}
		return *a.FundingAmount
	})
	stages := lo.Uniq(lo.FilterMap(apps, func(a domain.Application, _ int) (string, bool) {
		return a.Stage, a.Stage != ""
	}))
	slices.Sort(stages)
	return Summary{
		Total:             len(apps),
		SeekingMentorship: lo.CountBy(apps, func(a domain.Application) bool { return a.SeekingMentorship }),
		FundingTotal:      total,
		FundingDisplay:    funding.Format(&total),
		Stages:            stages,
	}
}
