package engine

import (
	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/format"
)

// State is the dashboard's filter and sort selection.
type State struct {
	Filters Filters
	Sort    Sort
}

// View is what the dashboard renders for one State.
type View struct {
	Rows    []domain.Application
	Summary Summary
	// Unfiltered is true when no filter is active, so an empty Rows means
	// there is no data at all rather than no matches.
	Unfiltered bool
}

// Build filters and sorts apps for st and summarizes the full set.
func Build(apps []domain.Application, st State, funding format.FundingFormatter) View {
	rows := SortApplications(ApplyFilters(apps, st.Filters), st.Sort)
	return View{
		Rows:       rows,
		Summary:    Summarize(apps, funding),
		Unfiltered: st.Filters.IsEmpty(),
	}
}
