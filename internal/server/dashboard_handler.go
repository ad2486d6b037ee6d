package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bjarke-xyz/startup-dashboard/internal/dashboard"
	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/engine"
	"github.com/bjarke-xyz/startup-dashboard/internal/export"
	"github.com/bjarke-xyz/startup-dashboard/internal/metrics"
	"github.com/bjarke-xyz/startup-dashboard/internal/server/html"
)

const dashboardTitle = "Startup Applications"

var tableColumns = []struct {
	Label string
	Key   engine.SortKey
}{
	{"Startup Name", engine.SortStartupName},
	{"Founder", engine.SortFounderName},
	{"Email", engine.SortEmail},
	{"Stage", engine.SortStage},
	{"Funding", engine.SortFundingAmount},
	{"Team Size", engine.SortTeamSize},
	{"Mentorship", engine.SortSeekingMentorship},
	{"Created", engine.SortCreatedAt},
}

// stateFromQuery reads the filter and sort selection from the page URL.
func stateFromQuery(q url.Values) engine.State {
	st := engine.State{
		Filters: engine.Filters{
			Text:       q.Get("q"),
			Stage:      q.Get("stage"),
			Mentorship: engine.Mentorship(q.Get("mentorship")),
		},
		Sort: engine.DefaultSort,
	}
	if q.Get("sort") != "" {
		st.Sort = engine.ParseSort(q.Get("sort"), q.Get("dir"))
	}
	return st
}

func stateQuery(st engine.State) url.Values {
	q := url.Values{}
	if st.Filters.Text != "" {
		q.Set("q", st.Filters.Text)
	}
	if st.Filters.Stage != "" && st.Filters.Stage != engine.StageAll {
		q.Set("stage", st.Filters.Stage)
	}
	if st.Filters.Mentorship == engine.MentorshipYes || st.Filters.Mentorship == engine.MentorshipNo {
		q.Set("mentorship", string(st.Filters.Mentorship))
	}
	q.Set("sort", string(st.Sort.Key))
	q.Set("dir", string(st.Sort.Direction))
	return q
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func optionalInt(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func (s *server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.board.EnsureLoaded(r.Context())
	st := stateFromQuery(r.URL.Query())

	params := html.DashboardParams{
		Title:       dashboardTitle,
		Error:       r.URL.Query().Get("error"),
		AuthEnabled: s.authEnabled(),
		Status:      string(snap.Status),
		Query:       snap.Query,
		Text:        st.Filters.Text,
		Stage:       st.Filters.Stage,
		Mentoring:   string(st.Filters.Mentorship),
	}

	switch snap.Status {
	case dashboard.StatusFailed:
		params.Error = snap.Err.Error()
	case dashboard.StatusLoaded:
		s.fillDashboard(&params, snap, st)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := html.DashboardPage(w, params); err != nil {
		s.logger.Error("failed to render dashboard", "error", err)
	}
}

func (s *server) fillDashboard(params *html.DashboardParams, snap dashboard.Snapshot, st engine.State) {
	view := engine.Build(snap.Apps, st, s.funding)

	params.Stages = view.Summary.Stages
	params.Summary = html.Summary{
		Total:      view.Summary.Total,
		Mentorship: view.Summary.SeekingMentorship,
		Funding:    view.Summary.FundingDisplay,
		StageCount: view.Summary.StageCount(),
	}
	params.LoadedAt = snap.LoadedAt.In(s.dates.Location()).Format(time.DateTime)
	params.ExportURL = withQuery("/dashboard/export.csv", stateQuery(st))

	for _, col := range tableColumns {
		next := st
		next.Sort = st.Sort.Toggle(col.Key)
		params.Columns = append(params.Columns, html.Column{
			Label:  col.Label,
			URL:    withQuery("/dashboard/", stateQuery(next)),
			Active: st.Sort.Key == col.Key,
			Desc:   st.Sort.Direction == engine.Desc,
		})
	}

	for _, a := range view.Rows {
		params.Rows = append(params.Rows, html.Row{
			URL:         "/dashboard/startup/" + url.PathEscape(a.ID),
			StartupName: orNA(a.StartupName),
			FounderName: orNA(a.FounderName),
			Email:       orNA(a.Email),
			Stage:       orNA(a.Stage),
			Funding:     s.funding.Format(a.FundingAmount),
			TeamSize:    optionalInt(a.TeamSize),
			Mentorship:  yesNo(a.SeekingMentorship),
			Created:     s.dates.Date(a.CreatedAt),
		})
	}

	if len(view.Rows) == 0 {
		params.Empty = html.EmptyNoResults
		if view.Unfiltered && snap.Query == "" {
			params.Empty = html.EmptyNoData
		}
	}
}

func (s *server) handlePostRefresh(w http.ResponseWriter, r *http.Request) {
	s.board.Load(r.Context(), "")
	http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
}

func (s *server) handlePostSearch(w http.ResponseWriter, r *http.Request) {
	s.board.Load(r.Context(), r.FormValue("query"))
	http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
}

func (s *server) handleGetStartup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	params := html.StartupParams{
		Title:       "Startup",
		AuthEnabled: s.authEnabled(),
	}

	app, err := s.startups.Get(r.Context(), id)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, domain.ErrNotFound) {
			params.Error = "Startup not found"
		} else {
			params.Error = err.Error()
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := html.StartupPage(w, params); err != nil {
			s.logger.Error("failed to render startup page", "error", err)
		}
		return
	}

	params.Found = true
	params.Title = orNA(app.StartupName)
	params.StartupName = orNA(app.StartupName)
	params.FounderName = app.FounderName
	params.Stage = app.Stage
	params.Sections = s.startupSections(app)
	if app.PitchDeck != nil {
		params.DeckName = app.PitchDeck.Name
		params.DeckURL = app.PitchDeck.URL
		params.DeckAdded = s.dates.Date(app.PitchDeck.UploadedAt)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := html.StartupPage(w, params); err != nil {
		s.logger.Error("failed to render startup page", "error", err)
	}
}

func (s *server) startupSections(a domain.Application) []html.Section {
	return []html.Section{
		{Title: "Overview", Fields: []html.Field{
			{Label: "Founder", Value: orNA(a.FounderName)},
			{Label: "Email", Value: orNA(a.Email)},
			{Label: "Phone", Value: orNA(a.Phone)},
			{Label: "LinkedIn", Value: orNA(a.LinkedIn)},
			{Label: "Stage", Value: orNA(a.Stage)},
			{Label: "Description", Value: orNA(a.Description), Long: true},
			{Label: "Pitch", Value: orNA(a.Pitch), Long: true},
		}},
		{Title: "Business", Fields: []html.Field{
			{Label: "Problem", Value: orNA(a.Problem), Long: true},
			{Label: "Inspiration", Value: orNA(a.Inspiration), Long: true},
			{Label: "Differentiation", Value: orNA(a.Differentiation), Long: true},
			{Label: "Target Audience", Value: orNA(a.Audience), Long: true},
			{Label: "Competitors", Value: orNA(a.Competitors), Long: true},
			{Label: "Monetization", Value: orNA(a.Monetization), Long: true},
		}},
		{Title: "Team and Funding", Fields: []html.Field{
			{Label: "Team Size", Value: optionalInt(a.TeamSize)},
			{Label: "Team Skills", Value: orNA(a.TeamSkills), Long: true},
			{Label: "Funding Requested", Value: s.funding.Format(a.FundingAmount)},
			{Label: "Use of Funds", Value: orNA(a.FundingUse), Long: true},
			{Label: "Why Fund", Value: orNA(a.WhyFund), Long: true},
			{Label: "Previous Grants", Value: orNA(a.PreviousGrants), Long: true},
			{Label: "Seeking Mentorship", Value: yesNo(a.SeekingMentorship)},
		}},
		{Title: "Timeline", Fields: []html.Field{
			{Label: "Meeting", Value: s.dates.MeetingTime(a.MeetingTime)},
			{Label: "Submitted", Value: s.dates.Date(a.CreatedAt)},
			{Label: "Last Updated", Value: s.dates.Date(a.UpdatedAt)},
		}},
	}
}

func (s *server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	snap := s.board.EnsureLoaded(r.Context())
	switch snap.Status {
	case dashboard.StatusFailed:
		http.Error(w, snap.Err.Error(), statusFor(snap.Err))
		return
	case dashboard.StatusLoaded:
	default:
		http.Error(w, "startup data is loading", http.StatusServiceUnavailable)
		return
	}

	view := engine.Build(snap.Apps, stateFromQuery(r.URL.Query()), s.funding)
	if len(view.Rows) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))
	if err := export.WriteCSV(w, view.Rows, s.funding, s.dates); err != nil {
		s.logger.Error("failed to write csv export", "error", err)
		return
	}
	metrics.CSVExports.Inc()
}
