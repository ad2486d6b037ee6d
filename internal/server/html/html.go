package html

import (
	"embed"
	"html/template"
	"io"
)

//go:embed pages/*.html
var files embed.FS

var (
	dashboardTemplate = parse("pages/dashboard.html")
	startupTemplate   = parse("pages/startup.html")
	loginTemplate     = parse("pages/login.html")
)

// Empty states of the dashboard table.
const (
	EmptyNone      = ""
	EmptyNoData    = "no-data"
	EmptyNoResults = "no-results"
)

type Summary struct {
	Total      int
	Mentorship int
	Funding    string
	StageCount int
}

type Column struct {
	Label  string
	URL    string
	Active bool
	Desc   bool
}

type Row struct {
	URL         string
	StartupName string
	FounderName string
	Email       string
	Stage       string
	Funding     string
	TeamSize    string
	Mentorship  string
	Created     string
}

type DashboardParams struct {
	Title       string
	Error       string
	AuthEnabled bool

	Status    string
	Query     string
	Text      string
	Stage     string
	Mentoring string
	Stages    []string
	Summary   Summary
	Columns   []Column
	Rows      []Row
	Empty     string
	ExportURL string
	LoadedAt  string
}

func DashboardPage(w io.Writer, p DashboardParams) error {
	return dashboardTemplate.Execute(w, p)
}

type Field struct {
	Label string
	Value string
	Long  bool
}

type Section struct {
	Title  string
	Fields []Field
}

type StartupParams struct {
	Title       string
	Error       string
	AuthEnabled bool

	Found       bool
	StartupName string
	FounderName string
	Stage       string
	Sections    []Section
	DeckName    string
	DeckURL     string
	DeckAdded   string
}

func StartupPage(w io.Writer, p StartupParams) error {
	return startupTemplate.Execute(w, p)
}

type LoginParams struct {
	Title       string
	Error       string
	AuthEnabled bool
}

func LoginPage(w io.Writer, p LoginParams) error {
	return loginTemplate.Execute(w, p)
}

func parse(file string) *template.Template {
	return template.Must(
		template.New("layout.html").ParseFS(files, "pages/layout.html", file))
}
