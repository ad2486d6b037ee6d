// Package export writes the dashboard's current rows as CSV.
package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/format"
)

var Header = []string{
	"Startup Name", "Founder Name", "Email", "Phone", "Stage",
	"Funding Amount", "Team Size", "Mentorship", "Description",
	"Problem", "Audience", "Competitors", "Created Date",
}

// Filename is the download name for an export made at t.
func Filename(t time.Time) string {
	return "startup_data_" + t.UTC().Format(time.DateOnly) + ".csv"
}

// Row returns the export columns for one application, in Header order.
func Row(a domain.Application, funding format.FundingFormatter, dates format.Dates) []string {
	teamSize := ""
	if a.TeamSize != nil && *a.TeamSize != 0 {
		teamSize = strconv.Itoa(*a.TeamSize)
	}
	mentorship := "No"
	if a.SeekingMentorship {
		mentorship = "Yes"
	}
	return []string{
		a.StartupName,
		a.FounderName,
		a.Email,
		a.Phone,
		a.Stage,
		funding.Format(a.FundingAmount),
		teamSize,
		mentorship,
		a.Description,
		a.Problem,
		a.Audience,
		a.Competitors,
		dates.Date(a.CreatedAt),
	}
}

// WriteCSV writes the header and one row per application. The header is
// written bare; every value is quoted with embedded quotes doubled.
func WriteCSV(w io.Writer, apps []domain.Application, funding format.FundingFormatter, dates format.Dates) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Header, ",")); err != nil {
		return err
	}
	for _, a := range apps {
		bw.WriteByte('\n')
		for i, value := range Row(a, funding, dates) {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quote(value))
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
