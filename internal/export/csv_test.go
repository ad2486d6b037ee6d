package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/format"
)

var (
	rupees = format.NewLakhFormatter("₹", "en-IN")
	utc    = format.NewDates(time.UTC)
)

func TestWriteCSV_RoundTrip(t *testing.T) {
	funding := 250000.0
	size := 3
	created := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	apps := []domain.Application{
		{
			StartupName:       `The "Best" Startup`,
			FounderName:       "Asha, Rao",
			Email:             "asha@acme.test",
			Stage:             "MVP",
			FundingAmount:     &funding,
			TeamSize:          &size,
			SeekingMentorship: true,
			Description:       "line one\nline two",
			Competitors:       `"Big Co"`,
			CreatedAt:         &created,
		},
		{Email: "empty@acme.test"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, apps, rupees, utc))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{
		`The "Best" Startup`, "Asha, Rao", "asha@acme.test", "", "MVP",
		"₹2.5 Lakhs", "3", "Yes", "line one\nline two", "", "", `"Big Co"`, "Mar 5, 2024",
	}, records[1])
	assert.Equal(t, []string{
		"", "", "empty@acme.test", "", "", "N/A", "", "No", "", "", "", "", "N/A",
	}, records[2])
}

func TestWriteCSV_QuotesEveryValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []domain.Application{{StartupName: `a"b`}}, rupees, utc))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"a""b","",""`))
}

func TestWriteCSV_NoRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, rupees, utc))
	assert.Equal(t, strings.Join(Header, ","), buf.String())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "startup_data_2024-03-05.csv", Filename(time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC)))
}
