package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
)

func TestNormalize_StoreFieldNames(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.FixedZone("IST", 19800))
	doc := domain.Document{
		"_id":           "65f1c0ffee",
		"startupname":   "Acme",
		"fullname":      "Asha Rao",
		"email":         "asha@acme.test",
		"phone":         9876543210.0,
		"stage":         "MVP",
		"fundingamount": "250000",
		"teamsize":      4.0,
		"mentorship":    true,
		"audience":      "SMBs",
		"teamskills":    "Go, sales",
		"created_at":    created,
		"updated_at":    map[string]any{"$date": map[string]any{"$numberLong": "1709300000000"}},
		"meettime":      "2024-03-05T09:00:00.000Z",
		"pitch_deck": map[string]any{
			"name":        "deck.pdf",
			"url":         "https://files.test/deck.pdf",
			"uploaded_at": map[string]any{"$date": "2024-03-01T00:00:00Z"},
		},
		"unknown_field": "dropped",
	}

	app := Normalize(doc)

	assert.Equal(t, "65f1c0ffee", app.ID)
	assert.Equal(t, "Acme", app.StartupName)
	assert.Equal(t, "Asha Rao", app.FounderName)
	assert.Equal(t, "9876543210", app.Phone)
	assert.Equal(t, "MVP", app.Stage)
	require.NotNil(t, app.FundingAmount)
	assert.Equal(t, 250000.0, *app.FundingAmount)
	require.NotNil(t, app.TeamSize)
	assert.Equal(t, 4, *app.TeamSize)
	assert.True(t, app.SeekingMentorship)
	assert.Equal(t, "Go, sales", app.TeamSkills)

	require.NotNil(t, app.CreatedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 5, 0, 0, 123000000, time.UTC), *app.CreatedAt)
	require.NotNil(t, app.UpdatedAt)
	assert.Equal(t, time.UnixMilli(1709300000000).UTC(), *app.UpdatedAt)
	require.NotNil(t, app.MeetingTime)
	assert.Equal(t, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), *app.MeetingTime)

	require.NotNil(t, app.PitchDeck)
	assert.Equal(t, "deck.pdf", app.PitchDeck.Name)
	require.NotNil(t, app.PitchDeck.UploadedAt)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *app.PitchDeck.UploadedAt)
}

func TestNormalize_MalformedValuesBecomeAbsent(t *testing.T) {
	doc := domain.Document{
		"_id":           map[string]any{"$oid": "507f1f77bcf86cd799439011"},
		"email":         "x@y.test",
		"fundingamount": "a lot",
		"teamsize":      2.5,
		"mentorship":    "no",
		"created_at":    "not a date",
		"updated_at":    map[string]any{"$date": map[string]any{"$numberLong": "oops"}},
		"meettime":      []any{"2024-01-01"},
		"pitch_deck":    "deck.pdf",
		"stage":         map[string]any{"nested": true},
	}

	app := Normalize(doc)

	assert.Equal(t, "507f1f77bcf86cd799439011", app.ID)
	assert.Nil(t, app.FundingAmount)
	assert.Nil(t, app.TeamSize)
	assert.False(t, app.SeekingMentorship)
	assert.Nil(t, app.CreatedAt)
	assert.Nil(t, app.UpdatedAt)
	assert.Nil(t, app.MeetingTime)
	assert.Nil(t, app.PitchDeck)
	assert.Empty(t, app.Stage)
}

func TestNormalize_EmptyDocument(t *testing.T) {
	assert.NotPanics(t, func() {
		app := Normalize(domain.Document{})
		assert.Equal(t, domain.Application{}, app)
	})
	assert.NotPanics(t, func() { Normalize(nil) })
}

func TestNormalize_Idempotent(t *testing.T) {
	docs := []domain.Document{
		{
			"_id":           "a1",
			"startupname":   "Acme",
			"email":         "a@acme.test",
			"fundingamount": 150000,
			"teamsize":      "3",
			"mentorship":    "yes",
			"created_at":    map[string]any{"$date": map[string]any{"$numberLong": "1700000000123"}},
			"updated_at":    "2024-01-02T03:04:05.678901Z",
			"pitch_deck":    map[string]any{"name": "d.pdf", "uploaded_at": 1700000000000},
		},
		{"_id": "a2", "email": "b@acme.test"},
	}

	for _, doc := range docs {
		once := Normalize(doc)

		encoded, err := json.Marshal(once)
		require.NoError(t, err)
		var decoded domain.Document
		require.NoError(t, json.Unmarshal(encoded, &decoded))

		twice := Normalize(decoded)
		assert.Equal(t, once, twice)
	}
}

func TestInstant(t *testing.T) {
	ms := time.UnixMilli(1700000000000).UTC()
	tests := []struct {
		name string
		in   any
		want *time.Time
	}{
		{"nil", nil, nil},
		{"zero time", time.Time{}, nil},
		{"epoch millis float", 1700000000000.0, &ms},
		{"epoch millis int64", int64(1700000000000), &ms},
		{"epoch millis json number", json.Number("1700000000000"), &ms},
		{"numeric string", "1700000000000", &ms},
		{"legacy numberLong", map[string]any{"$date": map[string]any{"$numberLong": "1700000000000"}}, &ms},
		{"legacy date millis", map[string]any{"$date": int64(1700000000000)}, &ms},
		{"iso string", "2023-11-14T22:13:20Z", &ms},
		{"date only", "2023-11-14", ptr(time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC))},
		{"garbage", "yesterday", nil},
		{"empty map", map[string]any{}, nil},
		{"bool", true, nil},
		{"out of range", 1e20, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Instant(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v want %v", got, tt.want)
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
