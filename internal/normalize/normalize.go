// Package normalize turns raw application documents, as stored by the
// submission system, into domain.Application values.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
)

// JavaScript Date range, in milliseconds either side of the epoch.
const maxEpochMillis = 8.64e15

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Normalize converts a raw document into an Application. It never fails:
// values it cannot interpret are left absent. Both the submission system's
// field names and the canonical Application names are accepted, so
// normalizing an already normalized record is a no-op.
func Normalize(doc domain.Document) domain.Application {
	return domain.Application{
		ID:                identifier(first(doc, "_id", "id")),
		StartupName:       text(first(doc, "startupname", "startupName")),
		FounderName:       text(first(doc, "fullname", "founderName")),
		Email:             text(first(doc, "email")),
		Phone:             text(first(doc, "phone")),
		LinkedIn:          text(first(doc, "linkedin", "linkedIn")),
		Stage:             text(first(doc, "stage")),
		FundingAmount:     amount(first(doc, "fundingamount", "fundingAmount")),
		TeamSize:          count(first(doc, "teamsize", "teamSize")),
		SeekingMentorship: truthy(first(doc, "mentorship", "seekingMentorship")),
		Description:       text(first(doc, "description")),
		Pitch:             text(first(doc, "pitch")),
		Problem:           text(first(doc, "problem")),
		Inspiration:       text(first(doc, "inspiration")),
		Differentiation:   text(first(doc, "differentiation")),
		Audience:          text(first(doc, "audience")),
		Competitors:       text(first(doc, "competitors")),
		Monetization:      text(first(doc, "monetization")),
		TeamSkills:        text(first(doc, "teamskills", "teamSkills")),
		FundingUse:        text(first(doc, "fundinguse", "fundingUse")),
		WhyFund:           text(first(doc, "whyfund", "whyFund")),
		PreviousGrants:    text(first(doc, "previousgrants", "previousGrants")),
		MeetingTime:       Instant(first(doc, "meettime", "meetingTime")),
		PitchDeck:         pitchDeck(first(doc, "pitch_deck", "pitchDeck")),
		CreatedAt:         Instant(first(doc, "created_at", "createdAt")),
		UpdatedAt:         Instant(first(doc, "updated_at", "updatedAt")),
	}
}

// All normalizes every document, keeping their order.
func All(docs []domain.Document) []domain.Application {
	apps := make([]domain.Application, 0, len(docs))
	for _, doc := range docs {
		apps = append(apps, Normalize(doc))
	}
	return apps
}

// Instant converts a stored date into a UTC instant with millisecond
// precision. It understands time values, ISO-8601 strings, epoch
// milliseconds and the legacy {"$date": {"$numberLong": "..."}} wrapper.
// Anything else yields nil.
func Instant(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return utcMillis(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return Instant(*t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return utcMillis(parsed)
			}
		}
		if ms, ok := number(s); ok {
			return fromMillis(ms)
		}
		return nil
	}
	if m, ok := asMap(v); ok {
		if wrapped, ok := m["$date"]; ok {
			return Instant(wrapped)
		}
		if _, ok := m["$numberLong"]; ok {
			if ms, ok := number(m); ok {
				return fromMillis(ms)
			}
		}
		return nil
	}
	if ms, ok := number(v); ok {
		return fromMillis(ms)
	}
	return nil
}

func utcMillis(t time.Time) *time.Time {
	u := t.UTC().Truncate(time.Millisecond)
	return &u
}

func fromMillis(ms float64) *time.Time {
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return nil
	}
	t := time.UnixMilli(int64(ms)).UTC()
	return &t
}

func first(doc domain.Document, keys ...string) any {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case domain.Document:
		return m, true
	}
	return nil, false
}

func identifier(v any) string {
	if m, ok := asMap(v); ok {
		return text(m["$oid"])
	}
	return text(v)
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool, nil:
		return ""
	}
	if n, ok := number(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// number reads numeric values, numeric strings and extended JSON number
// wrappers such as {"$numberLong": "42"}.
func number(v any) (float64, bool) {
	var n float64
	switch x := v.(type) {
	case float64:
		n = x
	case float32:
		n = float64(x)
	case int:
		n = float64(x)
	case int8:
		n = float64(x)
	case int16:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint:
		n = float64(x)
	case uint8:
		n = float64(x)
	case uint16:
		n = float64(x)
	case uint32:
		n = float64(x)
	case uint64:
		n = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		m, ok := asMap(v)
		if !ok {
			return 0, false
		}
		for _, key := range []string{"$numberLong", "$numberInt", "$numberDouble", "$numberDecimal"} {
			if inner, ok := m[key]; ok {
				return number(inner)
			}
		}
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func amount(v any) *float64 {
	n, ok := number(v)
	if !ok {
		return nil
	}
	return &n
}

func count(v any) *int {
	n, ok := number(v)
	if !ok || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return nil
	}
	i := int(n)
	return &i
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "1":
			return true
		}
		return false
	}
	if n, ok := number(v); ok {
		return n != 0
	}
	return false
}

func pitchDeck(v any) *domain.PitchDeck {
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	return &domain.PitchDeck{
		Name:       text(m["name"]),
		URL:        text(m["url"]),
		UploadedAt: Instant(first(m, "uploaded_at", "uploadedAt")),
	}
}
