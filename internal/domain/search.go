package domain

import "strings"

// SearchField is a field that free-text search matches against, both in the
// stores and in the dashboard's client-side filter.
type SearchField struct {
	// Name is the canonical field name on Application.
	Name string
	// StoreKey is the key used by the submission system's documents.
	StoreKey string
	Value    func(Application) string
}

// SearchFields lists every field free-text search looks at. Nothing else is
// searched.
var SearchFields = []SearchField{
	{Name: "startupName", StoreKey: "startupname", Value: func(a Application) string { return a.StartupName }},
	{Name: "founderName", StoreKey: "fullname", Value: func(a Application) string { return a.FounderName }},
	{Name: "email", StoreKey: "email", Value: func(a Application) string { return a.Email }},
	{Name: "description", StoreKey: "description", Value: func(a Application) string { return a.Description }},
	{Name: "stage", StoreKey: "stage", Value: func(a Application) string { return a.Stage }},
	{Name: "audience", StoreKey: "audience", Value: func(a Application) string { return a.Audience }},
}

// SearchStoreKeys returns the store keys of SearchFields.
func SearchStoreKeys() []string {
	keys := make([]string, 0, len(SearchFields))
	for _, f := range SearchFields {
		keys = append(keys, f.StoreKey)
	}
	return keys
}

// MatchesSearch reports whether any search field of a contains text,
// ignoring case. Empty text matches everything.
func MatchesSearch(a Application, text string) bool {
	if text == "" {
		return true
	}
	needle := strings.ToLower(text)
	for _, f := range SearchFields {
		if strings.Contains(strings.ToLower(f.Value(a)), needle) {
			return true
		}
	}
	return false
}
