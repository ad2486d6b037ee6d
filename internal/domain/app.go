package domain

import (
	"context"
	"time"
)

// Document is a raw application as decoded from a store, before normalization.
// Values are plain Go values: strings, numbers, bools, time.Time,
// map[string]any and []any.
type Document map[string]any

// Application is one normalized startup application.
type Application struct {
	ID                string     `json:"id" msgpack:"id"`
	StartupName       string     `json:"startupName,omitempty" msgpack:"startupName,omitempty"`
	FounderName       string     `json:"founderName,omitempty" msgpack:"founderName,omitempty"`
	Email             string     `json:"email" msgpack:"email"`
	Phone             string     `json:"phone,omitempty" msgpack:"phone,omitempty"`
	LinkedIn          string     `json:"linkedin,omitempty" msgpack:"linkedin,omitempty"`
	Stage             string     `json:"stage,omitempty" msgpack:"stage,omitempty"`
	FundingAmount     *float64   `json:"fundingAmount,omitempty" msgpack:"fundingAmount,omitempty"`
	TeamSize          *int       `json:"teamSize,omitempty" msgpack:"teamSize,omitempty"`
	SeekingMentorship bool       `json:"seekingMentorship" msgpack:"seekingMentorship"`
	Description       string     `json:"description,omitempty" msgpack:"description,omitempty"`
	Pitch             string     `json:"pitch,omitempty" msgpack:"pitch,omitempty"`
	Problem           string     `json:"problem,omitempty" msgpack:"problem,omitempty"`
	Inspiration       string     `json:"inspiration,omitempty" msgpack:"inspiration,omitempty"`
	Differentiation   string     `json:"differentiation,omitempty" msgpack:"differentiation,omitempty"`
	Audience          string     `json:"audience,omitempty" msgpack:"audience,omitempty"`
	Competitors       string     `json:"competitors,omitempty" msgpack:"competitors,omitempty"`
	Monetization      string     `json:"monetization,omitempty" msgpack:"monetization,omitempty"`
	TeamSkills        string     `json:"teamSkills,omitempty" msgpack:"teamSkills,omitempty"`
	FundingUse        string     `json:"fundingUse,omitempty" msgpack:"fundingUse,omitempty"`
	WhyFund           string     `json:"whyFund,omitempty" msgpack:"whyFund,omitempty"`
	PreviousGrants    string     `json:"previousGrants,omitempty" msgpack:"previousGrants,omitempty"`
	MeetingTime       *time.Time `json:"meetingTime" msgpack:"meetingTime"`
	PitchDeck         *PitchDeck `json:"pitchDeck,omitempty" msgpack:"pitchDeck,omitempty"`
	CreatedAt         *time.Time `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt" msgpack:"updatedAt"`
}

type PitchDeck struct {
	Name       string     `json:"name,omitempty" msgpack:"name,omitempty"`
	URL        string     `json:"url,omitempty" msgpack:"url,omitempty"`
	UploadedAt *time.Time `json:"uploadedAt" msgpack:"uploadedAt"`
}

// ApplicationRepository reads raw application documents from a store.
// Implementations wrap failures in ErrStoreUnavailable or ErrStoreQuery.
type ApplicationRepository interface {
	// Find returns every document when search is empty, otherwise the documents
	// where any searchable field contains search, ignoring case.
	Find(ctx context.Context, search string) ([]Document, error)
	GetByID(context.Context, string) (Document, error)
}
