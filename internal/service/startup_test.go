package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type failingRepo struct {
	err error
}

func (f failingRepo) Find(context.Context, string) ([]domain.Document, error) {
	return nil, f.err
}

func (f failingRepo) GetByID(context.Context, string) (domain.Document, error) {
	return nil, f.err
}

// arrayRepo ignores the search text, like a store whose regex also matched
// values the normalizer drops.
type arrayRepo struct {
	docs []domain.Document
}

func (a arrayRepo) Find(context.Context, string) ([]domain.Document, error) {
	return a.docs, nil
}

func (a arrayRepo) GetByID(context.Context, string) (domain.Document, error) {
	return nil, domain.ErrNotFound
}

func sampleDocs() []domain.Document {
	return []domain.Document{
		{"_id": "1", "startupname": "Solar Grid", "fullname": "Maya", "email": "maya@solar.in", "stage": "Idea", "fundingamount": 50000},
		{"_id": "2", "startupname": "AgriBot", "fullname": "Ravi", "email": "ravi@agri.bot", "stage": "MVP", "fundingamount": "150000", "mentorship": "yes"},
		{"_id": "3", "startupname": "Ledger", "fullname": "Sam", "email": "sam@ledger.co", "description": "Solar-powered accounting", "stage": "Growth"},
		{"_id": "4", "startupname": "Quiet", "fullname": "Ana", "email": "ana@quiet.app", "phone": "solar-line"},
	}
}

func TestQueryBlankReturnsAllNormalized(t *testing.T) {
	svc := NewStartupService(repository.NewMemoryApp(sampleDocs()), testLogger(), "memory")
	for _, text := range []string{"", "   "} {
		apps, err := svc.Query(context.Background(), text)
		require.NoError(t, err)
		require.Len(t, apps, 4)
	}
	apps, _ := svc.Query(context.Background(), "")
	byID := map[string]domain.Application{}
	for _, a := range apps {
		byID[a.ID] = a
	}
	require.NotNil(t, byID["2"].FundingAmount)
	assert.Equal(t, 150000.0, *byID["2"].FundingAmount)
	assert.True(t, byID["2"].SeekingMentorship)
}

func TestQuerySearchProperty(t *testing.T) {
	docs := sampleDocs()
	svc := NewStartupService(repository.NewMemoryApp(docs), testLogger(), "memory")

	for _, text := range []string{"solar", "SOLAR", "mvp", "ravi@", "nothing-matches"} {
		apps, err := svc.Query(context.Background(), text)
		require.NoError(t, err)

		got := map[string]bool{}
		for _, a := range apps {
			got[a.ID] = true
			assert.True(t, domain.MatchesSearch(a, text), "result %v should contain %q", a.ID, text)
		}

		all, err := svc.Query(context.Background(), "")
		require.NoError(t, err)
		for _, a := range all {
			if !got[a.ID] {
				assert.False(t, domain.MatchesSearch(a, text), "non-result %v should not contain %q", a.ID, text)
			}
		}
	}

	apps, err := svc.Query(context.Background(), "solar")
	require.NoError(t, err)
	ids := []string{}
	for _, a := range apps {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{"1", "3"}, ids)
}

func TestQueryDropsStoreMatchesOutsideSearchFields(t *testing.T) {
	repo := arrayRepo{docs: []domain.Document{
		{"_id": "1", "startupname": "Tagged", "stage": []any{"seed"}},
		{"_id": "2", "startupname": "Seedling"},
	}}
	svc := NewStartupService(repo, testLogger(), "test")
	apps, err := svc.Query(context.Background(), "seed")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "2", apps[0].ID)
}

func TestQueryPassesStoreErrorsThrough(t *testing.T) {
	unavailable := fmt.Errorf("%w: dial tcp: refused", domain.ErrStoreUnavailable)
	svc := NewStartupService(failingRepo{err: unavailable}, testLogger(), "test")
	_, err := svc.Query(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.True(t, strings.Contains(err.Error(), "refused"))

	svc = NewStartupService(failingRepo{err: fmt.Errorf("%w: bad filter", domain.ErrStoreQuery)}, testLogger(), "test")
	_, err = svc.Query(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrStoreQuery)
	assert.False(t, errors.Is(err, domain.ErrStoreUnavailable))
}

func TestGet(t *testing.T) {
	svc := NewStartupService(repository.NewMemoryApp(sampleDocs()), testLogger(), "memory")

	app, err := svc.Get(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Ledger", app.StartupName)
	assert.Equal(t, "Sam", app.FounderName)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
