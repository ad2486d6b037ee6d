package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/metrics"
	"github.com/bjarke-xyz/startup-dashboard/internal/normalize"
)

// StartupService is the read path from the application store to normalized
// records.
type StartupService struct {
	repo   domain.ApplicationRepository
	logger *slog.Logger
	driver string
}

func NewStartupService(repo domain.ApplicationRepository, logger *slog.Logger, driver string) *StartupService {
	return &StartupService{
		repo:   repo,
		logger: logger.With(slog.String("store", driver)),
		driver: driver,
	}
}

// Query returns every application when text is blank, otherwise the
// applications where a search field contains text, ignoring case.
func (s *StartupService) Query(ctx context.Context, text string) ([]domain.Application, error) {
	text = strings.TrimSpace(text)
	start := time.Now()
	docs, err := s.repo.Find(ctx, text)
	s.observe("find", start, err)
	if err != nil {
		s.logger.Error("failed to query applications", "error", err, "search", text)
		return nil, err
	}
	apps := normalize.All(docs)
	if text != "" {
		// Stores may match representations the normalizer discards.
		apps = lo.Filter(apps, func(a domain.Application, _ int) bool {
			return domain.MatchesSearch(a, text)
		})
	}
	s.logger.Debug("queried applications", "search", text, "count", len(apps), "documents", len(docs))
	return apps, nil
}

// Get returns the application with the given id.
func (s *StartupService) Get(ctx context.Context, id string) (domain.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Application{}, domain.ErrNotFound
	}
	start := time.Now()
	doc, err := s.repo.GetByID(ctx, id)
	s.observe("get", start, err)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to get application", "error", err, "id", id)
		}
		return domain.Application{}, fmt.Errorf("get application %v: %w", id, err)
	}
	return normalize.Normalize(doc), nil
}

func (s *StartupService) observe(operation string, start time.Time, err error) {
	metrics.StoreQueries.WithLabelValues(s.driver, operation, metrics.Outcome(err)).Inc()
	metrics.StoreQueryDuration.WithLabelValues(s.driver, operation).Observe(time.Since(start).Seconds())
}
