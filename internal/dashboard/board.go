// Package dashboard holds the record set the dashboard currently shows and
// its load state.
package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/metrics"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// Loader fetches normalized applications, optionally narrowed by search text.
type Loader interface {
	Query(ctx context.Context, text string) ([]domain.Application, error)
}

// Snapshot is a consistent copy of the board. Apps must not be modified.
type Snapshot struct {
	Status   Status
	Query    string
	Apps     []domain.Application
	Err      error
	LoadedAt time.Time
}

// Board is shared by every dashboard request. Loads are neither deduplicated
// nor cancelled; the last one to complete wins.
type Board struct {
	loader Loader
	logger *slog.Logger

	mu       sync.RWMutex
	snap     Snapshot
	onChange []func(Snapshot)
}

func NewBoard(loader Loader, logger *slog.Logger) *Board {
	return &Board{
		loader: loader,
		logger: logger,
		snap:   Snapshot{Status: StatusIdle},
	}
}

// OnChange registers fn to be called after every transition.
func (b *Board) OnChange(fn func(Snapshot)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = append(b.onChange, fn)
}

func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// EnsureLoaded loads every application if nothing has been loaded yet.
func (b *Board) EnsureLoaded(ctx context.Context) Snapshot {
	if b.Snapshot().Status != StatusIdle {
		return b.Snapshot()
	}
	return b.Load(ctx, "")
}

// Load fetches applications for query and replaces the board with the
// result. The load outlives ctx's cancellation so a closed page does not
// abort it.
func (b *Board) Load(ctx context.Context, query string) Snapshot {
	ctx = context.WithoutCancel(ctx)
	query = strings.TrimSpace(query)

	b.transition(func(s *Snapshot) {
		s.Status = StatusLoading
		s.Query = query
	})

	apps, err := b.loader.Query(ctx, query)

	next := b.transition(func(s *Snapshot) {
		s.Query = query
		s.LoadedAt = time.Now().UTC()
		if err != nil {
			s.Status = StatusFailed
			s.Err = err
			s.Apps = nil
			return
		}
		s.Status = StatusLoaded
		s.Err = nil
		s.Apps = apps
	})

	metrics.BoardLoads.WithLabelValues(string(next.Status)).Inc()
	if err != nil {
		b.logger.Error("dashboard load failed", "error", err, "query", query)
	} else {
		metrics.BoardRows.Set(float64(len(apps)))
		b.logger.Info("dashboard loaded", "query", query, "count", len(apps))
	}
	return next
}

func (b *Board) transition(apply func(*Snapshot)) Snapshot {
	b.mu.Lock()
	apply(&b.snap)
	snap := b.snap
	listeners := b.onChange
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}
