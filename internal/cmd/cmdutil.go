package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/bjarke-xyz/startup-dashboard/internal/config"
	"github.com/bjarke-xyz/startup-dashboard/internal/domain"
	"github.com/bjarke-xyz/startup-dashboard/internal/repository"
)

func newLogger(cfg config.Config, service string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	child := logger.With(slog.Group("service_info", slog.String("env", cfg.Env), slog.String("service", service)))
	return child
}

func newDatabasePool(ctx context.Context, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	maxConns := cfg.DatabaseMaxConns
	if maxConns == 0 {
		maxConns = 1
	}
	unformattedConnStr := cfg.DatabaseURL
	err := repository.Migrate("up", unformattedConnStr, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	queryChar := "?"
	if strings.Contains(unformattedConnStr, "?") {
		queryChar = "&"
	}
	url := fmt.Sprintf(
		"%s%vpool_max_conns=%d&pool_min_conns=%d",
		unformattedConnStr,
		queryChar,
		maxConns,
		min(2, maxConns),
	)
	pgConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	// Setting the build statement cache to nil helps this work with pgbouncer
	pgConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pgConfig.MaxConnLifetime = 1 * time.Hour
	pgConfig.MaxConnIdleTime = 30 * time.Second
	return pgxpool.NewWithConfig(ctx, pgConfig)
}

// newMongoClient connects lazily; an unreachable server is logged here and
// reported by each query until it comes back.
func newMongoClient(ctx context.Context, cfg config.Config, logger *slog.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName("startup-dashboard").
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Warn("mongodb not reachable at startup", "error", err)
	}
	return client, nil
}

// newApplicationRepository opens the configured store. The returned close
// function releases its connections.
func newApplicationRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (domain.ApplicationRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := newMongoClient(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		collection := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return repository.NewMongoApp(collection), closeFn, nil
	case config.StorePostgres:
		pool, err := newDatabasePool(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating db pool: %w", err)
		}
		return repository.NewPostgresApp(pool), pool.Close, nil
	case config.StoreMemory:
		var docs []domain.Document
		if cfg.SeedFile != "" {
			var err error
			docs, err = repository.LoadSeedFile(cfg.SeedFile)
			if err != nil {
				return nil, nil, err
			}
		}
		return repository.NewMemoryApp(docs), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
