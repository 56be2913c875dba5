package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutordesk/internal/repository"
	"github.com/noah-isme/tutordesk/internal/service"
	"github.com/noah-isme/tutordesk/pkg/cache"
	"github.com/noah-isme/tutordesk/pkg/config"
	"github.com/noah-isme/tutordesk/pkg/database"
	"github.com/noah-isme/tutordesk/pkg/logger"
	"github.com/noah-isme/tutordesk/pkg/storage"
)

const exportRetention = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("tutordesk stopped", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	gateway, closer, err := openGateway(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	store := service.NewStore(ctx, gateway,
		service.WithLogger(logr),
		service.WithMetrics(metrics),
		service.WithLocation(loc),
		service.WithAutosaveDelay(cfg.Persistence.AutosaveDebounce),
	)
	unsubscribe := store.Subscribe(func(c service.Change) {
		logr.Debug("store changed", zap.String("operation", c.Operation), zap.Bool("state_changed", c.StateChanged))
	})
	defer unsubscribe()

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		return fmt.Errorf("prepare exports directory: %w", err)
	}
	exports := service.NewExportService(store, exportStorage, loc, logr)
	if removed, err := exports.PruneOlderThan(exportRetention); err != nil {
		logr.Warn("failed to prune exports", zap.Error(err))
	} else if len(removed) > 0 {
		logr.Info("pruned exports", zap.Int("count", len(removed)))
	}

	snapshot := store.Snapshot()
	logr.Sugar().Infow("tutordesk ready",
		"env", cfg.Env,
		"driver", cfg.Persistence.Driver,
		"timezone", loc.String(),
		"students", len(snapshot.Students),
		"enrollments", len(snapshot.Enrollments),
		"sessions", len(snapshot.Sessions))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	store.Close(shutdownCtx)
	if totals, err := metrics.Totals(); err != nil {
		logr.Warn("failed to gather metrics", zap.Error(err))
	} else {
		fields := make([]zap.Field, 0, len(totals))
		for name, value := range totals {
			fields = append(fields, zap.Float64(name, value))
		}
		logr.Info("store metrics", fields...)
	}
	logr.Info("roster flushed, shutting down")
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openGateway builds the persistence backend selected by PERSISTENCE_DRIVER.
func openGateway(ctx context.Context, cfg *config.Config) (service.StateGateway, io.Closer, error) {
	switch cfg.Persistence.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPostgresStateRepository(db, cfg.Persistence.DocumentKey)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close() //nolint:errcheck
			return nil, nil, err
		}
		return repo, db, nil
	case config.DriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStateRepository(client, cfg.Persistence.DocumentKey), client, nil
	default:
		store, err := storage.NewLocalStorage(cfg.Persistence.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("prepare data directory: %w", err)
		}
		return repository.NewFileStateRepository(store, cfg.Persistence.StateFile), nopCloser{}, nil
	}
}
