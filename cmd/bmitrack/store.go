package main

import (
	"context"
	"fmt"
	"log/slog"

	"bmitrack/internal/adapter/memory"
	"bmitrack/internal/adapter/postgres"
	"bmitrack/internal/adapter/redis"
	"bmitrack/internal/adapter/sqlite"
	"bmitrack/internal/app"
	"bmitrack/internal/config"
	"bmitrack/internal/domain"
	"bmitrack/internal/metrics"
)

// backend is an opened storage driver.
type backend struct {
	kv       domain.KeyValueStore
	users    domain.UserRepository
	sessions domain.SessionRepository
	close    func() error
}

func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		db := memory.New()
		return &backend{kv: db, users: db, sessions: memory.NewSessionRepo(db), close: func() error { return nil }}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &backend{kv: db, users: db, sessions: sqlite.NewSessionRepo(db), close: db.Close}, nil

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &backend{kv: db, users: db, sessions: postgres.NewSessionRepo(db), close: db.Close}, nil

	case config.DriverRedis:
		s, err := redis.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			return nil, err
		}
		return &backend{kv: s, users: s, sessions: redis.NewSessionRepo(s), close: s.Close}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// services wires the application services on top of b.
type services struct {
	settings *app.SettingsService
	history  *app.HistoryService
	bmi      *app.BMIService
	charts   *app.ChartsService
	auth     *app.AuthService
}

func newServices(b *backend, log *slog.Logger, m *metrics.Metrics) services {
	kv := m.InstrumentStore(b.kv)
	settings := app.NewSettingsService(kv, log)
	history := app.NewHistoryService(kv, log)
	return services{
		settings: settings,
		history:  history,
		bmi:      app.NewBMIService(settings),
		charts:   app.NewChartsService(history, settings),
		auth:     app.NewAuthService(b.users, b.sessions, log),
	}
}
