package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/clock"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/config"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/database"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/game"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/handler/health"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/migrations"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/prefs"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/quiz"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Preferences ---
	store, checks, closeStore, err := openPrefs(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Sessions ---
	broker := server.NewBroker()
	sessions := server.NewRegistry(logger, broker, func(l *slog.Logger, view game.Presenter, tier quiz.Tier) *game.Session {
		return game.New(game.Config{
			Clock:           clock.System,
			Generator:       quiz.NewGenerator(nil),
			Prefs:           store,
			Presenter:       view,
			Logger:          l,
			Tier:            tier,
			MatchSeconds:    cfg.MatchSeconds,
			QuestionSeconds: cfg.QuestionSeconds,
		})
	}, server.RegistryConfig{
		Limit:   cfg.MaxSessions,
		IdleTTL: cfg.SessionIdleTTL,
	})
	defer sessions.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Sessions:    sessions,
		Broker:      broker,
		Prefs:       store,
		Checks:      checks,
		CORSOrigins: cfg.CORSOrigins,
		SPADir:      cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// openPrefs connects the configured preferences backend and returns its
// health checks and a close function.
func openPrefs(ctx context.Context, cfg *config.Config, logger *slog.Logger) (prefs.Store, map[string]health.Checker, func(), error) {
	switch cfg.PrefsBackend {
	case prefs.BackendRedis:
		rdb, err := prefs.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Info("connected to redis", "prefix", cfg.RedisKeyPrefix)
		s := prefs.NewRedisStore(rdb, cfg.RedisKeyPrefix)
		return s, map[string]health.Checker{"redis": s}, func() { rdb.Close() }, nil

	case prefs.BackendMemory:
		logger.Warn("high score is kept in memory and lost on restart")
		return prefs.NewMemoryStore(), nil, func() {}, nil

	default:
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath)
		s := prefs.NewSQLiteStore(db)
		return s, map[string]health.Checker{"sqlite": s}, func() { db.Close() }, nil
	}
}
