package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"example.com/digitduel/internal/config"
	"example.com/digitduel/internal/game"
	"example.com/digitduel/internal/httpapi"
	"example.com/digitduel/internal/migrate"
	"example.com/digitduel/internal/random"
	"example.com/digitduel/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db  *pgxpool.Pool // nil when DATABASE_URL is empty
	rdb *redis.Client // nil when REDIS_ADDR is empty

	coord    *game.Coordinator
	recorder *game.Recorder
	srv      *http.Server
}

// NewLogger builds the process logger from config.
func NewLogger(cfg config.Config, w io.Writer) *slog.Logger {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	a := &App{cfg: cfg, log: log}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// --- Postgres (optional) ---
	if cfg.Postgres.URL != "" {
		if cfg.Postgres.RunMigrations {
			if err := migrate.Up(cfg.Postgres.URL, log); err != nil {
				return nil, err
			}
		}
		dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		if err := dbpool.Ping(pingCtx); err != nil {
			dbpool.Close()
			return nil, fmt.Errorf("postgres ping: %w", err)
		}
		a.db = dbpool
	} else {
		log.Info("DATABASE_URL not set, results store disabled")
	}

	// --- Redis (optional) ---
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			_ = a.Close(ctx)
			return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
		}
		a.rdb = rdb
	} else {
		log.Info("REDIS_ADDR not set, result archive disabled")
	}

	a.srv = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           a.buildHandler(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
	return a, nil
}

// buildHandler wires the game core to whatever storage is configured.
func (a *App) buildHandler() http.Handler {
	deps := game.Deps{Logger: a.log}

	var sinks []game.ResultSink
	if a.rdb != nil {
		archive := game.NewRedisArchive(a.rdb, a.cfg.Redis.ArchiveTTL)
		sinks = append(sinks, archive)
		deps.Archive = archive
	}
	if a.db != nil {
		results := store.NewResultsStore(a.db)
		sinks = append(sinks, results)
		deps.Stats = results
	}
	a.recorder = game.NewRecorder(a.cfg.Results.Buffer, a.log, sinks...)

	a.coord = game.NewCoordinator(game.CoordinatorOptions{
		Random:   random.New(),
		Logger:   a.log,
		Recorder: a.recorder,
	})
	deps.Coordinator = a.coord

	gameSrv := game.NewServer(game.Config{
		SendBuffer:     a.cfg.WS.SendBuffer,
		PingInterval:   a.cfg.WS.PingInterval,
		ReadLimit:      a.cfg.WS.ReadLimit,
		AllowedOrigins: a.cfg.WS.AllowedOrigins,
	}, deps)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	gameSrv.RegisterRoutes(mux)

	return httpapi.Recovery(a.log)(httpapi.RequestLog(a.log)(mux))
}

// Handler exposes the routed handler for tests.
func (a *App) Handler() http.Handler { return a.srv.Handler }

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return a.recorder.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		// rooms first, so members get room-destroyed before their sockets close
		a.coord.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	_ = a.Close(context.Background())
	return err
}

func (a *App) Close(ctx context.Context) error {
	// best-effort
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	return nil
}
