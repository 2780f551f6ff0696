// Command nk-server starts the notekeeper HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/and161185/notekeeper/internal/config"
	"github.com/and161185/notekeeper/internal/limiter"
	"github.com/and161185/notekeeper/internal/migrate"
	"github.com/and161185/notekeeper/internal/repository"
	"github.com/and161185/notekeeper/internal/repository/memory"
	"github.com/and161185/notekeeper/internal/repository/postgres"
	"github.com/and161185/notekeeper/internal/server/httpapi"
	"github.com/and161185/notekeeper/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func newLogger(c config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if c.Level != "" {
		lvl, err := zap.ParseAtomicLevel(c.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = lvl
	}
	return zc.Build()
}

type storage struct {
	users  repository.UserRepository
	notes  repository.NoteRepository
	tags   repository.TagRepository
	health httpapi.Pinger
	lim    limiter.Limiter
	close  func()
}

// openStorage runs migrations and connects to PostgreSQL, or builds the in-memory store.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	if cfg.Database.UseInMemory {
		logger.Warn("using in-memory storage, data is lost on exit")
		st := memory.New()
		return &storage{
			users:  st.Users(),
			notes:  st.Notes(),
			tags:   st.Tags(),
			health: st,
			lim:    limiter.Nop{},
			close:  func() {},
		}, nil
	}

	if cfg.Database.Migrate {
		if err := migrate.Up(ctx, cfg.Database.DSN); err != nil {
			return nil, err
		}
		if v, err := migrate.Version(ctx, cfg.Database.DSN); err == nil {
			logger.Info("schema migrated", zap.Int64("version", v))
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}

	var lim limiter.Limiter = limiter.Nop{}
	if cfg.Limiter.Enabled {
		lim = limiter.NewPG(db.Pool, limiter.Config{
			Window:   cfg.Limiter.Window,
			MaxFails: cfg.Limiter.MaxFails,
			BlockFor: cfg.Limiter.BlockFor,
		})
	}

	return &storage{
		users:  postgres.NewUserRepo(db),
		notes:  postgres.NewNoteRepo(db),
		tags:   postgres.NewTagRepo(db),
		health: db,
		lim:    lim,
		close:  db.Close,
	}, nil
}

// main loads configuration, prepares storage and serves the HTTP API until signalled.
func main() {
	cfgPath := flag.String("config", "", "path to config file (yaml/json/toml)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		// no logger yet
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.HTTP.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("storage", zap.Error(err))
	}
	defer st.close()

	creds, err := service.NewCredentials(st.users, service.TokenConfig{
		SignKey:   []byte(cfg.Auth.JWTKey),
		Algorithm: cfg.Auth.Algorithm,
		AccessTTL: cfg.Auth.AccessTTL,
		Leeway:    cfg.Auth.Leeway,
	})
	if err != nil {
		logger.Fatal("credentials", zap.Error(err))
	}

	// Services
	authSvc := service.NewAuthService(st.users, creds, st.lim)
	noteSvc := service.NewNoteService(st.notes)
	tagSvc := service.NewTagService(st.tags)

	api := httpapi.New(authSvc, noteSvc, tagSvc, st.health, httpapi.Routes{
		AuthPrefix:  cfg.Routes.AuthPrefix,
		NotesPrefix: cfg.Routes.NotesPrefix,
		TagsPrefix:  cfg.Routes.TagsPrefix,
	}, logger)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		ErrorLog:     zap.NewStdLog(logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown", zap.Error(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			st.close()
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
