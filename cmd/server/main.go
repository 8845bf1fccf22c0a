package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pchu/codenames-backend/internal/hub"
	"github.com/pchu/codenames-backend/internal/httpapi"
	"github.com/pchu/codenames-backend/internal/session"
	"github.com/pchu/codenames-backend/internal/wordpack"
)

func main() {
	_ = godotenv.Load()

	log, err := buildLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func buildLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := envOr("ADDR", ":8080")
	packDir := envOr("WORDPACK_DIR", "data/wordpacks")

	store, err := openStore(log, packDir)
	if err != nil {
		return err
	}
	reg, err := wordpack.NewRegistry(store, nil)
	if err != nil {
		return err
	}
	for _, p := range reg.List() {
		log.Info("loaded word pack", zap.String("pack", p.Name),
			zap.Int("words", p.Words), zap.Bool("enabled", p.Enabled))
	}

	defaults := session.NewDefaults(envFloatOr("TEAM_TIMER_MIN", 2))
	h := hub.NewHub(ctx, session.Deps{
		Log:      log,
		Registry: reg,
		Defaults: defaults,
		Config:   session.Config{LobbyWindowSec: envIntOr("LOBBY_WINDOW_SEC", 15)},
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.SetupRoutes(h, log),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore picks Postgres when DATABASE_URL is set, seeding an empty table
// from the pack directory on first boot; otherwise packs load straight from
// the directory.
func openStore(log *zap.Logger, packDir string) (wordpack.Store, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return wordpack.NewDirStore(packDir), nil
	}

	gs, err := wordpack.OpenGormStore(dsn)
	if err != nil {
		return nil, err
	}
	empty, err := gs.Empty()
	if err != nil {
		return nil, err
	}
	if empty {
		log.Info("seeding word packs from directory", zap.String("dir", packDir))
		packs, err := wordpack.NewDirStore(packDir).LoadPacks()
		if err != nil {
			return nil, err
		}
		for _, p := range packs {
			if err := gs.SavePack(p); err != nil {
				return nil, err
			}
		}
	}
	return gs, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
