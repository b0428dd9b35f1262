package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lumiere-app/stylist-server/config"
	"github.com/lumiere-app/stylist-server/internal/imagefetch"
	"github.com/lumiere-app/stylist-server/internal/llm"
	"github.com/lumiere-app/stylist-server/internal/server"
	"github.com/lumiere-app/stylist-server/internal/storage"
	"github.com/lumiere-app/stylist-server/internal/stylist"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Try to load existing .env file
	config.LoadEnvFile()

	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Fatal().Msg("GEMINI_API_KEY environment variable is required")
	}

	// Database path (optional, defaults to wardrobe.db)
	dbPath := os.Getenv("STYLIST_DB_PATH")
	if dbPath == "" {
		dbPath = "wardrobe.db"
	}

	addr := os.Getenv("STYLIST_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	// Directory with the built frontend. Served only if it exists.
	staticDir := os.Getenv("STYLIST_STATIC_DIR")
	if staticDir == "" {
		staticDir = "dist"
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("dbPath", dbPath).Msg("failed to open store")
	}
	defer store.Close()
	log.Info().Str("dbPath", dbPath).Msg("store initialized")

	// Create context that cancels on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gateway, err := llm.NewGeminiStylist(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize gemini stylist")
	}
	log.Info().Msg("gemini stylist initialized")

	pipeline := stylist.NewPipeline(gateway)
	srv := server.New(store, pipeline, imagefetch.New(), staticDir)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Router(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down http server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}
