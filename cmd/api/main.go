package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpapi "hazmerico/internal/http"
	"hazmerico/internal/http/handlers"
	"hazmerico/internal/infra"
	"hazmerico/internal/ledger"
	"hazmerico/internal/middleware"
	"hazmerico/internal/store"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	var kv store.KV
	switch cfg.StoreDriver {
	case infra.DriverPostgres:
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		pg := store.NewPostgres(dbpool)
		if err := pg.Init(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare ledger table")
		}
		kv = pg
	case infra.DriverSQLite:
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open sqlite store")
		}
		defer db.Close()
		kv = db
	case infra.DriverMemory:
		logger.Warn().Msg("memory store selected; the ledger will not survive a restart")
		kv = store.NewMemory()
	}

	app := handlers.NewApp(ledger.New(kv, cfg.PriceFloor), logger)

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		CORSOrigin:      cfg.CORSOrigin,
		Authorize:       middleware.SharedSecret(cfg.AdminPass),
		ClaimsPerMinute: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("store", cfg.StoreDriver).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
