package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FedyaB/restapi-server-spbstu/internal/config"
	"github.com/FedyaB/restapi-server-spbstu/internal/infra"
	"github.com/FedyaB/restapi-server-spbstu/internal/repository"
	"github.com/FedyaB/restapi-server-spbstu/internal/router"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger. dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Production() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	repo, closeStore, err := repository.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open employee store")
	}
	releaseStore := func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("failed to close employee store")
		}
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		releaseStore()
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer releaseStore()
	if rdb != nil {
		defer rdb.Close()
	}

	r := router.New(cfg, repo, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("driver", cfg.StoreDriver).Msgf("employee service listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
		return
	}

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		return
	}
	log.Info().Msg("server exited")
}
