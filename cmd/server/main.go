package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"interviewhub/internal/config"
	"interviewhub/internal/httpserver"
	"interviewhub/internal/observability"
	"interviewhub/internal/security"
	"interviewhub/internal/store"
	"interviewhub/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := observability.NewLogger("error", true)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.Debug)
	log.Info().Str("env", cfg.Env).Str("driver", cfg.DBDriver).Msg("starting " + cfg.AppName)

	db, repos, err := store.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer db.Close()

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	tokenSvc := security.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	hub := ws.NewHub(metrics, log)

	router := httpserver.NewRouter(cfg, repos, hub, tokenSvc, metrics, log)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr()).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
