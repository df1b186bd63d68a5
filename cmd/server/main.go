package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docqa/internal/api"
	"github.com/dgallion1/docqa/internal/config"
	"github.com/dgallion1/docqa/internal/oracle"
	"github.com/dgallion1/docqa/internal/qa"
	"github.com/dgallion1/docqa/internal/session"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg := config.Load()
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		defer rotator.Close()
		out = io.MultiWriter(os.Stdout, rotator)
	}
	log := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := oracle.New(cfg)
	if err != nil {
		log.Error("oracle init", "error", err)
		os.Exit(1)
	}
	stats := oracle.NewLatencyStats(cfg.StatsWindow)
	timed := oracle.NewTimed(backend, stats)
	defer oracle.Close(timed)

	svc := qa.NewService(timed, log)
	sessions := session.NewStore(cfg.SessionTTL)
	srv := api.NewServer(svc, sessions, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.OracleTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting docqa", "port", cfg.Port, "backend", svc.Backend())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
