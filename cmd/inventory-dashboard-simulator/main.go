// Package main boots the Inventory Dashboard Simulator HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/auth"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/config"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/directory"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/engine"
	httpapi "github.com/fairyhunter13/inventory-dashboard-simulator/internal/http"
	"github.com/fairyhunter13/inventory-dashboard-simulator/internal/obs"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	obs.InitLogger()
	defer func() { _ = obs.Logger.Sync() }()
	obs.Logger.Info("service_starting")

	policySeed := cfg.SimSeed
	if policySeed == 0 {
		policySeed = time.Now().UnixNano()
	}
	sim := directory.New(directory.Config{
		Latency: directory.Latency{
			List:   cfg.SimListLatency,
			Get:    cfg.SimGetLatency,
			Mutate: cfg.SimMutateLatency,
		},
		Policy: directory.NewRandomPolicy(cfg.SimFailureRate, policySeed),
		Seed:   cfg.SimSeed,
	})

	notices := engine.NewRing(64)
	eng := engine.New(sim, notices, engine.Config{
		PollInterval:  cfg.PollInterval,
		FlashDuration: cfg.FlashDuration,
		PageLimit:     cfg.PageLimit,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	loadCtx, cancelLoad := context.WithTimeout(ctx, 10*time.Second)
	eng.Load(loadCtx)
	cancelLoad()

	app := httpapi.NewApp(cfg, eng, auth.NewDirectory(), notices)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", zap.Error(err))
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", zap.String("signal", s.String()))

	// Stop the poll loop first; in-flight completions become no-ops once the
	// engine is closed.
	cancel()
	eng.Close()

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", zap.Error(err))
	}
	obs.Logger.Info("service_stopped")
}
