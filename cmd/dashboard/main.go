package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/speedwagon-io/sysdash/internal/bootstrap"
	"github.com/speedwagon-io/sysdash/internal/config"
	"github.com/speedwagon-io/sysdash/internal/lib/logger/sl"
	"github.com/speedwagon-io/sysdash/internal/loader"
	"github.com/speedwagon-io/sysdash/internal/server"
	"github.com/speedwagon-io/sysdash/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log := sl.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	log.Info("starting sysdash",
		slog.String("env", cfg.Env),
		slog.String("store_path", cfg.Store.Path),
		slog.Bool("cache", cfg.Cache.Enabled),
	)

	st, err := store.New(log, cfg.Store.Path)
	if err != nil {
		log.Error("failed to open store", sl.Err(err))
		os.Exit(1)
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	boot := bootstrap.EnsureSchema(bootCtx, log, st, cfg.Store.CSVPath)
	bootCancel()

	if !boot.IsZero() {
		log.Info("bootstrap finished with status",
			slog.String("kind", string(boot.Kind)),
			slog.String("message", boot.Message),
		)
	}

	var cache *loader.Cache
	if cfg.Cache.Enabled {
		cache = loader.NewCache(cfg.Cache.TTL)
	}
	ldr := loader.New(log, st, cache)

	srv := server.New(log, cfg, ldr, boot)
	srv.AddChecker(server.NewStoreHealthChecker(st.Ping))
	srv.AddChecker(server.NewRecordsHealthChecker(st.Count))

	if err := srv.Start(); err != nil {
		log.Error("failed to start dashboard server", sl.Err(err))
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info("received signal, shutting down", slog.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop dashboard server", sl.Err(err))
	}

	if err := st.Close(); err != nil {
		log.Error("failed to close store", sl.Err(err))
	}

	log.Info("sysdash stopped")
}
