package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chosenoffset.com/sightline/internal/config"
	"chosenoffset.com/sightline/internal/logging"
	"chosenoffset.com/sightline/internal/server"
	"chosenoffset.com/sightline/internal/world/scene"
)

func main() {
	configPath := flag.String("config", "", "configuration file (JSON or YAML)")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	scenesDir := flag.String("scenes", "", "scene directory (overrides server.scenes_dir)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *scenesDir != "" {
		cfg.Server.ScenesDir = *scenesDir
	}

	logger, err := logging.Setup(os.Stderr, cfg.Log)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	scenes := map[string]*scene.Scene{}
	if cfg.Server.ScenesDir != "" {
		scenes, err = scene.LoadDir(cfg.Server.ScenesDir)
		if err != nil {
			log.Fatalf("Failed to load scenes: %v", err)
		}
	}
	logger.Info("scenes loaded", "dir", cfg.Server.ScenesDir, "names", scene.Names(scenes))

	srv := server.New(cfg.Server, scenes, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start()
	}()

	select {
	case err := <-errs:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Shutdown failed: %v", err)
	}
}
