package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/itsoneword/kcs-dashboard-sub000/internal/config"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/server"
	"github.com/itsoneword/kcs-dashboard-sub000/internal/util"
)

var (
	port    = flag.Int("port", 0, "server port (overrides config.toml)")
	devMode = flag.Bool("dev", false, "development mode")
	dataDir = flag.String("dataDir", "", "data directory (overrides config.toml)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "kcsdash").Logger()

	resolvedDataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create data directory")
	}
	logger.Info().Str("data_dir", resolvedDataDir).Msg("data directory ready")

	srv, err := server.New(cfg, resolvedDataDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize server")
	}
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("server started")
		if err := srv.Run(addr); err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	if !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			logger.Info().Str("url", url).Msg("open the dashboard manually")
		}
	} else {
		logger.Info().Str("url", url).Msg("development mode")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
}
