// Command pagemdd serves conversions over HTTP.
//
//	pagemdd -addr :8080 -root /var/lib/pagemd
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tsawler/pagemd"
	"github.com/tsawler/pagemd/server"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := server.DefaultConfig()

	var (
		addr       string
		configPath string
		maxMB      int64
		verbose    bool
	)
	flag.StringVar(&addr, "addr", ":8080", "Listen address")
	flag.StringVar(&cfg.Root, "root", cfg.Root, "Directory for conversion assets")
	flag.StringVar(&configPath, "config", "", "Path to a YAML or JSON conversion config")
	flag.Int64Var(&maxMB, "max.mb", cfg.MaxBodyBytes>>20, "Maximum upload size in MiB")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if configPath != "" {
		fc, err := pagemd.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
		}
		if err := fc.Apply(&cfg.Convert); err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("invalid config")
		}
	}
	cfg.MaxBodyBytes = maxMB << 20
	cfg.Logger = log.Logger

	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		log.Fatal().Err(err).Str("root", cfg.Root).Msg("failed to create root")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(cfg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", addr).Str("root", cfg.Root).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("stopped")
}
