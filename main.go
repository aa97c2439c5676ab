// guessd serves the guessing game, the daily challenge and the swap demo over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/willeagren/edurust/internal/config"
	"github.com/willeagren/edurust/internal/history"
	"github.com/willeagren/edurust/internal/httpserver"
	"github.com/willeagren/edurust/internal/store"
)

func main() {
	cfg := config.Load()
	pflag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	pflag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite history file (empty disables history)")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	pretty := pflag.Bool("pretty", false, "human readable logs")
	pflag.Parse()

	config.SetupLogger(os.Stderr, cfg.LogLevel, *pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var hist *history.Store
	if cfg.DBPath != "" {
		var err error
		hist, err = history.Open(ctx, cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open history")
		}
		defer hist.Close()
	} else {
		log.Warn().Msg("history disabled")
	}

	srv := httpserver.New(store.NewMemoryStore(), hist, cfg)
	log.Info().Str("port", cfg.Port).Msg("starting guessd")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
