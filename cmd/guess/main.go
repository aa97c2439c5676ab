// guess plays the number guessing game on stdin/stdout.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/willeagren/edurust/internal/config"
	"github.com/willeagren/edurust/internal/console"
	"github.com/willeagren/edurust/internal/daily"
	"github.com/willeagren/edurust/internal/game"
	"github.com/willeagren/edurust/internal/history"
)

func main() {
	_ = config.Load()
	level := pflag.String("log-level", config.GetEnv("LOG_LEVEL", "warn"), "log level for stderr")
	historyPath := pflag.String("history", "", "sqlite file to record the result in (empty disables)")
	player := pflag.String("player", "guest", "name recorded with the result")
	pflag.Parse()

	config.SetupLogger(os.Stderr, *level, true)

	g := game.New(0)
	log.Debug().Str("gameId", g.ID).Str("commitment", g.Commitment()).Msg("secret drawn")

	if err := console.Play(os.Stdin, os.Stdout, g); err != nil {
		log.Fatal().Err(err).Msg("guess loop aborted")
	}

	if *historyPath != "" {
		if err := record(*historyPath, *player, g); err != nil {
			log.Warn().Err(err).Str("history", *historyPath).Msg("record result")
		}
	}
}

func record(path, player string, g *game.Game) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	h, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	defer h.Close()

	return h.Record(ctx, history.Result{
		GameID:     g.ID,
		Player:     player,
		Mode:       history.ModeFree,
		Date:       daily.DateKey(g.StartedAt),
		Secret:     g.Secret,
		Commitment: g.Commitment(),
		Attempts:   g.Attempts,
		Invalid:    g.Invalid,
		ElapsedMs:  time.Since(g.StartedAt).Milliseconds(),
	})
}
