// swap prints a pair of integers before and after swapping it by pointer and by value.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/willeagren/edurust/internal/config"
	"github.com/willeagren/edurust/internal/swap"
)

func main() {
	config.SetupLogger(os.Stderr, config.GetEnv("LOG_LEVEL", "warn"), true)

	if err := swap.Demo(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("write output")
	}
}
