package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mkifle/portfolio-backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
