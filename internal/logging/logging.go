// Package logging configures the process-wide zerolog logger from the
// FHIMG_LOG_LEVEL environment variable (spec.md §6's "a logging level
// variable honoured by the logging front-end, not otherwise load-bearing").
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// envVar is the environment variable §6 names.
const envVar = "FHIMG_LOG_LEVEL"

// Init sets the global zerolog level from FHIMG_LOG_LEVEL (defaulting to
// info on an unset or unparsable value) and switches to a human-readable
// console writer when stderr is a TTY, JSON lines otherwise.
func Init() {
	level := zerolog.InfoLevel
	if raw := os.Getenv(envVar); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
