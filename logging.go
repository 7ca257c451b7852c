package tagstudio

import (
	"os"

	"github.com/rs/zerolog"
)

// logger is the package-level structured logger used by migration,
// seeding, and backup operations. It mirrors the original's
// `structlog.get_logger(__name__)` module-level logger idiom: callers
// that want quieter or differently formatted output call SetLogger
// once at startup rather than threading a logger through every call.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// SetLogger replaces the package-level logger, e.g. to route output
// through an application's existing zerolog instance.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// SetLogLevel adjusts the minimum severity the package-level logger
// emits.
func SetLogLevel(level zerolog.Level) {
	logger = logger.Level(level)
}
