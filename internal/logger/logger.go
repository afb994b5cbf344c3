package logger

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Caller().Stack().Logger()
		return logger
	}

	// Installer hooks run in a terminal, so keep the non-debug output readable too.
	return logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

// WithRun attaches a logger tagged with the pipeline name and a fresh run id
// to ctx. Components retrieve it with zerolog.Ctx.
func WithRun(ctx context.Context, pipeline string) (context.Context, string) {
	runID := uuid.NewString()

	ctx = log.Logger.With().
		Str("pipeline", pipeline).
		Str("run_id", runID).
		Logger().WithContext(ctx)

	return ctx, runID
}
