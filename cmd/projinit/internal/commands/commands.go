package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/projinit/internal/config"
	"github.com/wolfeidau/projinit/internal/logger"
	"github.com/wolfeidau/projinit/internal/telemetry"
)

type Globals struct {
	Debug     bool
	Version   string
	Dir       string
	Telemetry bool
}

// env is what every command needs before it starts working.
type env struct {
	root     string
	settings *config.Config
	shutdown func(context.Context) error
}

func (g *Globals) setup(ctx context.Context) (*env, error) {
	log.Logger = logger.Setup(g.Debug)

	dir := g.Dir
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	settings, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	e := &env{
		root:     root,
		settings: settings,
		shutdown: func(context.Context) error { return nil },
	}

	if g.Telemetry {
		shutdown, err := telemetry.Init(ctx, g.Version)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry")
		} else {
			e.shutdown = shutdown
		}
	}

	return e, nil
}

// close flushes telemetry. It uses a fresh context so a cancelled run still
// delivers what it recorded.
func (e *env) close() {
	if err := e.shutdown(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Failed to flush telemetry")
	}
}
