package commands

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/projinit/internal/protection"
)

// ProtectCmd applies branch protection without asking.
type ProtectCmd struct{}

func (cmd *ProtectCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	c := protection.NewConfigurator(e.root, e.settings.GitHub.Token, e.settings.GitHub.APIURL)
	return c.Apply(log.Logger.WithContext(ctx))
}
