package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/wolfeidau/projinit/cmd/projinit/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Preinstall  commands.PreinstallCmd  `cmd:"" help:"Prepare the project before dependencies are installed"`
		Postinstall commands.PostinstallCmd `cmd:"" help:"Finalize the project after dependencies are installed"`
		Submodules  commands.SubmodulesCmd  `cmd:"" help:"Restore missing git submodules"`
		Protect     commands.ProtectCmd     `cmd:"" help:"Apply branch protection to main and dev"`
		Step        commands.StepCmd        `cmd:"" help:"Run a single post-install step"`
		Generate    commands.GenerateCmd    `cmd:"" help:"Generation of an externally-owned account"`
		Debug       bool                    `help:"Enable debug mode."`
		Dir         string                  `help:"Project root directory." default:"." type:"existingdir"`
		Telemetry   bool                    `help:"Export metrics and traces over OTLP." env:"PROJINIT_TELEMETRY"`
		Version     kong.VersionFlag
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := kong.Parse(&cli,
		kong.Name("projinit"),
		kong.Description("Bootstrap a Solidity project template."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:     cli.Debug,
		Version:   version,
		Dir:       cli.Dir,
		Telemetry: cli.Telemetry,
	})
	cmd.FatalIfErrorf(err)
}
