package commands

import (
	"context"
	"io"
	"os"

	"github.com/wolfeidau/projinit/internal/account"
)

type GenerateCmd struct {
	Account AccountCmd `cmd:"" help:"Generate an externally-owned account (EOA)"`
}

type AccountCmd struct {
	Number int    `help:"The number of accounts to be generated." default:"1"`
	Format string `help:"Set to json to output in JSON format." default:"txt" enum:"txt,json"`

	out io.Writer `kong:"-"`
}

func (cmd *AccountCmd) Run(ctx context.Context, globals *Globals) error {
	accounts, err := account.Generate(cmd.Number)
	if err != nil {
		return err
	}

	out := cmd.out
	if out == nil {
		out = os.Stdout
	}

	return account.Write(out, accounts, cmd.Format)
}
