package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List all philosophers in the catalog",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			repo, err := cfg.newCatalog()
			if err != nil {
				return err
			}

			profiles, err := repo.List(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list profiles")
			}

			printGrid(c.Root().Writer, profiles, "")
			return nil
		},
	}
}
