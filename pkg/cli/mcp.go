package cli

import (
	"context"

	"github.com/m-mizutani/philosophia/pkg/service/mcp"
	"github.com/urfave/cli/v3"
)

func mcpCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the catalog as MCP tools over stdio",
		Flags: allFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			gen, err := cfg.newGeneratorOrOffline(ctx)
			if err != nil {
				return err
			}

			ctrl, err := cfg.newController(ctx, gen)
			if err != nil {
				return err
			}

			return mcp.New(ctrl, version).Run(ctx)
		},
	}
}
