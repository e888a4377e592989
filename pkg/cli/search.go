package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	var (
		cfg  config
		name string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Name of the philosopher to find or summon",
			Destination: &name,
			Required:    true,
		},
	}
	flags = append(flags, allFlags(&cfg)...)

	return &cli.Command{
		Name:  "search",
		Usage: "Find a philosopher by name, generating a profile if none matches, and print it as JSON",
		Flags: flags,
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

			profile, err := ctrl.FindOrCreate(ctx, name)
			if err != nil {
				return err
			}
			if profile == nil {
				return goerr.Wrap(model.ErrValidation, "name is required")
			}

			enc := json.NewEncoder(c.Root().Writer)
			enc.SetIndent("", "  ")
			if err := enc.Encode(profile); err != nil {
				return goerr.Wrap(err, "failed to encode profile")
			}
			return nil
		},
	}
}
