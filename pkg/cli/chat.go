package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/usecase/catalog"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var (
		cfg  config
		name string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Aliases:     []string{"n"},
			Usage:       "Name of the philosopher to chat with",
			Destination: &name,
			Required:    true,
		},
	}
	flags = append(flags, allFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with a philosopher, generating a profile if none matches",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)
			w := c.Root().Writer

			gen, err := cfg.newGenerator(ctx)
			if err != nil {
				return err
			}

			printer := &turnPrinter{w: w}
			ctrl, err := cfg.newController(ctx, gen, catalog.WithChatListener(func(turn model.ChatTurn) {
				printer.print(turn.Content)
			}))
			if err != nil {
				return err
			}

			profile, err := ctrl.Search(ctx, name)
			if err != nil {
				return err
			}
			if profile == nil {
				return goerr.Wrap(model.ErrValidation, "name is required")
			}

			fmt.Fprintf(w, "Chatting with %s. Type 'exit' to quit.\n", profile.Name)

			scanner := bufio.NewScanner(c.Root().Reader)
			for {
				fmt.Fprintf(w, "> ")
				if !scanner.Scan() {
					break
				}

				message := scanner.Text()
				if message == "exit" {
					break
				}
				if strings.TrimSpace(message) == "" {
					continue
				}

				printer.reset(profile.Name + ": ")
				if !ctrl.Chat().Send(ctx, message) {
					fmt.Fprintf(w, "(nothing sent)")
				}
				fmt.Fprintf(w, "\n")
			}

			fmt.Fprintf(w, "\nChat session completed\n")
			return nil
		},
	}
}
