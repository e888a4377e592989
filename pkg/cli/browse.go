package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/philosophia/pkg/model"
	"github.com/m-mizutani/philosophia/pkg/usecase/catalog"
	"github.com/urfave/cli/v3"
)

const browseHelp = `Commands:
  list                    show the catalog
  search <name>           find a philosopher, summoning a new one if needed
  open <id>               open a profile by ID
  show                    show the open profile
  chat <message>          talk to the open philosopher (plain text works too)
  comment <author>: <text>
                          comment on the open profile
  close                   back to the catalog
  help                    this message
  exit                    quit
`

func browseCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "browse",
		Usage: "Interactive catalog browser",
		Flags: allFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)
			w := c.Root().Writer

			gen, err := cfg.newGeneratorOrOffline(ctx)
			if err != nil {
				return err
			}

			r := newREPL(w)
			ctrl, err := cfg.newController(ctx, gen, catalog.WithChatListener(r.onTurn))
			if err != nil {
				return err
			}
			r.ctrl = ctrl

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "philosophia> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				AutoComplete: readline.NewPrefixCompleter(
					readline.PcItem("list"),
					readline.PcItem("search"),
					readline.PcItem("open"),
					readline.PcItem("show"),
					readline.PcItem("chat"),
					readline.PcItem("comment"),
					readline.PcItem("close"),
					readline.PcItem("help"),
					readline.PcItem("exit"),
				),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to initialize readline")
			}
			defer rl.Close()

			fmt.Fprint(w, browseHelp)
			r.exec(ctx, command{name: "list"})

			for {
				rl.SetPrompt(r.prompt(ctx))
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}

				if quit := r.exec(ctx, parseCommand(line, r.ctrl.SelectedID() != "")); quit {
					return nil
				}
			}
		},
	}
}

type command struct {
	name string
	arg  string
}

// parseCommand splits a REPL line into command and argument. While a profile is open, text that is not
// a known command is sent as chat.
func parseCommand(line string, open bool) command {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)

	switch name {
	case "list", "search", "open", "show", "chat", "comment", "close", "help":
		return command{name: name, arg: arg}
	case "exit", "quit":
		return command{name: "exit"}
	}

	if open {
		return command{name: "chat", arg: line}
	}
	return command{name: "unknown", arg: line}
}

// parseComment splits "author: text"
func parseComment(arg string) (author, text string, ok bool) {
	author, text, ok = strings.Cut(arg, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(author), strings.TrimSpace(text), true
}

type repl struct {
	ctrl    *catalog.Controller
	w       io.Writer
	printer *turnPrinter
	spin    *spinner.Spinner
}

func newREPL(w io.Writer) *repl {
	return &repl{
		w:       w,
		printer: &turnPrinter{w: w},
		spin:    spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w)),
	}
}

func (r *repl) prompt(ctx context.Context) string {
	profile, err := r.ctrl.Selected(ctx)
	if err != nil || profile == nil {
		return "philosophia> "
	}
	return fmt.Sprintf("philosophia:%s> ", profile.ID)
}

// onTurn receives the accumulated reply on every fragment
func (r *repl) onTurn(turn model.ChatTurn) {
	r.spin.Stop()
	r.printer.print(turn.Content)
}

func (r *repl) banner(err error) {
	fmt.Fprintf(r.w, "! %s\n", catalog.Message(err))
}

// exec runs one command and reports whether the REPL should quit
func (r *repl) exec(ctx context.Context, cmd command) bool {
	switch cmd.name {
	case "":
	case "exit":
		return true

	case "help":
		fmt.Fprint(r.w, browseHelp)

	case "list":
		profiles, err := r.ctrl.List(ctx)
		if err != nil {
			r.banner(err)
			return false
		}
		printGrid(r.w, profiles, r.ctrl.SelectedID())

	case "search":
		if cmd.arg == "" {
			fmt.Fprintln(r.w, "usage: search <name>")
			return false
		}
		r.spin.Suffix = " Consulting the archives..."
		r.spin.Start()
		profile, err := r.ctrl.Search(ctx, cmd.arg)
		r.spin.Stop()
		if err != nil {
			r.banner(err)
			return false
		}
		printProfile(r.w, profile)

	case "open":
		profile, err := r.ctrl.Select(ctx, model.ProfileID(cmd.arg))
		if err != nil {
			r.banner(err)
			return false
		}
		printProfile(r.w, profile)

	case "show":
		profile, err := r.ctrl.Selected(ctx)
		if err != nil {
			r.banner(err)
			return false
		}
		if profile == nil {
			fmt.Fprintln(r.w, "No profile is open. Use 'open <id>' or 'search <name>'.")
			return false
		}
		printProfile(r.w, profile)

	case "chat":
		session := r.ctrl.Chat()
		if session == nil {
			fmt.Fprintln(r.w, "No profile is open. Use 'open <id>' or 'search <name>'.")
			return false
		}
		if cmd.arg == "" {
			return false
		}

		r.printer.reset(session.Persona() + ": ")
		r.spin.Suffix = " thinking..."
		r.spin.Start()
		sent := session.Send(ctx, cmd.arg)
		r.spin.Stop()
		if !sent {
			fmt.Fprint(r.w, "(still answering)")
		}
		fmt.Fprintln(r.w)

	case "comment":
		id := r.ctrl.SelectedID()
		if id == "" {
			fmt.Fprintln(r.w, "No profile is open. Use 'open <id>' or 'search <name>'.")
			return false
		}
		author, text, ok := parseComment(cmd.arg)
		if !ok {
			fmt.Fprintln(r.w, "usage: comment <author>: <text>")
			return false
		}
		c, err := r.ctrl.AddComment(ctx, id, text, author)
		if err != nil {
			r.banner(err)
			return false
		}
		fmt.Fprintf(r.w, "Comment posted by %s.\n", c.Author)

	case "close":
		r.ctrl.Close()
		profiles, err := r.ctrl.List(ctx)
		if err != nil {
			r.banner(err)
			return false
		}
		printGrid(r.w, profiles, "")

	default:
		fmt.Fprintf(r.w, "Unknown command %q. Type 'help'.\n", cmd.arg)
	}

	return false
}
