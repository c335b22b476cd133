package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwise/internal/enrich"
	"github.com/colonyops/taskwise/internal/taskwise"
	"github.com/colonyops/taskwise/pkg/iojson"
)

type DoCmd struct {
	flags *Flags
	app   *taskwise.App

	// flags
	jsonOutput   bool
	conversation string
}

// NewDoCmd creates a new do command
func NewDoCmd(flags *Flags, app *taskwise.App) *DoCmd {
	return &DoCmd{flags: flags, app: app}
}

// Register adds the do command to the application
func (cmd *DoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "do",
		Usage:     "Run a natural-language task command",
		UsageText: `taskwise do "add buy groceries tomorrow with high priority"`,
		Description: `Routes one message through intent detection: adding (single or batch),
completing, deleting, due-date and priority changes, and list queries all
work from plain language.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the structured result as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.StringFlag{
				Name:        "context",
				Usage:       "prior conversation text passed to the enrichment service",
				Destination: &cmd.conversation,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DoCmd) run(ctx context.Context, c *cli.Command) error {
	message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if message == "" {
		return fmt.Errorf("usage: taskwise do \"<message>\"")
	}

	if cmd.conversation != "" {
		ctx = enrich.WithConversation(ctx, cmd.conversation)
	}

	result, err := cmd.app.Run(ctx, message)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result)
	}
	return printResult(c.Root().Writer, result)
}
