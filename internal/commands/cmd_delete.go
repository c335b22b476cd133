package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwise/internal/core/task"
	"github.com/colonyops/taskwise/internal/engine"
	"github.com/colonyops/taskwise/internal/taskwise"
	"github.com/colonyops/taskwise/pkg/iojson"
)

type DeleteCmd struct {
	flags *Flags
	app   *taskwise.App

	// flags
	jsonOutput bool
}

// NewDeleteCmd creates a new delete command
func NewDeleteCmd(flags *Flags, app *taskwise.App) *DeleteCmd {
	return &DeleteCmd{flags: flags, app: app}
}

// Register adds the delete command to the application
func (cmd *DeleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "delete",
		Usage:     "Delete a task",
		UsageText: `taskwise delete "newsletter draft"`,
		Description: `Resolves the reference fuzzily against all tasks and removes the match.
Use 'id:<ID>' to target a task directly when the reference is ambiguous.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the structured result as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DeleteCmd) run(ctx context.Context, c *cli.Command) error {
	reference := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if reference == "" {
		return fmt.Errorf("usage: taskwise delete \"<task reference>\"")
	}

	result, err := cmd.app.Mutate(ctx, func(tasks []task.Task) ([]task.Task, engine.CommandResult) {
		return cmd.app.Engine.Delete(tasks, reference)
	})
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result)
	}
	return printResult(c.Root().Writer, result)
}
