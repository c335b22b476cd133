package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwise/internal/core/config"
	"github.com/colonyops/taskwise/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "taskwise config validate [--json]",
				Description: "Checks the configuration file, data directory, and enrichment settings.",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validateOutput struct {
	Valid    bool                       `json:"valid"`
	Errors   []fieldError               `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	result := validateOutput{
		Valid:    true,
		Warnings: cmd.flags.Config.Warnings(),
	}

	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		result.Valid = false

		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result.Errors = append(result.Errors, fieldError{Field: fe.Field, Message: fe.Err.Error()})
			}
		} else {
			result.Errors = append(result.Errors, fieldError{Field: "config", Message: err.Error()})
		}
	}

	if cmd.jsonOutput {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, result); err != nil {
			return err
		}
		if !result.Valid {
			return cli.Exit("", 1)
		}
		return nil
	}

	out := c.Root().Writer
	for _, warn := range result.Warnings {
		fmt.Fprintf(out, "warning: %s: %s\n", warn.Category, warn.Message)
	}
	for _, fe := range result.Errors {
		fmt.Fprintf(out, "error: %s: %s\n", fe.Field, fe.Message)
	}

	if !result.Valid {
		fmt.Fprintf(out, "%d error(s) found\n", len(result.Errors))
		return cli.Exit("", 1)
	}

	fmt.Fprintln(out, "Configuration is valid")
	return nil
}
