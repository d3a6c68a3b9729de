package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/envform/pkg/command"
	"github.com/ergomake/envform/pkg/data"
)

func init() {
	envCmd.AddCommand(envSetCmd)
}

var envSetCmd = &cobra.Command{
	Use:   "set <VAR_NAME> <value>",
	Short: "Create or update an environment variable",
	Long: `The set command creates an environment variable, or updates its value when it already exists.

Variables prefixed with TF_VAR_ can later be exported as terraform variables with "envform env export --format tfvars".`,
	Example: `# Set value for a terraform variable
envform env set TF_VAR_foo bar`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := newContext()

		t, err := getTarget(ctx, cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		err = command.NewSetEnv(t.backend).Run(ctx, t.project, t.env, &data.EnvVar{Name: args[0], Value: args[1]})
		return errors.Wrap(err, "fail to set environment variable")
	},
}
