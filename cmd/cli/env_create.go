package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/envform/pkg/data"
)

func init() {
	envCmd.AddCommand(envCreateCmd)
}

var envCreateCmd = &cobra.Command{
	Use:   "create <VAR_NAME> <value>",
	Short: "Create an environment variable",
	Long:  `The create command creates an environment variable and fails if a variable with the same name exists.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := newContext()

		t, err := getTarget(ctx, cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		err = t.backend.CreateVariable(ctx, t.project, t.env, &data.CreateParams{Name: args[0], Value: args[1]})
		if err != nil {
			return errors.Wrap(err, "fail to create environment variable")
		}

		fmt.Fprintf(os.Stdout, "Variable \"%s\" created.\n", args[0])
		return nil
	},
}
