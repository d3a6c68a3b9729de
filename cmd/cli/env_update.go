package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/envform/pkg/data"
)

func init() {
	envCmd.AddCommand(envUpdateCmd)
}

var envUpdateCmd = &cobra.Command{
	Use:   "update <VAR_NAME> <value>",
	Short: "Update the value of an existing environment variable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := newContext()

		t, err := getTarget(ctx, cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		err = t.backend.UpdateVariable(ctx, t.project, t.env, args[0], &data.UpdateParams{Value: args[1]})
		if err != nil {
			return errors.Wrap(err, "fail to update environment variable")
		}

		fmt.Fprintf(os.Stdout, "Variable \"%s\" updated.\n", args[0])
		return nil
	},
}
