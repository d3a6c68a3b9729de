package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	envCmd.AddCommand(envDeleteCmd)
}

var envDeleteCmd = &cobra.Command{
	Use:     "delete <VAR_NAME>",
	Aliases: []string{"rm"},
	Short:   "Delete an environment variable",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := newContext()

		t, err := getTarget(ctx, cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		err = t.backend.DeleteVariable(ctx, t.project, t.env, args[0])
		if err != nil {
			return errors.Wrap(err, "fail to delete environment variable")
		}

		fmt.Fprintf(os.Stdout, "Variable \"%s\" deleted.\n", args[0])
		return nil
	},
}
