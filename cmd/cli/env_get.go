package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/envform/pkg/envvars"
)

func init() {
	envCmd.AddCommand(envGetCmd)
}

var envGetCmd = &cobra.Command{
	Use:   "get <VAR_NAME>",
	Short: "Print the value of an environment variable",
	Example: `# Use a variable in a shell script
export DATABASE_URL="$(envform env get DATABASE_URL -e prod)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := newContext()

		t, err := getTarget(ctx, cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		variable, err := t.backend.RetrieveVariable(ctx, t.project, t.env, args[0])
		if err != nil {
			if errors.Is(err, envvars.ErrVariableNotFound) {
				return errors.Errorf("variable %s not found in %s/%s", args[0], t.project, t.env)
			}

			return errors.Wrap(err, "fail to get variable")
		}

		fmt.Fprintln(os.Stdout, variable.Value)
		return nil
	},
}
