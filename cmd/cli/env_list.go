package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	envListCmd.Flags().Bool("show-values", false, "print variable values instead of masking them")
	envCmd.AddCommand(envListCmd)
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List environment variables",
	Long:  `List the environment variables of a project environment. Values are masked unless --show-values is given.`,
	Example: `# List variables with their values
envform env list --show-values`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := newContext()

		t, err := getTarget(ctx, cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		showValues, err := cmd.Flags().GetBool("show-values")
		if err != nil {
			return errors.Wrap(err, "fail to get --show-values flag, this is a bug in envform")
		}

		variables, err := t.backend.ListVariables(ctx, t.project, t.env)
		if err != nil {
			return errors.Wrap(err, "fail to list variables")
		}

		if len(variables) == 0 {
			fmt.Fprintf(os.Stdout, "No variables in %s/%s.\n", t.project, t.env)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tVALUE")
		for _, v := range variables {
			value := strings.Repeat("*", 8)
			if showValues {
				value = v.Value
			}

			fmt.Fprintln(w, strings.Join([]string{v.Name, value}, "\t"))
		}

		return errors.Wrap(w.Flush(), "fail to print output")
	},
}
