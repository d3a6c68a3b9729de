package cli

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/envform/pkg/command"
)

func init() {
	formats := make([]string, len(command.ExportFormats))
	for i, f := range command.ExportFormats {
		formats[i] = string(f)
	}

	envExportCmd.Flags().StringP("format", "f", string(command.ExportFormatDotenv), "output format, one of "+strings.Join(formats, ", "))
	envExportCmd.Flags().StringP("output", "o", "", "file to write to, defaults to stdout")
	envCmd.AddCommand(envExportCmd)
}

var envExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export environment variables",
	Long: `The export command prints every variable of a project environment in the given format.

The tfvars format only includes variables prefixed with TF_VAR_, without the prefix, so the output can be
passed to terraform with -var-file.`,
	Example: `# Write a dotenv file
envform env export -e prod -o .env.prod

# Write terraform variables
envform env export -f tfvars -o prod.tfvars`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := newContext()

		rawFormat, err := cmd.Flags().GetString("format")
		if err != nil {
			return errors.Wrap(err, "fail to get --format flag, this is a bug in envform")
		}

		format, err := command.ParseExportFormat(rawFormat)
		if err != nil {
			return err
		}

		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return errors.Wrap(err, "fail to get --output flag, this is a bug in envform")
		}

		t, err := getTarget(ctx, cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		w := os.Stdout
		if output != "" {
			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
			if err != nil {
				return errors.Wrapf(err, "fail to open %s", output)
			}
			defer f.Close()
			w = f
		}

		return command.NewExport(t.backend).Run(ctx, w, t.project, t.env, format)
	},
}
