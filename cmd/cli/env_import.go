package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/envform/internal/efconfig"
	"github.com/ergomake/envform/pkg/command"
	"github.com/ergomake/envform/pkg/data"
)

func init() {
	envImportCmd.Flags().StringToString("var", map[string]string{}, "variables to import as NAME=value, can be repeated")
	envImportCmd.Flags().Bool("override", false, "replace variables that already exist instead of keeping their current value")
	envCmd.AddCommand(envImportCmd)
}

var envImportCmd = &cobra.Command{
	Use:   "import [file | url | -]",
	Short: "Import environment variables",
	Long: `The import command imports many environment variables at once.

Variables can be read from a dotenv file, from a dotenv file served over http(s), from stdin when "-" is given,
or passed directly with --var. Variables that already exist keep their value unless --override is given.`,
	Example: `# Import a dotenv file into staging
envform env import .env.staging -e staging

# Import from stdin replacing existing values
cat .env | envform env import - --override

# Import a couple of variables directly
envform env import --var FOO=bar --var BAZ=qux`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := newContext()

		record, err := cmd.Flags().GetStringToString("var")
		if err != nil {
			return errors.Wrap(err, "fail to get --var flag, this is a bug in envform")
		}

		params := &data.ImportParams{}
		if cmd.Flags().Changed("override") {
			override, err := cmd.Flags().GetBool("override")
			if err != nil {
				return errors.Wrap(err, "fail to get --override flag, this is a bug in envform")
			}
			params.Override = data.Bool(override)
		}

		switch {
		case len(args) == 1 && len(record) > 0:
			return errors.New("--var can't be used together with a file")
		case len(args) == 0 && len(record) == 0:
			return errors.New("nothing to import, give a file, a url, \"-\" or --var")
		case len(args) == 0:
			params.Variables = data.RecordVariables(record)
		default:
			params.Variables, err = sourceVariables(ctx, args[0])
			if err != nil {
				return err
			}
		}
		defer params.Variables.Close()

		t, err := getTarget(ctx, cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		var s *spinner.Spinner
		if t.contextType == efconfig.ContextTypeCloud {
			s = spinner.New(
				spinner.CharSets[14],
				60*time.Millisecond,
				spinner.WithWriter(os.Stderr),
				spinner.WithSuffix(fmt.Sprintf(" Importing variables into %s/%s", t.project, t.env)),
			)
			s.Start()
		}

		err = command.NewImport(t.backend).Run(ctx, t.project, t.env, params)
		if s != nil {
			s.Stop()
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Variables imported into %s/%s.\n", t.project, t.env)
		return nil
	},
}

func sourceVariables(ctx context.Context, source string) (data.Variables, error) {
	if source == "-" {
		blob, err := io.ReadAll(os.Stdin)
		if err != nil {
			return data.Variables{}, errors.Wrap(err, "fail to read variables from stdin")
		}

		return data.BlobVariables(blob), nil
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return data.Variables{}, errors.Wrapf(err, "fail to create request to %s", source)
		}

		res, err := http.DefaultClient.Do(req)
		if err != nil {
			return data.Variables{}, errors.Wrapf(err, "fail to download %s", source)
		}

		v, err := data.ResponseVariables(res)
		return v, errors.Wrapf(err, "fail to download %s", source)
	}

	return data.FileVariables(source)
}
