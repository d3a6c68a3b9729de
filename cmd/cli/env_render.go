package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ergomake/envform/pkg/command"
)

func init() {
	envCmd.AddCommand(envRenderCmd)
}

var envRenderCmd = &cobra.Command{
	Use:   "render <template>",
	Short: "Render a mustache template using environment variables",
	Long: `The render command renders a mustache template file using the variables of a project environment as context.

Rendering fails when the template references a variable that does not exist.`,
	Example: `# Render a docker compose file for staging
envform env render docker-compose.mustache -e staging > docker-compose.yml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := newContext()

		t, err := getTarget(ctx, cmd)
		if err != nil {
			return err
		}
		defer t.Close()

		return command.NewRender(t.backend).Run(ctx, os.Stdout, t.project, t.env, args[0])
	},
}
