package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ergomake/envform/internal/efconfig"
	"github.com/ergomake/envform/internal/telemetry"
)

func init() {
	rootCmd.PersistentFlags().StringP("project", "p", "", "project reference, defaults to the project of the current context")
	rootCmd.PersistentFlags().StringP("env", "e", "", "environment slug, for instance dev, staging or prod, defaults to the environment of the current context or dev")
}

var rootCmd = &cobra.Command{
	Use:   "envform",
	Short: "Manage the environment variables of your projects",
	Long: `envform manages the environment variables of your projects.

Variables are kept per project and environment, either in envform cloud or in a storage you own:
a local directory, an S3 bucket, a redis server or an etcd cluster. Use "envform config set-context"
to choose where they live.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		contextType := ""
		if cfg, err := efconfig.Load(""); err == nil {
			contextType = cfg.GetCurrent().Type
		}

		telemetry.Push(telemetry.EventRunCommand, cmd.CommandPath(), contextType)
	},
	SilenceUsage: true,
}

func Execute() {
	telemetry.Init()

	err := rootCmd.Execute()
	telemetry.Close()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
