package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage environment variables",
	Long:  `Manage the environment variables of a project environment using subcommands like "envform env set"`,
	Example: `# List the variables of the prod environment
envform env list -p proj_123 -e prod`,
}
