package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Modify envform config file",
	Long:  `Modify envform config file using subcomands like "envform config set-context"`,
	Example: `# Set a context entry in config
envform config set-context example --type=local --dir=~/.envform/contexts/example`,
}
