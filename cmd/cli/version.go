package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	revision   = "unknown"
	lastCommit = ""
)

func SetVersionInfo(v, r, c string) {
	version = v
	revision = r
	lastCommit = c
	rootCmd.Version = v
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print envform version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "envform %s (revision %s, committed at %s)\n", version, revision, lastCommit)
	},
}
