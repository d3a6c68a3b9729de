package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/envform/internal/efconfig"
)

func init() {
	configCmd.AddCommand(configGetContextsCmd)
}

var configGetContextsCmd = &cobra.Command{
	Use:   "get-contexts",
	Short: "Display contexts from envform config file",
	Long:  `Display contexts from envform config file`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := efconfig.Load("")
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(os.Stdout, "No contexts configured, configure contexts using the set-context command.")
				return
			}

			fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "fail to open config file"))
			os.Exit(1)
		}

		names := make([]string, 0, len(cfg.Contexts))
		for name := range cfg.Contexts {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tTYPE\tPROJECT\tENV\tLOCATION")
		for _, name := range names {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentName() {
				current = "*"
			}

			fmt.Fprintln(w, strings.Join([]string{current, name, ctx.Type, ctx.Project, ctx.GetEnv(), ctx.Location()}, "\t"))
		}

		err = w.Flush()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "fail to print output"))
			os.Exit(1)
		}
	},
	SilenceErrors: true,
}
