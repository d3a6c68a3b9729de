package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/envform/internal/efconfig"
)

func init() {
	configSetContextCmd.Flags().StringP("type", "t", "local", "type of the context entry, must be one of "+strings.Join(efconfig.ContextTypes, ", "))
	configSetContextCmd.Flags().String("project", "", "default project reference of the context")
	configSetContextCmd.Flags().String("env", "", "default environment of the context, dev when empty")
	configSetContextCmd.Flags().String("dir", "", "directory to store variables, required when type is \"local\"")
	configSetContextCmd.Flags().String("bucket", "", "bucket to store variables, required when type is \"s3\"")
	configSetContextCmd.Flags().String("region", "", "region where bucket is located, required when type is \"s3\"")
	configSetContextCmd.Flags().String("addr", "", "address of the redis server, required when type is \"redis\"")
	configSetContextCmd.Flags().StringSlice("endpoints", []string{}, "etcd endpoints, required when type is \"etcd\"")
	configSetContextCmd.Flags().String("key", "", "key or object name holding the variables, used by \"s3\", \"redis\" and \"etcd\"")
	configSetContextCmd.Flags().String("username", "", "username for \"redis\" or \"etcd\"")
	configSetContextCmd.Flags().String("url", "", "url of envform cloud, required when type is \"cloud\"")
	configSetContextCmd.Flags().String("token", "", "access token of envform cloud, used when type is \"cloud\"")
	configSetContextCmd.Flags().String("email", "", "email of envform cloud user, used when type is \"cloud\" and no token is given")
	configSetContextCmd.Flags().String("password", "", "password of the envform cloud user, redis or etcd")
	configSetContextCmd.Flags().String("timeout", "", "timeout of requests to envform cloud, for instance 30s or 2m")
	configSetContextCmd.Flags().SortFlags = false

	configCmd.AddCommand(configSetContextCmd)
}

var configSetContextCmd = &cobra.Command{
	Use:   "set-context <name>",
	Short: "Set a context entry in envform config file",
	Long: `Set a context entry in envform config file.

  Specifying a name that already exists will update that context values unless the type is different.`,
	Example: `# Set a context of type local named local-example
envform config set-context local-example -t local --dir example-dir --project my-app

# Set a context of type s3 named s3-example
envform config set-context s3-example -t s3 --bucket example-bucket --region us-east-1

# Set a context of type redis named redis-example
envform config set-context redis-example -t redis --addr localhost:6379

# Set a context of type etcd named etcd-example
envform config set-context etcd-example -t etcd --endpoints localhost:2379,localhost:22379

# Set a context of type cloud named cloud-example
envform config set-context cloud-example -t cloud --url https://api.envform.dev --token ef_secret --project proj_123 --env staging`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		flag := func(name string) string {
			v, _ := cmd.Flags().GetString(name)
			return strings.TrimSpace(v)
		}

		t := flag("type")
		configCtx := efconfig.ConfigContext{Type: t, Project: flag("project"), Env: flag("env"), Timeout: flag("timeout")}
		switch configCtx.Type {
		case efconfig.ContextTypeLocal:
			configCtx.Dir = flag("dir")
		case efconfig.ContextTypeS3:
			configCtx.Bucket = flag("bucket")
			configCtx.Region = flag("region")
			configCtx.Key = flag("key")
		case efconfig.ContextTypeRedis:
			configCtx.Addr = flag("addr")
			configCtx.Username = flag("username")
			configCtx.Password = flag("password")
			configCtx.Key = flag("key")
		case efconfig.ContextTypeEtcd:
			endpoints, _ := cmd.Flags().GetStringSlice("endpoints")
			configCtx.Endpoints = endpoints
			configCtx.Username = flag("username")
			configCtx.Password = flag("password")
			configCtx.Key = flag("key")
		case efconfig.ContextTypeCloud:
			configCtx.URL = flag("url")
			configCtx.Token = flag("token")
			configCtx.Email = flag("email")
			configCtx.Password = flag("password")
		default:
			fmt.Fprintf(os.Stderr, "invalid type %s\n", configCtx.Type)
			os.Exit(1)
		}

		err := efconfig.Validate(configCtx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "invalid context configuration"))
			os.Exit(1)
		}

		cfg, err := efconfig.Load("")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "fail to open config file"))
			os.Exit(1)
		}

		action := "modified"
		if cfg == nil {
			action = "created"
			cfg, err = efconfig.Init(name, configCtx, "")
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "fail to initialize empty config"))
				os.Exit(1)
			}
		} else {
			prev, ok := cfg.Contexts[name]
			if !ok {
				action = "created"
			}

			if ok && prev.Type != t {
				fmt.Fprintf(
					os.Stderr,
					"%s context already exists with a different type of %s, context type can't be updated.\n",
					name,
					prev.Type,
				)
				os.Exit(1)
			}
			cfg.Contexts[name] = configCtx
		}

		cfg.CurrentContext = name

		err = cfg.Save()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", errors.Wrap(err, "fail to save config file"))
			os.Exit(1)
		}

		fmt.Fprintf(os.Stdout, "Context \"%s\" %s.\n", name, action)
	},
	SilenceErrors: true,
}
