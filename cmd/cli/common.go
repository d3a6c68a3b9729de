package cli

import (
	"context"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ergomake/envform/internal/efconfig"
	"github.com/ergomake/envform/pkg/envvars"
)

func newContext() context.Context {
	logger := hclog.Default()
	logLevel := hclog.LevelFromString(os.Getenv("EF_LOG"))
	if logLevel != hclog.NoLevel {
		logger.SetLevel(logLevel)
	}

	return hclog.WithContext(context.Background(), logger)
}

type target struct {
	backend     envvars.Backend
	project     string
	env         string
	contextType string
}

// getTarget resolves the backend of the current context together with the
// project and environment the command acts on.
func getTarget(ctx context.Context, cmd *cobra.Command) (*target, error) {
	cfg, err := efconfig.Load("")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.New("no context configured, configure one using \"envform config set-context\"")
		}

		return nil, errors.Wrap(err, "fail to load config")
	}

	project, err := cmd.Flags().GetString("project")
	if err != nil {
		return nil, errors.Wrap(err, "fail to get --project flag, this is a bug in envform")
	}

	current := cfg.GetCurrent()
	if project == "" {
		project = current.Project
	}

	if project == "" {
		return nil, errors.New("no project given, use --project or set one in the current context")
	}

	env, err := cmd.Flags().GetString("env")
	if err != nil {
		return nil, errors.Wrap(err, "fail to get --env flag, this is a bug in envform")
	}

	if env == "" {
		env = current.GetEnv()
	}

	backend, err := cfg.GetEnvVarsBackend(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fail to get environment variables backend")
	}

	return &target{backend, project, env, current.Type}, nil
}

// Close releases the connections held by the backend, if any.
func (t *target) Close() {
	c, ok := t.backend.(io.Closer)
	if !ok {
		return
	}

	err := c.Close()
	if err != nil {
		hclog.Default().Warn("Fail to close environment variables backend", "err", err)
	}
}
