package command

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/envform/pkg/data"
	"github.com/ergomake/envform/pkg/envvars"
)

type setenvCommand struct {
	backend envvars.Backend
}

func NewSetEnv(backend envvars.Backend) *setenvCommand {
	return &setenvCommand{backend}
}

// Run creates the variable or updates it when it already exists.
func (c *setenvCommand) Run(ctx context.Context, project, env string, variable *data.EnvVar) error {
	err := c.backend.CreateVariable(ctx, project, env, &data.CreateParams{Name: variable.Name, Value: variable.Value})
	if err == nil {
		return nil
	}

	if !errors.Is(err, envvars.ErrVariableAlreadyExists) {
		return errors.Wrapf(err, "fail to create %s", variable.Name)
	}

	hclog.FromContext(ctx).Debug("Variable already exists, updating it", "name", variable.Name)

	err = c.backend.UpdateVariable(ctx, project, env, variable.Name, &data.UpdateParams{Value: variable.Value})
	return errors.Wrapf(err, "fail to update %s", variable.Name)
}
