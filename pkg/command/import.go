package command

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/envform/pkg/data"
	"github.com/ergomake/envform/pkg/envvars"
)

type importCommand struct {
	backend envvars.Backend
}

func NewImport(backend envvars.Backend) *importCommand {
	return &importCommand{backend}
}

func (c *importCommand) Run(ctx context.Context, project, env string, params *data.ImportParams) error {
	err := params.Variables.Validate()
	if err != nil {
		return err
	}

	hclog.FromContext(ctx).Debug(
		"Importing variables",
		"project", project, "env", env,
		"kind", params.Variables.Kind().String(), "override", params.ShouldOverride(),
	)

	err = c.backend.ImportVariables(ctx, project, env, params)
	return errors.Wrapf(err, "fail to import variables into %s/%s", project, env)
}
