package command

import (
	"context"
	"fmt"
	"io"

	"github.com/cbroglie/mustache"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/envform/pkg/envvars"
)

type renderCommand struct {
	backend envvars.Backend
}

func NewRender(backend envvars.Backend) *renderCommand {
	return &renderCommand{backend}
}

func (c *renderCommand) Run(ctx context.Context, w io.Writer, project, env, template string) error {
	variables, err := c.backend.ListVariables(ctx, project, env)
	if err != nil {
		return errors.Wrap(err, "fail to list variables")
	}

	hclog.FromContext(ctx).Debug("Rendering template", "template", template, "variables", len(variables))

	mustache.AllowMissingVariables = false
	result, err := mustache.RenderFile(template, envvars.ToMap(variables))
	if err != nil {
		return errors.Wrapf(err, "fail to render template %s", template)
	}

	_, err = fmt.Fprint(w, result)
	return errors.Wrap(err, "fail to write rendered template")
}
