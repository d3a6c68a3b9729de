package envvars

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ergomake/envform/pkg/data"
)

var (
	ErrVariableNotFound      = errors.New("environment variable not found")
	ErrVariableAlreadyExists = errors.New("environment variable already exists")
)

// Backend manages the environment variables of a project environment.
type Backend interface {
	ListVariables(ctx context.Context, project, env string) ([]*data.EnvVar, error)
	ImportVariables(ctx context.Context, project, env string, params *data.ImportParams) error
	CreateVariable(ctx context.Context, project, env string, params *data.CreateParams) error
	RetrieveVariable(ctx context.Context, project, env, name string) (*data.EnvVar, error)
	UpdateVariable(ctx context.Context, project, env, name string, params *data.UpdateParams) error
	DeleteVariable(ctx context.Context, project, env, name string) error
}

// ToMap flattens a list of variables, later entries win.
func ToMap(variables []*data.EnvVar) map[string]string {
	out := make(map[string]string, len(variables))
	for _, v := range variables {
		out[v.Name] = v.Value
	}

	return out
}
