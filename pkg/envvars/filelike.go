package envvars

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/ergomake/envform/internal/storage"
	"github.com/ergomake/envform/pkg/data"
)

const CURRENT_FILE_LIKE_MODEL_VERSION = 1

type fileLikeVariable struct {
	Project     string `json:"project"`
	Environment string `json:"environment"`
	Name        string `json:"name"`
	Value       string `json:"value"`
}

type fileLikeModel struct {
	Version   uint                `json:"version"`
	Variables []*fileLikeVariable `json:"variables"`
}

type fileLikeBackend struct {
	model   *fileLikeModel
	storage storage.FileLike
	mu      sync.Mutex
}

var _ Backend = &fileLikeBackend{}

func NewFileLikeBackend(ctx context.Context, storage storage.FileLike) (*fileLikeBackend, error) {
	model := &fileLikeModel{Version: CURRENT_FILE_LIKE_MODEL_VERSION}
	err := storage.Load(ctx, model)
	if err != nil {
		return nil, errors.Wrap(err, "fail to load variables")
	}

	if model.Version > CURRENT_FILE_LIKE_MODEL_VERSION {
		return nil, errors.Errorf("variables were written by a newer version of envform (version %d)", model.Version)
	}

	return &fileLikeBackend{model: model, storage: storage}, nil
}

func (flb *fileLikeBackend) find(project, env, name string) (int, bool) {
	for i, v := range flb.model.Variables {
		if v.Project == project && v.Environment == env && v.Name == name {
			return i, true
		}
	}

	return -1, false
}

func (flb *fileLikeBackend) snapshot() []*fileLikeVariable {
	variables := make([]*fileLikeVariable, len(flb.model.Variables))
	for i, v := range flb.model.Variables {
		cp := *v
		variables[i] = &cp
	}

	return variables
}

// save persists the model, restoring prev in memory when storage fails.
func (flb *fileLikeBackend) save(ctx context.Context, prev []*fileLikeVariable) error {
	flb.model.Version = CURRENT_FILE_LIKE_MODEL_VERSION
	err := flb.storage.Save(ctx, flb.model)
	if err != nil {
		flb.model.Variables = prev
		return errors.Wrap(err, "fail to save variables")
	}

	return nil
}

func (flb *fileLikeBackend) ListVariables(ctx context.Context, project, env string) ([]*data.EnvVar, error) {
	flb.mu.Lock()
	defer flb.mu.Unlock()

	variables := make([]*data.EnvVar, 0)
	for _, v := range flb.model.Variables {
		if v.Project == project && v.Environment == env {
			variables = append(variables, &data.EnvVar{Name: v.Name, Value: v.Value})
		}
	}

	sortVariables(variables)
	return variables, nil
}

func (flb *fileLikeBackend) ImportVariables(ctx context.Context, project, env string, params *data.ImportParams) error {
	logger := hclog.FromContext(ctx)

	record, err := params.Variables.Resolve()
	if err != nil {
		return errors.Wrap(err, "fail to resolve variables")
	}

	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	sort.Strings(names)

	flb.mu.Lock()
	defer flb.mu.Unlock()

	prev := flb.snapshot()
	override := params.ShouldOverride()
	changed := false
	for _, name := range names {
		value := record[name]
		i, ok := flb.find(project, env, name)
		if ok {
			if !override {
				logger.Debug("Skipping existing variable", "project", project, "env", env, "name", name)
				continue
			}

			flb.model.Variables[i].Value = value
			changed = true
			continue
		}

		flb.model.Variables = append(flb.model.Variables, &fileLikeVariable{
			Project:     project,
			Environment: env,
			Name:        name,
			Value:       value,
		})
		changed = true
	}

	if !changed {
		return nil
	}

	return flb.save(ctx, prev)
}

func (flb *fileLikeBackend) CreateVariable(ctx context.Context, project, env string, params *data.CreateParams) error {
	flb.mu.Lock()
	defer flb.mu.Unlock()

	if _, ok := flb.find(project, env, params.Name); ok {
		return errors.Wrapf(ErrVariableAlreadyExists, "fail to create %s", params.Name)
	}

	prev := flb.snapshot()
	flb.model.Variables = append(flb.model.Variables, &fileLikeVariable{
		Project:     project,
		Environment: env,
		Name:        params.Name,
		Value:       params.Value,
	})

	return flb.save(ctx, prev)
}

func (flb *fileLikeBackend) RetrieveVariable(ctx context.Context, project, env, name string) (*data.EnvVar, error) {
	flb.mu.Lock()
	defer flb.mu.Unlock()

	i, ok := flb.find(project, env, name)
	if !ok {
		return nil, errors.Wrapf(ErrVariableNotFound, "fail to retrieve %s", name)
	}

	v := flb.model.Variables[i]
	return &data.EnvVar{Name: v.Name, Value: v.Value}, nil
}

func (flb *fileLikeBackend) UpdateVariable(ctx context.Context, project, env, name string, params *data.UpdateParams) error {
	flb.mu.Lock()
	defer flb.mu.Unlock()

	i, ok := flb.find(project, env, name)
	if !ok {
		return errors.Wrapf(ErrVariableNotFound, "fail to update %s", name)
	}

	prev := flb.snapshot()
	flb.model.Variables[i].Value = params.Value
	return flb.save(ctx, prev)
}

func (flb *fileLikeBackend) DeleteVariable(ctx context.Context, project, env, name string) error {
	flb.mu.Lock()
	defer flb.mu.Unlock()

	i, ok := flb.find(project, env, name)
	if !ok {
		return errors.Wrapf(ErrVariableNotFound, "fail to delete %s", name)
	}

	prev := flb.snapshot()
	flb.model.Variables = append(flb.model.Variables[:i], flb.model.Variables[i+1:]...)
	return flb.save(ctx, prev)
}

// Close closes the underlying storage when it holds a connection.
func (flb *fileLikeBackend) Close() error {
	if c, ok := flb.storage.(io.Closer); ok {
		return errors.Wrap(c.Close(), "fail to close storage")
	}

	return nil
}

func sortVariables(variables []*data.EnvVar) {
	sort.Slice(variables, func(i, j int) bool {
		return variables[i].Name < variables[j].Name
	})
}
