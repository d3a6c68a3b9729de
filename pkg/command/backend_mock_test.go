package command

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ergomake/envform/pkg/data"
)

type backendMock struct {
	mock.Mock
}

func (m *backendMock) ListVariables(ctx context.Context, project, env string) ([]*data.EnvVar, error) {
	args := m.Called(ctx, project, env)
	vars, _ := args.Get(0).([]*data.EnvVar)
	return vars, args.Error(1)
}

func (m *backendMock) ImportVariables(ctx context.Context, project, env string, params *data.ImportParams) error {
	return m.Called(ctx, project, env, params).Error(0)
}

func (m *backendMock) CreateVariable(ctx context.Context, project, env string, params *data.CreateParams) error {
	return m.Called(ctx, project, env, params).Error(0)
}

func (m *backendMock) RetrieveVariable(ctx context.Context, project, env, name string) (*data.EnvVar, error) {
	args := m.Called(ctx, project, env, name)
	v, _ := args.Get(0).(*data.EnvVar)
	return v, args.Error(1)
}

func (m *backendMock) UpdateVariable(ctx context.Context, project, env, name string, params *data.UpdateParams) error {
	return m.Called(ctx, project, env, name, params).Error(0)
}

func (m *backendMock) DeleteVariable(ctx context.Context, project, env, name string) error {
	return m.Called(ctx, project, env, name).Error(0)
}
