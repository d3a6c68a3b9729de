package envvars

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ergomake/envform/internal/storage"
	"github.com/ergomake/envform/pkg/data"
)

type storageMock struct {
	mock.Mock
}

func (m *storageMock) Load(ctx context.Context, v any) error {
	return m.Called(ctx, v).Error(0)
}

func (m *storageMock) Save(ctx context.Context, v any) error {
	return m.Called(ctx, v).Error(0)
}

func newBackend(vars ...*fileLikeVariable) (*fileLikeBackend, *storageMock) {
	s := &storageMock{}
	return &fileLikeBackend{
		model:   &fileLikeModel{Version: CURRENT_FILE_LIKE_MODEL_VERSION, Variables: vars},
		storage: s,
	}, s
}

func TestFileLikeBackend_ListVariables(t *testing.T) {
	fb, _ := newBackend(
		&fileLikeVariable{Project: "p1", Environment: "dev", Name: "B", Value: "2"},
		&fileLikeVariable{Project: "p1", Environment: "prod", Name: "A", Value: "x"},
		&fileLikeVariable{Project: "p1", Environment: "dev", Name: "A", Value: "1"},
		&fileLikeVariable{Project: "p2", Environment: "dev", Name: "C", Value: "3"},
	)

	result, err := fb.ListVariables(context.Background(), "p1", "dev")
	require.NoError(t, err)
	assert.Equal(t, []*data.EnvVar{{Name: "A", Value: "1"}, {Name: "B", Value: "2"}}, result)

	result, err = fb.ListVariables(context.Background(), "p3", "dev")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestFileLikeBackend_ImportVariables(t *testing.T) {
	existing := func() []*fileLikeVariable {
		return []*fileLikeVariable{{Project: "p", Environment: "dev", Name: "KEEP", Value: "old"}}
	}

	t.Run("without override keeps existing values", func(t *testing.T) {
		fb, s := newBackend(existing()...)
		s.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		err := fb.ImportVariables(context.Background(), "p", "dev", &data.ImportParams{
			Variables: data.RecordVariables(map[string]string{"KEEP": "new", "ADDED": "v"}),
		})
		require.NoError(t, err)

		got := ToMap(mustList(t, fb, "p", "dev"))
		assert.Equal(t, map[string]string{"KEEP": "old", "ADDED": "v"}, got)
		s.AssertExpectations(t)
	})

	t.Run("with override replaces existing values", func(t *testing.T) {
		fb, s := newBackend(existing()...)
		s.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		err := fb.ImportVariables(context.Background(), "p", "dev", &data.ImportParams{
			Variables: data.BlobVariables([]byte("KEEP=new\nADDED=v\n")),
			Override:  data.Bool(true),
		})
		require.NoError(t, err)

		got := ToMap(mustList(t, fb, "p", "dev"))
		assert.Equal(t, map[string]string{"KEEP": "new", "ADDED": "v"}, got)
		s.AssertExpectations(t)
	})

	t.Run("explicit false override behaves like absent", func(t *testing.T) {
		fb, s := newBackend(existing()...)

		err := fb.ImportVariables(context.Background(), "p", "dev", &data.ImportParams{
			Variables: data.UploadVariables(strings.NewReader("KEEP=new"), ""),
			Override:  data.Bool(false),
		})
		require.NoError(t, err)

		assert.Equal(t, "old", ToMap(mustList(t, fb, "p", "dev"))["KEEP"])
		s.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("same name in another environment is independent", func(t *testing.T) {
		fb, s := newBackend(existing()...)
		s.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		err := fb.ImportVariables(context.Background(), "p", "prod", &data.ImportParams{
			Variables: data.RecordVariables(map[string]string{"KEEP": "prod"}),
		})
		require.NoError(t, err)

		assert.Equal(t, "old", ToMap(mustList(t, fb, "p", "dev"))["KEEP"])
		assert.Equal(t, "prod", ToMap(mustList(t, fb, "p", "prod"))["KEEP"])
	})

	t.Run("dotenv references are stored literally", func(t *testing.T) {
		fb, s := newBackend()
		s.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		t.Setenv("EF_IMPORT_SECRET", "leaked")

		err := fb.ImportVariables(context.Background(), "p", "dev", &data.ImportParams{
			Variables: data.BlobVariables([]byte("A=$EF_IMPORT_SECRET\nB=\"${EF_IMPORT_SECRET}x\"\n")),
		})
		require.NoError(t, err)

		got := ToMap(mustList(t, fb, "p", "dev"))
		assert.Equal(t, map[string]string{"A": "$EF_IMPORT_SECRET", "B": "${EF_IMPORT_SECRET}x"}, got)
	})

	t.Run("invalid variables fail", func(t *testing.T) {
		fb, _ := newBackend()

		err := fb.ImportVariables(context.Background(), "p", "dev", &data.ImportParams{})
		assert.ErrorIs(t, err, data.ErrInvalidVariables)
	})

	t.Run("fails when fails to save", func(t *testing.T) {
		expectedErr := errors.New("rip")
		fb, s := newBackend()
		s.On("Save", mock.Anything, mock.Anything).Return(expectedErr)

		err := fb.ImportVariables(context.Background(), "p", "dev", &data.ImportParams{
			Variables: data.RecordVariables(map[string]string{"A": "1"}),
		})
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("failed save leaves variables untouched", func(t *testing.T) {
		fb, s := newBackend(existing()...)
		s.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		err := fb.ImportVariables(context.Background(), "p", "dev", &data.ImportParams{
			Variables: data.RecordVariables(map[string]string{"KEEP": "new", "ADDED": "v"}),
			Override:  data.Bool(true),
		})
		require.Error(t, err)
		assert.Equal(t, map[string]string{"KEEP": "old"}, ToMap(mustList(t, fb, "p", "dev")))
	})
}

func TestFileLikeBackend_CreateVariable(t *testing.T) {
	t.Run("creates variable", func(t *testing.T) {
		fb, s := newBackend()
		s.On("Save", context.Background(), &fileLikeModel{
			Version:   CURRENT_FILE_LIKE_MODEL_VERSION,
			Variables: []*fileLikeVariable{{Project: "p", Environment: "dev", Name: "A", Value: "1"}},
		}).Return(nil)

		err := fb.CreateVariable(context.Background(), "p", "dev", &data.CreateParams{Name: "A", Value: "1"})
		require.NoError(t, err)
		s.AssertExpectations(t)
	})

	t.Run("fails when variable exists", func(t *testing.T) {
		fb, _ := newBackend(&fileLikeVariable{Project: "p", Environment: "dev", Name: "A", Value: "1"})

		err := fb.CreateVariable(context.Background(), "p", "dev", &data.CreateParams{Name: "A", Value: "2"})
		assert.ErrorIs(t, err, ErrVariableAlreadyExists)
	})

	t.Run("can be retried after a failed save", func(t *testing.T) {
		expectedErr := errors.New("disk full")
		fb, s := newBackend()
		s.On("Save", mock.Anything, mock.Anything).Return(expectedErr).Once()
		s.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		err := fb.CreateVariable(context.Background(), "p", "dev", &data.CreateParams{Name: "A", Value: "1"})
		assert.ErrorIs(t, err, expectedErr)

		_, err = fb.RetrieveVariable(context.Background(), "p", "dev", "A")
		assert.ErrorIs(t, err, ErrVariableNotFound)

		err = fb.CreateVariable(context.Background(), "p", "dev", &data.CreateParams{Name: "A", Value: "1"})
		require.NoError(t, err)
		s.AssertExpectations(t)
	})
}

func TestFileLikeBackend_RetrieveUpdateDelete(t *testing.T) {
	t.Run("retrieve", func(t *testing.T) {
		fb, _ := newBackend(&fileLikeVariable{Project: "p", Environment: "dev", Name: "A", Value: "1"})

		v, err := fb.RetrieveVariable(context.Background(), "p", "dev", "A")
		require.NoError(t, err)
		assert.Equal(t, &data.EnvVar{Name: "A", Value: "1"}, v)

		_, err = fb.RetrieveVariable(context.Background(), "p", "dev", "B")
		assert.ErrorIs(t, err, ErrVariableNotFound)
	})

	t.Run("update", func(t *testing.T) {
		fb, s := newBackend(&fileLikeVariable{Project: "p", Environment: "dev", Name: "A", Value: "1"})
		s.On("Save", mock.Anything, mock.Anything).Return(nil)

		err := fb.UpdateVariable(context.Background(), "p", "dev", "A", &data.UpdateParams{Value: "2"})
		require.NoError(t, err)
		assert.Equal(t, "2", fb.model.Variables[0].Value)

		err = fb.UpdateVariable(context.Background(), "p", "prod", "A", &data.UpdateParams{Value: "2"})
		assert.ErrorIs(t, err, ErrVariableNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		fb, s := newBackend(
			&fileLikeVariable{Project: "p", Environment: "dev", Name: "A", Value: "1"},
			&fileLikeVariable{Project: "p", Environment: "dev", Name: "B", Value: "2"},
		)
		s.On("Save", mock.Anything, mock.Anything).Return(nil)

		err := fb.DeleteVariable(context.Background(), "p", "dev", "A")
		require.NoError(t, err)
		assert.Equal(t, []*data.EnvVar{{Name: "B", Value: "2"}}, mustList(t, fb, "p", "dev"))

		err = fb.DeleteVariable(context.Background(), "p", "dev", "A")
		assert.ErrorIs(t, err, ErrVariableNotFound)
	})

	t.Run("update keeps old value when fails to save", func(t *testing.T) {
		fb, s := newBackend(&fileLikeVariable{Project: "p", Environment: "dev", Name: "A", Value: "1"})
		s.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		err := fb.UpdateVariable(context.Background(), "p", "dev", "A", &data.UpdateParams{Value: "2"})
		require.Error(t, err)

		v, err := fb.RetrieveVariable(context.Background(), "p", "dev", "A")
		require.NoError(t, err)
		assert.Equal(t, "1", v.Value)
	})

	t.Run("delete keeps variable when fails to save", func(t *testing.T) {
		fb, s := newBackend(
			&fileLikeVariable{Project: "p", Environment: "dev", Name: "A", Value: "1"},
			&fileLikeVariable{Project: "p", Environment: "dev", Name: "B", Value: "2"},
		)
		s.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		err := fb.DeleteVariable(context.Background(), "p", "dev", "A")
		require.Error(t, err)
		assert.Equal(t,
			[]*data.EnvVar{{Name: "A", Value: "1"}, {Name: "B", Value: "2"}},
			mustList(t, fb, "p", "dev"),
		)
	})
}

func TestFileLikeBackend_Concurrency(t *testing.T) {
	fb, s := newBackend()
	s.On("Save", mock.Anything, mock.Anything).Return(nil)

	const workers = 20
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			err := fb.CreateVariable(ctx, "p", "dev", &data.CreateParams{Name: fmt.Sprintf("CREATED_%d", i), Value: "1"})
			assert.NoError(t, err)

			err = fb.ImportVariables(ctx, "p", "dev", &data.ImportParams{
				Variables: data.RecordVariables(map[string]string{fmt.Sprintf("IMPORTED_%d", i): "2", "SHARED": "3"}),
			})
			assert.NoError(t, err)

			_, err = fb.ListVariables(ctx, "p", "dev")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, mustList(t, fb, "p", "dev"), 2*workers+1)
}

func TestNewFileLikeBackend(t *testing.T) {
	t.Run("persists across instances", func(t *testing.T) {
		fpath := path.Join(t.TempDir(), "envform.envvars.json")
		ctx := context.Background()

		fb, err := NewFileLikeBackend(ctx, storage.NewFileStorage(fpath))
		require.NoError(t, err)
		err = fb.CreateVariable(ctx, "p", "dev", &data.CreateParams{Name: "A", Value: "1"})
		require.NoError(t, err)

		fb, err = NewFileLikeBackend(ctx, storage.NewFileStorage(fpath))
		require.NoError(t, err)
		assert.Equal(t, []*data.EnvVar{{Name: "A", Value: "1"}}, mustList(t, fb, "p", "dev"))
	})

	t.Run("fails when fails to load", func(t *testing.T) {
		s := &storageMock{}
		s.On("Load", mock.Anything, mock.Anything).Return(errors.New("rip"))

		_, err := NewFileLikeBackend(context.Background(), s)
		assert.Error(t, err)
	})
}

type closableStorageMock struct {
	storageMock
	closed bool
}

func (m *closableStorageMock) Close() error {
	m.closed = true
	return nil
}

func TestFileLikeBackend_Close(t *testing.T) {
	t.Run("closes storage holding a connection", func(t *testing.T) {
		s := &closableStorageMock{}
		fb := &fileLikeBackend{model: &fileLikeModel{}, storage: s}

		require.NoError(t, fb.Close())
		assert.True(t, s.closed)
	})

	t.Run("is a no-op for other storages", func(t *testing.T) {
		fb, _ := newBackend()
		assert.NoError(t, fb.Close())
	})
}

func mustList(t *testing.T, b Backend, project, env string) []*data.EnvVar {
	t.Helper()

	vars, err := b.ListVariables(context.Background(), project, env)
	require.NoError(t, err)
	return vars
}
