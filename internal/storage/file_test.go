package storage

import (
	"context"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testModel struct {
	Version int      `json:"version"`
	Names   []string `json:"names"`
}

func TestFileStorage(t *testing.T) {
	t.Run("load of a missing file leaves value untouched", func(t *testing.T) {
		fs := NewFileStorage(path.Join(t.TempDir(), "missing.json"))

		model := testModel{Version: 7}
		err := fs.Load(context.Background(), &model)
		require.NoError(t, err)
		assert.Equal(t, testModel{Version: 7}, model)
	})

	t.Run("save then load", func(t *testing.T) {
		fpath := path.Join(t.TempDir(), "nested", "vars.json")
		fs := NewFileStorage(fpath)

		err := fs.Save(context.Background(), &testModel{Version: 1, Names: []string{"A", "B"}})
		require.NoError(t, err)

		var model testModel
		err = fs.Load(context.Background(), &model)
		require.NoError(t, err)
		assert.Equal(t, testModel{Version: 1, Names: []string{"A", "B"}}, model)
	})

	t.Run("does not leave temporary files behind", func(t *testing.T) {
		dir := t.TempDir()
		fs := NewFileStorage(path.Join(dir, "vars.json"))

		err := fs.Save(context.Background(), &testModel{Version: 1})
		require.NoError(t, err)
		err = fs.Save(context.Background(), &testModel{Version: 2})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "vars.json", entries[0].Name())
	})

	t.Run("errors on invalid content", func(t *testing.T) {
		fpath := path.Join(t.TempDir(), "vars.json")
		err := os.WriteFile(fpath, []byte("not json"), 0644)
		require.NoError(t, err)

		var model testModel
		err = NewFileStorage(fpath).Load(context.Background(), &model)
		assert.Error(t, err)
	})
}
