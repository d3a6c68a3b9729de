package command

import (
	"bytes"
	"context"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergomake/envform/pkg/data"
)

func TestRender_Run(t *testing.T) {
	ctx := context.Background()
	b := exportBackend(&data.EnvVar{Name: "HOST", Value: "db.internal"}, &data.EnvVar{Name: "PORT", Value: "5432"})

	t.Run("renders variables", func(t *testing.T) {
		tpl := path.Join(t.TempDir(), "conn.mustache")
		require.NoError(t, os.WriteFile(tpl, []byte("postgres://{{HOST}}:{{PORT}}/app"), 0644))

		var out bytes.Buffer
		err := NewRender(b).Run(ctx, &out, "p", "dev", tpl)
		require.NoError(t, err)
		assert.Equal(t, "postgres://db.internal:5432/app", out.String())
	})

	t.Run("fails on missing variables", func(t *testing.T) {
		tpl := path.Join(t.TempDir(), "conn.mustache")
		require.NoError(t, os.WriteFile(tpl, []byte("{{USER}}@{{HOST}}"), 0644))

		err := NewRender(b).Run(ctx, &bytes.Buffer{}, "p", "dev", tpl)
		assert.Error(t, err)
	})
}
