package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergomake/envform/pkg/data"
)

func TestImport_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("passes params to backend", func(t *testing.T) {
		params := &data.ImportParams{
			Variables: data.RecordVariables(map[string]string{"A": "1"}),
			Override:  data.Bool(true),
		}
		b := &backendMock{}
		b.On("ImportVariables", ctx, "p", "dev", params).Return(nil)

		err := NewImport(b).Run(ctx, "p", "dev", params)
		require.NoError(t, err)
		b.AssertExpectations(t)
	})

	t.Run("rejects invalid variables", func(t *testing.T) {
		b := &backendMock{}

		err := NewImport(b).Run(ctx, "p", "dev", &data.ImportParams{})
		assert.ErrorIs(t, err, data.ErrInvalidVariables)
		b.AssertNotCalled(t, "ImportVariables")
	})
}
