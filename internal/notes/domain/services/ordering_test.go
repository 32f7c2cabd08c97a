package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blocknote/internal/notes/domain/services"
)

func TestAppendOrder(t *testing.T) {
	assert.Equal(t, 1000.0, services.AppendOrder(nil))

	last := 2500.0
	assert.Equal(t, 3500.0, services.AppendOrder(&last))
}

func TestMidpointOrder(t *testing.T) {
	next := 2000.0
	mid, err := services.MidpointOrder(1000, &next)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, mid)

	mid, err = services.MidpointOrder(3000, nil)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, mid)

	tight := 1000 + 1e-7
	_, err = services.MidpointOrder(1000, &tight)
	require.ErrorIs(t, err, services.ErrOrderExhausted)
}

func TestMidpointOrder_RepeatedInsertsStayBetween(t *testing.T) {
	prev, next := 1000.0, 2000.0
	for i := 0; i < 30; i++ {
		mid, err := services.MidpointOrder(prev, &next)
		require.NoError(t, err)
		require.Greater(t, mid, prev)
		require.Less(t, mid, next)
		next = mid
	}
}

func TestRenormalize(t *testing.T) {
	assert.Equal(t, []float64{1000, 2000, 3000}, services.Renormalize(3))
	assert.Empty(t, services.Renormalize(0))
}
