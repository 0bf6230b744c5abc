package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrostDepth(t *testing.T) {
	t.Run("reference soil", func(t *testing.T) {
		x, err := FrostDepth(0.9, 0.8, 2700, 2592)
		require.NoError(t, err)
		assert.InDelta(t, 5.7, x, 1e-12)
	})

	t.Run("zero index gives zero depth", func(t *testing.T) {
		x, err := FrostDepth(1, 0.8, 0, 2592)
		require.NoError(t, err)
		assert.Zero(t, x)
	})

	t.Run("zero latent heat", func(t *testing.T) {
		_, err := FrostDepth(0.9, 0.8, 2700, 0)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindDomain))
		assert.Contains(t, err.Error(), "frost_depth")
	})

	t.Run("negative radicand", func(t *testing.T) {
		_, err := FrostDepth(0.9, -0.8, 2700, 2592)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindDomain))
	})
}
