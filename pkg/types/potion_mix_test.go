package types

import (
	"testing"

	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPotionMixArithmetic(t *testing.T) {
	stock := PotionMix{1000, 250, 0, 40}
	recipe := PotionMix{50, 50, 0, 0}

	assert.Equal(t, 1290, stock.Total())
	assert.Equal(t, 3, stock.NonZero())
	assert.Equal(t, 5, stock.MaxBatches(recipe))
	assert.Equal(t, PotionMix{750, 0, 0, 40}, stock.Sub(recipe.Scale(5)))
	assert.Equal(t, PotionMix{-50, -50, 0, 0}, recipe.Negate())
	assert.True(t, stock.Covers(recipe.Scale(5)))
	assert.False(t, stock.Covers(recipe.Scale(6)))
	assert.Equal(t, 250, stock.Get(enums.ColorGreen))
}

func TestPotionMixMaxBatchesIgnoresUnusedColors(t *testing.T) {
	stock := PotionMix{0, 0, 300, 0}
	assert.Equal(t, 3, stock.MaxBatches(PotionMix{0, 0, 100, 0}))
	assert.Equal(t, 0, stock.MaxBatches(PotionMix{}))
	assert.Equal(t, 0, PotionMix{-10, 0, 300, 0}.MaxBatches(PotionMix{10, 0, 0, 0}))
}

func TestPotionMixValidateRecipe(t *testing.T) {
	require.NoError(t, PotionMix{25, 25, 25, 25}.ValidateRecipe())
	require.Error(t, PotionMix{50, 40, 0, 0}.ValidateRecipe())
	require.Error(t, PotionMix{150, -50, 0, 0}.ValidateRecipe())
}

func TestPotionMixOneHotColor(t *testing.T) {
	color, ok := PotionMix{0, 1, 0, 0}.OneHotColor()
	require.True(t, ok)
	assert.Equal(t, enums.ColorGreen, color)

	_, ok = PotionMix{1, 1, 0, 0}.OneHotColor()
	assert.False(t, ok)
	_, ok = PotionMix{}.OneHotColor()
	assert.False(t, ok)
}

func TestMixFromInts(t *testing.T) {
	mix, err := MixFromInts([]int64{0, 100, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, PotionMix{0, 100, 0, 0}, mix)
	assert.Equal(t, []int64{0, 100, 0, 0}, mix.Ints())

	_, err = MixFromInts([]int64{1, 2, 3})
	require.Error(t, err)
}
