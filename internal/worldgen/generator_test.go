package worldgen

import (
	"testing"

	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world"
	"github.com/annel0/wanderer/internal/world/material"
	_ "github.com/annel0/wanderer/internal/world/material/implementations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, seed int64) (*world.Map, Stats) {
	t.Helper()
	opts := world.DefaultOptions()
	opts.Width, opts.Height, opts.TileSize = 24, 18, 8
	m, err := world.NewMap(opts, world.GenerateAtlasSet(8))
	require.NoError(t, err)
	return m, New(seed).Generate(m)
}

func withoutID(doc map[string]any) map[string]any {
	delete(doc, "id")
	return doc
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, sa := generate(t, 1234)
	b, sb := generate(t, 1234)

	assert.Equal(t, sa, sb)
	assert.Equal(t, withoutID(a.Serialize()), withoutID(b.Serialize()))
	assert.Equal(t, a.Image().Pix, b.Image().Pix)
}

func TestGenerateCoversDirt(t *testing.T) {
	m, stats := generate(t, 7)
	dirt, ok := m.Tiers()[0].Layer(material.LayerDirt)
	require.True(t, ok)
	assert.Equal(t, m.Width()*m.Height(), dirt.Len())

	items, _ := m.Tiers()[0].Layer(material.LayerItems)
	assert.Equal(t, stats.Rocks, items.Len())

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			tile, ok := dirt.Tile(vec.Vec2{X: x, Y: y})
			require.True(t, ok)
			assert.Equal(t, material.MaskFull, tile.Mask)
		}
	}
}

func TestNoiseRange(t *testing.T) {
	n := NewNoise(99)
	for i := 0; i < 200; i++ {
		v := n.At(float64(i)*0.37, float64(i)*0.11)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, NewNoise(5).At(1.3, 2.7), NewNoise(5).At(1.3, 2.7))
}
