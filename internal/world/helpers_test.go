package world

import (
	"image"
	"testing"

	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
	_ "github.com/annel0/wanderer/internal/world/material/implementations"
	"github.com/stretchr/testify/require"
)

const testTileSize = 8

func newTestMap(t *testing.T, width, height int) *Map {
	t.Helper()
	opts := DefaultOptions()
	opts.Width = width
	opts.Height = height
	opts.TileSize = testTileSize
	m, err := NewMap(opts, GenerateAtlasSet(testTileSize))
	require.NoError(t, err)
	return m
}

func mustLayer(t *testing.T, m *Map, name string) *Layer {
	t.Helper()
	l, ok := m.Tiers()[0].Layer(name)
	require.True(t, ok, "layer %s", name)
	return l
}

// center возвращает пиксель в середине клетки
func center(x, y int) (int, int) {
	return x*testTileSize + testTileSize/2, y*testTileSize + testTileSize/2
}

// assertMaskSymmetry проверяет, что общие вершины соседних тайлов согласованы
func assertMaskSymmetry(t *testing.T, m *Map) {
	t.Helper()
	for _, tier := range m.Tiers() {
		for _, l := range tier.Layers() {
			l.Each(func(pos vec.Vec2, tile *Tile) {
				require.False(t, tile.Dirty(), "%s %v still dirty", l.Name(), pos)
				require.False(t, tile.Fringe && tile.Mask == material.MaskNone,
					"%s %v empty fringe tile", l.Name(), pos)
				for _, d := range Directions() {
					npos := pos.Add(d.Offset())
					if !l.InBounds(npos) {
						continue
					}
					want := d.Carry(tile.Mask)
					n, ok := l.Tile(npos)
					if !ok {
						require.Equal(t, material.MaskNone, want,
							"%s %v -> %s: neighbour missing", l.Name(), pos, d)
						continue
					}
					if n.Kind != tile.Kind {
						continue
					}
					require.Equal(t, want, n.Mask&d.Reciprocal(),
						"%s %v -> %s: mask %04b vs %04b", l.Name(), pos, d, tile.Mask, n.Mask)
				}
			})
		}
	}
}

func cellImage(img *image.RGBA, x, y int) []uint8 {
	r := image.Rect(x*testTileSize, y*testTileSize, (x+1)*testTileSize, (y+1)*testTileSize)
	sub := img.SubImage(r).(*image.RGBA)
	out := make([]uint8, 0, testTileSize*testTileSize*4)
	for row := r.Min.Y; row < r.Max.Y; row++ {
		i := sub.PixOffset(r.Min.X, row)
		out = append(out, sub.Pix[i:i+testTileSize*4]...)
	}
	return out
}

func variantPixels(img image.Image) []uint8 {
	rgba := image.NewRGBA(image.Rect(0, 0, testTileSize, testTileSize))
	for y := 0; y < testTileSize; y++ {
		for x := 0; x < testTileSize; x++ {
			rgba.Set(x, y, img.At(img.Bounds().Min.X+x, img.Bounds().Min.Y+y))
		}
	}
	return rgba.Pix
}
