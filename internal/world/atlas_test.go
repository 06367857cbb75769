package world

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/wanderer/internal/world/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alphaAt(img image.Image, x, y int) uint32 {
	b := img.Bounds()
	_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return a
}

func TestAtlasHealthAddressing(t *testing.T) {
	a := GenerateAtlas(material.Grass, testTileSize)
	require.Equal(t, generatedColumns, a.HealthVariants())

	assert.True(t, a.Variant(material.MaskFull, 0) == image.Image(a.health[0]))
	assert.True(t, a.Variant(material.MaskFull, 2.7) == image.Image(a.health[2]))
	assert.True(t, a.Variant(material.MaskNone, 1) == image.Image(a.health[1]))
	assert.True(t, a.Variant(material.MaskNone, -1) == image.Image(a.health[0]), "clamped low")
	assert.True(t, a.Variant(material.MaskNone, 99) == image.Image(a.health[generatedColumns-1]), "clamped high")
}

func TestAtlasMaskAddressing(t *testing.T) {
	a := GenerateAtlas(material.Water, testTileSize)
	half := testTileSize / 2

	nw := a.Variant(material.NW, 0)
	assert.NotZero(t, alphaAt(nw, 1, 1))
	assert.Zero(t, alphaAt(nw, half+1, half+1))
	assert.Zero(t, alphaAt(nw, half+1, 1))

	// Маска 14: все углы кроме NW
	notNW := a.Variant(material.MaskFull&^material.NW, 0)
	assert.Zero(t, alphaAt(notNW, 1, 1))
	assert.NotZero(t, alphaAt(notNW, half+1, 1))
	assert.NotZero(t, alphaAt(notNW, 1, half+1))
	assert.NotZero(t, alphaAt(notNW, half+1, half+1))

	for m := material.Mask(1); m < material.MaskFull; m++ {
		assert.NotPanics(t, func() { a.Variant(m, 0) }, "mask %d", m)
	}
}

func TestAtlasSynthesizedDiagonals(t *testing.T) {
	a := GenerateAtlas(material.Dirt, testTileSize)
	half := testTileSize / 2

	d := a.Variant(material.NW|material.SE, 0)
	assert.NotZero(t, alphaAt(d, 1, 1))
	assert.NotZero(t, alphaAt(d, half+1, half+1))
	assert.Zero(t, alphaAt(d, half+1, 1))
	assert.Zero(t, alphaAt(d, 1, half+1))

	d = a.Variant(material.NE|material.SW, 0)
	assert.Zero(t, alphaAt(d, 1, 1))
	assert.NotZero(t, alphaAt(d, half+1, 1))
	assert.NotZero(t, alphaAt(d, 1, half+1))
}

func TestAtlasInvalidKeyPanics(t *testing.T) {
	a := GenerateAtlas(material.Dirt, testTileSize)
	assert.Panics(t, func() { a.Variant(material.Mask(16), 0) })

	set := NewAtlasSet(testTileSize)
	assert.Panics(t, func() { set.MustGet(material.Rock) })
}

func TestNewAtlasRejectsBadSheet(t *testing.T) {
	_, err := NewAtlas(material.Dirt, image.NewRGBA(image.Rect(0, 0, 2*testTileSize, 6*testTileSize)), testTileSize)
	assert.Error(t, err)

	_, err = NewAtlas(material.Dirt, image.NewRGBA(image.Rect(0, 0, 3*testTileSize, 5*testTileSize)), testTileSize)
	assert.Error(t, err)

	_, err = NewAtlas(material.Dirt, GenerateSheet(material.Dirt, testTileSize), 0)
	assert.Error(t, err)
}

func TestAtlasSetRejectsTileSizeMismatch(t *testing.T) {
	set := NewAtlasSet(16)
	assert.Error(t, set.Add(GenerateAtlas(material.Dirt, testTileSize)))
}

func TestLoadAtlasAppliesColorKey(t *testing.T) {
	key := color.RGBA{0xff, 0x00, 0xff, 0xff}
	sheet := GenerateSheet(material.Rock, testTileSize)
	b := sheet.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if sheet.RGBAAt(x, y).A == 0 {
				sheet.SetRGBA(x, y, key)
			}
		}
	}

	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "rock.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, sheet))
	require.NoError(t, f.Close())

	a, err := LoadAtlas(filepath.Join(dir, "rock.png"), material.Rock, testTileSize, &key)
	require.NoError(t, err)

	nw := a.Variant(material.NW, 0)
	assert.NotZero(t, alphaAt(nw, 1, 1))
	assert.Zero(t, alphaAt(nw, testTileSize-1, testTileSize-1), "colour key is transparent")
}

func TestLoadAtlasSetFallback(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadAtlasSet(dir, testTileSize, nil, false)
	assert.Error(t, err)

	set, err := LoadAtlasSet(dir, testTileSize, nil, true)
	require.NoError(t, err)
	for _, k := range material.Kinds() {
		_, ok := set.Get(k)
		assert.True(t, ok, k.String())
	}
}
