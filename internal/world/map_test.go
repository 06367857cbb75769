package world

import (
	"image"
	"image/color"
	"testing"

	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	actions map[string]int
	failed  int
	redrawn int
}

func (o *recordingObserver) Action(action string, kind material.Kind, ok bool) {
	if o.actions == nil {
		o.actions = make(map[string]int)
	}
	o.actions[action+":"+kind.String()]++
	if !ok {
		o.failed++
	}
}

func (o *recordingObserver) Redrawn(cells int) {
	o.redrawn += cells
}

func TestNewMapValidatesOptions(t *testing.T) {
	atlases := GenerateAtlasSet(testTileSize)

	opts := DefaultOptions()
	opts.TileSize = testTileSize
	opts.Width = 0
	_, err := NewMap(opts, atlases)
	assert.Error(t, err)

	opts = DefaultOptions()
	_, err = NewMap(opts, atlases)
	assert.Error(t, err, "tile size differs from atlases")

	opts.TileSize = testTileSize
	opts.Tiers = nil
	_, err = NewMap(opts, atlases)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.TileSize = testTileSize
	opts.Width, opts.Height = 1<<40, 1<<40
	_, err = NewMap(opts, atlases)
	assert.Error(t, err, "size must not reach the image allocator")

	a := newTestMap(t, 2, 2)
	b := newTestMap(t, 2, 2)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestGrassDigDisconnectsThenRemoves(t *testing.T) {
	m := newTestMap(t, 10, 10)
	grass := mustLayer(t, m, material.LayerGrass)
	grass.Fill(image.Rect(3, 3, 8, 8), material.Grass)
	m.Update()

	pos := vec.Vec2{X: 5, Y: 5}
	px, py := center(pos.X, pos.Y)
	health := 3.0
	for dig := 1; dig <= 3; dig++ {
		require.True(t, m.Dig(px, py), "dig %d", dig)
		m.Update()

		tile, ok := grass.Tile(pos)
		require.True(t, ok, "dig %d: tile still exists", dig)
		assert.Equal(t, material.MaskNone, tile.Mask, "dig %d", dig)
		assert.Less(t, tile.Health, health, "dig %d: health only goes down", dig)
		health = tile.Health
	}
	assert.Equal(t, 0.0, health)

	require.True(t, m.Dig(px, py))
	m.Update()
	_, ok := grass.Tile(pos)
	assert.False(t, ok, "removed once health reached its minimum")
	assertMaskSymmetry(t, m)
}

func TestWaterFloodsGrass(t *testing.T) {
	m := newTestMap(t, 10, 10)
	grass := mustLayer(t, m, material.LayerGrass)
	water := mustLayer(t, m, material.LayerWater)
	grass.Fill(image.Rect(2, 2, 8, 8), material.Grass)
	m.Update()

	pos := vec.Vec2{X: 5, Y: 5}
	px, py := center(pos.X, pos.Y)
	for i := 0; i < 10; i++ {
		require.True(t, m.Place(px, py, material.NewItem(material.Water)))
		m.Update()
		if tile, _ := water.Tile(pos); tile.Mask == material.MaskFull {
			break
		}
	}

	tile, ok := water.Tile(pos)
	require.True(t, ok)
	assert.Equal(t, material.MaskFull, tile.Mask)
	_, ok = grass.Tile(pos)
	assert.False(t, ok, "grass under connected water is gone")
	assertMaskSymmetry(t, m)
}

func TestDigDirtOpensHoleAndFillBack(t *testing.T) {
	m := newTestMap(t, 6, 6)
	dirt := mustLayer(t, m, material.LayerDirt)
	hole := mustLayer(t, m, material.LayerHole)
	dirt.Fill(image.Rect(0, 0, 6, 6), material.Dirt)
	m.Update()

	px, py := center(2, 2)
	pos := vec.Vec2{X: 2, Y: 2}

	require.True(t, m.Dig(px, py))
	m.Update()
	h, ok := hole.Tile(pos)
	require.True(t, ok)
	assert.Equal(t, 1.0, h.Health)

	item, ok := m.PickUp(px, py)
	require.True(t, ok)
	assert.Equal(t, material.Dirt, item.Kind)
	require.NotNil(t, item.Source)
	assert.Equal(t, material.Hole, *item.Source)
	m.Update()
	h, _ = hole.Tile(pos)
	assert.Equal(t, 2.0, h.Health)

	require.True(t, m.Place(px, py, item))
	m.Update()
	require.True(t, m.Place(px, py, item))
	m.Update()
	_, ok = hole.Tile(pos)
	assert.False(t, ok, "filled hole is removed")

	_, ok = dirt.Tile(pos)
	assert.True(t, ok, "dirt is immortal")
}

func TestPlaceRejectsUnreachableLayer(t *testing.T) {
	m := newTestMap(t, 4, 4)
	items := mustLayer(t, m, material.LayerItems)
	items.Put(vec.Vec2{X: 1, Y: 1}, material.NewState(material.Rock, material.MaskNone, 1))
	m.Update()

	obs := &recordingObserver{}
	m.SetObserver(obs)

	px, py := center(1, 1)
	assert.False(t, m.Place(px, py, material.NewItem(material.Grass)))
	assert.Equal(t, 1, obs.failed)

	_, ok := mustLayer(t, m, material.LayerGrass).Tile(vec.Vec2{X: 1, Y: 1})
	assert.False(t, ok, "failed placement leaves no synthesized tile")
}

func TestPlaceOutsideWorld(t *testing.T) {
	m := newTestMap(t, 4, 4)
	assert.False(t, m.Place(-1, 3, material.NewItem(material.Grass)))
	assert.False(t, m.Place(4*testTileSize, 0, material.NewItem(material.Grass)))
	assert.False(t, m.Dig(-5, -5))
	_, ok := m.PickUp(1000, 1000)
	assert.False(t, ok)
}

func TestRockPickUpAndPlace(t *testing.T) {
	m := newTestMap(t, 4, 4)
	mustLayer(t, m, material.LayerDirt).Fill(image.Rect(0, 0, 4, 4), material.Dirt)
	m.Update()

	px, py := center(2, 1)
	require.True(t, m.Place(px, py, material.NewItem(material.Rock)))
	m.Update()
	assert.False(t, m.WalkableAt(px, py))
	assert.False(t, m.Dig(px, py), "rock cannot be dug")

	item, ok := m.PickUp(px, py)
	require.True(t, ok)
	assert.Equal(t, material.Rock, item.Kind)
	m.Update()
	assert.True(t, m.WalkableAt(px, py))
}

func TestRemovedTileIgnoredBeforeUpdate(t *testing.T) {
	m := newTestMap(t, 4, 4)
	items := mustLayer(t, m, material.LayerItems)
	grass := mustLayer(t, m, material.LayerGrass)
	items.Put(vec.Vec2{X: 2, Y: 2}, material.NewState(material.Rock, material.MaskNone, 1))
	grass.Put(vec.Vec2{X: 0, Y: 0}, material.NewState(material.Grass, material.MaskNone, 0))
	m.Update()

	// Камень подбирается один раз, даже без Update между вызовами
	rx, ry := center(2, 2)
	rocks := 0
	for i := 0; i < 3; i++ {
		if item, ok := m.PickUp(rx, ry); ok && item.Kind == material.Rock {
			rocks++
		}
	}
	assert.Equal(t, 1, rocks)
	assert.False(t, m.Dig(rx, ry), "cell is empty until the next update")

	gx, gy := center(0, 0)
	blades := 0
	for i := 0; i < 5; i++ {
		if item, ok := m.PickUp(gx, gy); ok && item.Kind == material.Grass {
			blades++
		}
	}
	assert.Equal(t, 1, blades, "grass at health 0 yields one item before removal")

	m.Update()
	_, ok := items.Tile(vec.Vec2{X: 2, Y: 2})
	assert.False(t, ok)
	_, ok = grass.Tile(vec.Vec2{X: 0, Y: 0})
	assert.False(t, ok)
}

func TestFilledHoleRejectsDirtBeforeUpdate(t *testing.T) {
	m := newTestMap(t, 4, 4)
	mustLayer(t, m, material.LayerDirt).Fill(image.Rect(0, 0, 4, 4), material.Dirt)
	m.Update()

	px, py := center(1, 1)
	require.True(t, m.Dig(px, py))
	m.Update()

	obs := &recordingObserver{}
	m.SetObserver(obs)
	fill := material.ItemFrom(material.Dirt, material.Hole)
	fill.TargetLayer = material.LayerHole
	require.True(t, m.Place(px, py, fill), "depth 1 hole is filled")
	assert.False(t, m.Place(px, py, fill), "filled hole does not take more dirt")
	assert.Equal(t, 1, obs.failed)

	m.Update()
	_, ok := mustLayer(t, m, material.LayerHole).Tile(vec.Vec2{X: 1, Y: 1})
	assert.False(t, ok)
}

func TestPlaceHeldConsumesItem(t *testing.T) {
	m := newTestMap(t, 4, 4)
	mustLayer(t, m, material.LayerDirt).Fill(image.Rect(0, 0, 4, 4), material.Dirt)
	m.Update()

	var hand material.Hand
	px, py := center(1, 1)
	assert.False(t, m.PlaceHeld(px, py, &hand), "empty hand places nothing")

	hand.Hold(material.NewItem(material.Rock))
	require.True(t, m.PlaceHeld(px, py, &hand))
	_, ok := hand.Item()
	assert.False(t, ok, "placed item leaves the hand")

	m.Update()
	cx, cy := center(2, 2)
	assert.False(t, m.PlaceHeld(cx, cy, &hand), "nothing left to place")

	// Неудачное размещение оставляет предмет в руке: клетку занимает камень
	hand.Hold(material.NewItem(material.Grass))
	assert.False(t, m.PlaceHeld(px, py, &hand))
	item, ok := hand.Item()
	require.True(t, ok)
	assert.Equal(t, material.Grass, item.Kind)
}

func TestObserverSeesActions(t *testing.T) {
	m := newTestMap(t, 4, 4)
	obs := &recordingObserver{}
	m.SetObserver(obs)

	mustLayer(t, m, material.LayerDirt).Fill(image.Rect(0, 0, 4, 4), material.Dirt)
	m.Update()
	assert.Equal(t, 16, obs.redrawn)

	px, py := center(1, 1)
	m.Dig(px, py)
	m.PickUp(px, py)
	m.Place(px, py, material.NewItem(material.Water))
	assert.Equal(t, 1, obs.actions["dig:dirt"])
	assert.Equal(t, 1, obs.actions["pickup:hole"])
	assert.Equal(t, 1, obs.actions["place:water"])
}

func TestWalkability(t *testing.T) {
	m := newTestMap(t, 6, 6)
	m.Update()
	assert.False(t, m.WalkableAt(1, 1), "void blocks")

	mustLayer(t, m, material.LayerDirt).Fill(image.Rect(0, 0, 6, 6), material.Dirt)
	m.Update()
	for y := 0; y < 6*testTileSize; y += 3 {
		for x := 0; x < 6*testTileSize; x += 3 {
			require.True(t, m.WalkableAt(x, y), "(%d,%d)", x, y)
		}
	}
	assert.False(t, m.WalkableAt(-1, 0))
	assert.False(t, m.WalkableAt(0, 6*testTileSize))

	// Яма глубины 1 блокирует только непрозрачный центр
	px, py := center(3, 3)
	require.True(t, m.Dig(px, py))
	m.Update()
	assert.False(t, m.WalkableAt(px, py))
	assert.True(t, m.WalkableAt(3*testTileSize, 3*testTileSize))

	assert.True(t, m.WalkableRect(image.Rect(0, 0, testTileSize, testTileSize)))
	assert.False(t, m.WalkableRect(image.Rect(px-4, py-4, px+1, py+1)))
	assert.False(t, m.WalkableRect(image.Rectangle{}))
}

func TestWalkableForSprite(t *testing.T) {
	m := newTestMap(t, 4, 4)
	mustLayer(t, m, material.LayerDirt).Fill(image.Rect(0, 0, 4, 4), material.Dirt)
	m.Update()

	sprite := image.NewRGBA(image.Rect(0, 0, 4, 4))
	sprite.Set(1, 1, color.RGBA{0xff, 0, 0, 0xff})

	assert.True(t, m.WalkableFor(sprite, image.Rect(0, 0, 4, 4)))
	assert.True(t, m.WalkableFor(sprite, image.Rect(-1, -1, 3, 3)), "only opaque pixels count")
	assert.False(t, m.WalkableFor(sprite, image.Rect(-2, -2, 2, 2)), "opaque pixel outside the world")

	items := mustLayer(t, m, material.LayerItems)
	items.Put(vec.Vec2{X: 1, Y: 1}, material.NewState(material.Rock, material.MaskNone, 1))
	m.Update()
	assert.False(t, m.WalkableFor(sprite, image.Rect(testTileSize, testTileSize, testTileSize+4, testTileSize+4)))
	assert.True(t, m.WalkableFor(sprite, image.Rect(testTileSize-2, testTileSize-2, testTileSize+2, testTileSize+2)))
}

func TestStencilCacheCoherence(t *testing.T) {
	m := newTestMap(t, 8, 8)
	mustLayer(t, m, material.LayerDirt).Fill(image.Rect(0, 0, 8, 8), material.Dirt)
	mustLayer(t, m, material.LayerWater).Fill(image.Rect(2, 2, 5, 5), material.Water)
	m.Update()

	for _, c := range [][2]int{{1, 1}, {6, 6}, {3, 6}} {
		px, py := center(c[0], c[1])
		m.Dig(px, py)
		m.Dig(px, py)
	}
	rx, ry := center(6, 1)
	m.Place(rx, ry, material.NewItem(material.Rock))
	m.Update()

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pos := vec.Vec2{X: x, Y: y}
			fresh := m.buildStencil(pos)
			assert.Equal(t, fresh.Pix, m.Stencil(pos).Pix, "%v cached", pos)

			r := m.cellRect(pos)
			for py := 0; py < testTileSize; py++ {
				for px := 0; px < testTileSize; px++ {
					require.Equal(t, fresh.AlphaAt(px, py).A, m.WalkMask().AlphaAt(r.Min.X+px, r.Min.Y+py).A)
				}
			}
		}
	}
}

func TestTakeDamage(t *testing.T) {
	m := newTestMap(t, 4, 4)
	assert.Empty(t, m.TakeDamage())

	mustLayer(t, m, material.LayerGrass).Put(vec.Vec2{X: 0, Y: 0}, material.NewState(material.Grass, material.MaskNone, 1))
	m.Update()

	d := m.TakeDamage()
	require.Len(t, d, 1)
	assert.Equal(t, image.Rect(0, 0, testTileSize, testTileSize), d[0])
	assert.Empty(t, m.TakeDamage())
}

func TestTopTierPrefersHigherTier(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height, opts.TileSize = 4, 4, testTileSize
	opts.Tiers = []string{"ground", "upper"}
	m, err := NewMap(opts, GenerateAtlasSet(testTileSize))
	require.NoError(t, err)

	ground, _ := m.Tier("ground")
	upper, _ := m.Tier("upper")
	gd, _ := ground.Layer(material.LayerDirt)
	ud, _ := upper.Layer(material.LayerGrass)
	gd.Fill(image.Rect(0, 0, 4, 4), material.Dirt)
	ud.Put(vec.Vec2{X: 1, Y: 1}, material.NewState(material.Grass, material.MaskNone, 1))
	m.Update()

	tier, ok := m.TopTier(vec.Vec2{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, "upper", tier.Name())

	tier, _ = m.TopTier(vec.Vec2{X: 2, Y: 2})
	assert.Equal(t, "ground", tier.Name())

	_, ok = m.TopTier(vec.Vec2{X: 9, Y: 9})
	assert.False(t, ok)
}
