package world

import (
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
)

// Имена действий для Observer
const (
	ActionDig    = "dig"
	ActionPlace  = "place"
	ActionPickUp = "pickup"
)

// tierTerrain даёт правилам материалов доступ к слоям одного уровня
type tierTerrain struct {
	tier *Tier
}

var _ material.Terrain = tierTerrain{}

func (t tierTerrain) Tile(layer string, pos vec.Vec2) (material.State, bool) {
	l, ok := t.tier.Layer(layer)
	if !ok {
		return material.State{}, false
	}
	tile, ok := l.liveTile(pos)
	if !ok {
		return material.State{}, false
	}
	return tile.State, true
}

func (t tierTerrain) Put(layer string, pos vec.Vec2, st material.State) {
	if l, ok := t.tier.Layer(layer); ok {
		l.Put(pos, st)
	}
}

func (t tierTerrain) Clear(layer string, pos vec.Vec2) {
	if l, ok := t.tier.Layer(layer); ok {
		l.Clear(pos)
	}
}

func (t tierTerrain) Reachable(layer string, pos vec.Vec2) bool {
	return t.tier.Reachable(layer, pos)
}

// Dig копает верхний тайл в пикселе (px, py)
func (m *Map) Dig(px, py int) bool {
	pos := vec.FromPixels(px, py, m.tileSize)
	tier, layer, tile, ok := m.TopTile(pos)
	if !ok {
		return false
	}
	b, ok := material.Get(tile.Kind)
	if !ok {
		return false
	}

	done := b.Dig(tierTerrain{tier}, layer.Name(), pos, tile.State)
	m.notify(ActionDig, tile.Kind, done)
	return done
}

// Place размещает предмет в пикселе (px, py). Если в целевом слое нет
// тайла, а слой не перекрыт сверху, создаётся пустой тайл материала
// предмета; он попадает в слой, только если правило материала
// сработало.
func (m *Map) Place(px, py int, item material.Item) bool {
	pos := vec.FromPixels(px, py, m.tileSize)
	if !m.InBounds(pos) || !item.Kind.Valid() {
		return false
	}

	tier, ok := m.TopTier(pos)
	if !ok {
		tier = m.tiers[0]
	}
	layer, ok := tier.Layer(item.Layer())
	if !ok {
		m.notify(ActionPlace, item.Kind, false)
		return false
	}

	var st material.State
	synthesized := false
	if tile, exists := layer.liveTile(pos); exists {
		st = tile.State
	} else {
		if !tier.Reachable(layer.Name(), pos) {
			m.notify(ActionPlace, item.Kind, false)
			return false
		}
		st = material.NewState(item.Kind, material.MaskNone, 0)
		synthesized = true
	}

	b, ok := material.Get(st.Kind)
	if !ok {
		return false
	}
	done := b.Place(tierTerrain{tier}, layer.Name(), pos, st, item, synthesized)
	m.notify(ActionPlace, item.Kind, done)
	return done
}

// PlaceHeld размещает предмет из руки и расходует его при успехе
func (m *Map) PlaceHeld(px, py int, hand *material.Hand) bool {
	item, ok := hand.Item()
	if !ok || !m.Place(px, py, item) {
		return false
	}
	hand.Take()
	return true
}

// PickUp подбирает материал верхнего тайла в пикселе (px, py)
func (m *Map) PickUp(px, py int) (material.Item, bool) {
	pos := vec.FromPixels(px, py, m.tileSize)
	tier, layer, tile, ok := m.TopTile(pos)
	if !ok {
		return material.Item{}, false
	}
	b, ok := material.Get(tile.Kind)
	if !ok {
		return material.Item{}, false
	}

	item, done := b.PickUp(tierTerrain{tier}, layer.Name(), pos, tile.State)
	m.notify(ActionPickUp, tile.Kind, done)
	return item, done
}
