package implementations

import (
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
)

// GrassBehavior реализует поведение травы
type GrassBehavior struct{}

// Kind возвращает материал
func (b *GrassBehavior) Kind() material.Kind {
	return material.Grass
}

// Dig повреждает траву; ниже порога она отсоединяется, затем исчезает
func (b *GrassBehavior) Dig(t material.Terrain, layer string, pos vec.Vec2, st material.State) bool {
	t.Put(layer, pos, material.Deteriorate(st, material.PropertiesOf(material.Grass).DigAmount))
	return true
}

// Place сажает или подращивает траву. Над ямой трава не растёт.
func (b *GrassBehavior) Place(t material.Terrain, layer string, pos vec.Vec2, st material.State, item material.Item, synthesized bool) bool {
	if item.Kind != material.Grass {
		return false
	}
	if _, hole := t.Tile(material.LayerHole, pos); hole {
		return false
	}
	if !synthesized && material.Saturated(st) && st.Connected() {
		return false
	}
	t.Put(layer, pos, material.Grow(st, 1))
	return true
}

// PickUp срывает часть травы
func (b *GrassBehavior) PickUp(t material.Terrain, layer string, pos vec.Vec2, st material.State) (material.Item, bool) {
	t.Put(layer, pos, material.Deteriorate(st, 1))
	return material.ItemFrom(material.Grass, material.Grass), true
}
