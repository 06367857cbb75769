package implementations

import (
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
)

// HoleBehavior реализует яму. Здоровье ямы означает её глубину:
// копание углубляет яму до максимума, засыпка землёй уменьшает.
type HoleBehavior struct{}

// Kind возвращает материал
func (b *HoleBehavior) Kind() material.Kind {
	return material.Hole
}

// Dig углубляет яму. Насыщенная яма не меняется.
func (b *HoleBehavior) Dig(t material.Terrain, layer string, pos vec.Vec2, st material.State) bool {
	if material.Saturated(st) {
		return false
	}
	t.Put(layer, pos, material.Grow(st, material.PropertiesOf(material.Hole).DigAmount))
	return true
}

// Place засыпает яму землёй; пустая яма исчезает
func (b *HoleBehavior) Place(t material.Terrain, layer string, pos vec.Vec2, st material.State, item material.Item, synthesized bool) bool {
	if synthesized || item.Kind != material.Dirt {
		return false
	}

	next := material.Deteriorate(st, 1)
	if next.Health <= material.PropertiesOf(material.Hole).MinHealth {
		t.Clear(layer, pos)
		return true
	}
	t.Put(layer, pos, next)
	return true
}

// PickUp углубляет яму и отдаёт выкопанную землю
func (b *HoleBehavior) PickUp(t material.Terrain, layer string, pos vec.Vec2, st material.State) (material.Item, bool) {
	if material.Saturated(st) {
		return material.Item{}, false
	}
	t.Put(layer, pos, material.Grow(st, 1))
	return dirtItem(material.Hole), true
}
