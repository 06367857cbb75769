package implementations

import (
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
)

// WaterBehavior реализует поведение воды
type WaterBehavior struct{}

// Kind возвращает материал
func (b *WaterBehavior) Kind() material.Kind {
	return material.Water
}

// Dig: воду нельзя копать
func (b *WaterBehavior) Dig(t material.Terrain, layer string, pos vec.Vec2, st material.State) bool {
	return false
}

// Place доливает воду. Полностью соединённая вода затапливает траву под собой.
func (b *WaterBehavior) Place(t material.Terrain, layer string, pos vec.Vec2, st material.State, item material.Item, synthesized bool) bool {
	if item.Kind != material.Water {
		return false
	}
	if !synthesized && material.Saturated(st) && st.Connected() {
		return false
	}

	next := material.Grow(st, 1)
	t.Put(layer, pos, next)

	if next.Connected() {
		if _, grass := t.Tile(material.LayerGrass, pos); grass {
			t.Clear(material.LayerGrass, pos)
		}
	}
	return true
}

// PickUp зачерпывает воду
func (b *WaterBehavior) PickUp(t material.Terrain, layer string, pos vec.Vec2, st material.State) (material.Item, bool) {
	t.Put(layer, pos, material.Deteriorate(st, 1))
	return material.ItemFrom(material.Water, material.Water), true
}
