package implementations

import (
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
)

// DirtBehavior реализует поведение базового слоя земли.
// Сама земля бессмертна: копание открывает над ней яму.
type DirtBehavior struct{}

// Kind возвращает материал
func (b *DirtBehavior) Kind() material.Kind {
	return material.Dirt
}

// Dig открывает яму глубины 1 над землёй
func (b *DirtBehavior) Dig(t material.Terrain, layer string, pos vec.Vec2, st material.State) bool {
	return openHole(t, pos)
}

// Place чинит землю в её собственном слое
func (b *DirtBehavior) Place(t material.Terrain, layer string, pos vec.Vec2, st material.State, item material.Item, synthesized bool) bool {
	// Земля без ямы: засыпать нечего
	if layer != material.LayerDirt || item.Kind != material.Dirt {
		return false
	}
	if !synthesized && material.Saturated(st) {
		return false
	}
	t.Put(layer, pos, material.Grow(st, 1))
	return true
}

// PickUp выкапывает землю, оставляя яму
func (b *DirtBehavior) PickUp(t material.Terrain, layer string, pos vec.Vec2, st material.State) (material.Item, bool) {
	if !openHole(t, pos) {
		return material.Item{}, false
	}
	return dirtItem(material.Dirt), true
}

func openHole(t material.Terrain, pos vec.Vec2) bool {
	if !t.Reachable(material.LayerHole, pos) {
		return false
	}
	if _, exists := t.Tile(material.LayerHole, pos); exists {
		return false
	}
	t.Put(material.LayerHole, pos, material.NewState(material.Hole, material.MaskNone, 1))
	return true
}
