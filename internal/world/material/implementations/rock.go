package implementations

import (
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
)

// RockBehavior реализует переносимый камень в слое предметов
type RockBehavior struct{}

// Kind возвращает материал
func (b *RockBehavior) Kind() material.Kind {
	return material.Rock
}

// Dig: камень нельзя копать
func (b *RockBehavior) Dig(t material.Terrain, layer string, pos vec.Vec2, st material.State) bool {
	return false
}

// Place кладёт камень на свободную клетку
func (b *RockBehavior) Place(t material.Terrain, layer string, pos vec.Vec2, st material.State, item material.Item, synthesized bool) bool {
	if !synthesized || item.Kind != material.Rock {
		return false
	}
	st.Health = material.PropertiesOf(material.Rock).MaxHealth
	t.Put(layer, pos, st)
	return true
}

// PickUp поднимает камень целиком
func (b *RockBehavior) PickUp(t material.Terrain, layer string, pos vec.Vec2, st material.State) (material.Item, bool) {
	t.Clear(layer, pos)
	return material.NewItem(material.Rock), true
}
