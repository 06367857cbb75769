package implementations

import "github.com/annel0/wanderer/internal/world/material"

// Регистрируем все материалы при импорте пакета
func init() {
	material.Register(material.Dirt, &DirtBehavior{})
	material.Register(material.Hole, &HoleBehavior{})
	material.Register(material.Grass, &GrassBehavior{})
	material.Register(material.Water, &WaterBehavior{})
	material.Register(material.Rock, &RockBehavior{})
}

// dirtItem возвращает землю, которую можно засыпать обратно в яму
func dirtItem(source material.Kind) material.Item {
	item := material.ItemFrom(material.Dirt, source)
	item.TargetLayer = material.LayerHole
	return item
}
