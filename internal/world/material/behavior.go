package material

import (
	"github.com/annel0/wanderer/internal/vec"
)

// Behavior определяет правила копания, размещения и подбора для материала
type Behavior interface {
	Kind() Kind

	// Dig применяет копание к тайлу st в слое layer.
	// false означает, что действие заблокировано.
	Dig(t Terrain, layer string, pos vec.Vec2, st State) bool

	// Place применяет предмет к тайлу st. Если тайла не было,
	// st будет свежим тайлом материала предмета с маской 0 и synthesized == true.
	Place(t Terrain, layer string, pos vec.Vec2, st State, item Item, synthesized bool) bool

	// PickUp забирает часть тайла и возвращает описывающий предмет.
	PickUp(t Terrain, layer string, pos vec.Vec2, st State) (Item, bool)
}
