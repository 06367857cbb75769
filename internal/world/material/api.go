package material

import (
	"github.com/annel0/wanderer/internal/vec"
)

// Terrain определяет интерфейс, через который правила материалов
// читают и изменяют ярус карты. Все изменения проходят через Put и Clear,
// которые сами помечают клетку грязной.
type Terrain interface {
	// Tile возвращает тайл слоя в клетке.
	Tile(layer string, pos vec.Vec2) (State, bool)

	// Put записывает состояние тайла и запускает распространение маски.
	Put(layer string, pos vec.Vec2, st State)

	// Clear удаляет тайл из слоя.
	Clear(layer string, pos vec.Vec2)

	// Reachable возвращает true, если ни один слой выше не занят в этой клетке.
	Reachable(layer string, pos vec.Vec2) bool
}
