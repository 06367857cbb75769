package world

import (
	"image"

	"github.com/annel0/wanderer/internal/world/material"
)

// Tile представляет состояние одной клетки слоя.
// Поля State меняются только через Layer.Put/SetTile, которые
// одновременно ставят отметку dirty.
type Tile struct {
	material.State

	dirty bool // визуал и маска ходьбы устарели
	kill  bool // удалить на следующем обновлении
}

// NewTile создаёт тайл с состоянием st
func NewTile(st material.State) *Tile {
	return &Tile{State: st}
}

// newFringe создаёт пустой краевой тайл для распространения маски
func newFringe(k material.Kind) *Tile {
	st := material.NewState(k, material.MaskNone, material.PropertiesOf(k).FringeHealth)
	st.Fringe = true
	return &Tile{State: st}
}

// Dirty возвращает true, если тайл ждёт перерисовки
func (t *Tile) Dirty() bool {
	return t.dirty
}

// Doomed возвращает true, если тайл будет удалён на следующем обновлении
func (t *Tile) Doomed() bool {
	return t.kill
}

// Image возвращает текущее изображение тайла из атласа его материала
func (t *Tile) Image(atlases *AtlasSet) image.Image {
	return atlases.MustGet(t.Kind).Variant(t.Mask, t.Health)
}
