package world

import (
	"image"
	"sort"

	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
	"golang.org/x/image/draw"
)

// Layer хранит разреженную сетку тайлов одного слоя и его изображение.
// Все изменения проходят через SetTile, который распространяет маску
// углов на 8 соседей и ставит отметку dirty.
type Layer struct {
	name     string
	width    int
	height   int
	tileSize int
	atlases  *AtlasSet

	tiles   map[vec.Vec2]*Tile
	dirty   map[vec.Vec2]struct{}
	changed map[vec.Vec2]struct{}
	image   *image.RGBA
}

// NewLayer создаёт пустой слой
func NewLayer(name string, width, height, tileSize int, atlases *AtlasSet) *Layer {
	return &Layer{
		name:     name,
		width:    width,
		height:   height,
		tileSize: tileSize,
		atlases:  atlases,
		tiles:    make(map[vec.Vec2]*Tile),
		dirty:    make(map[vec.Vec2]struct{}),
		changed:  make(map[vec.Vec2]struct{}),
		image:    image.NewRGBA(image.Rect(0, 0, width*tileSize, height*tileSize)),
	}
}

// Name возвращает имя слоя
func (l *Layer) Name() string {
	return l.name
}

// InBounds проверяет, что клетка лежит в пределах мира
func (l *Layer) InBounds(pos vec.Vec2) bool {
	return pos.In(l.width, l.height)
}

// Tile возвращает тайл в клетке
func (l *Layer) Tile(pos vec.Vec2) (*Tile, bool) {
	t, ok := l.tiles[pos]
	return t, ok
}

// liveTile возвращает тайл, если он не помечен на удаление
func (l *Layer) liveTile(pos vec.Vec2) (*Tile, bool) {
	t, ok := l.tiles[pos]
	if !ok || t.kill {
		return nil, false
	}
	return t, true
}

// Len возвращает количество тайлов в слое
func (l *Layer) Len() int {
	return len(l.tiles)
}

// Positions возвращает занятые клетки в порядке строк
func (l *Layer) Positions() []vec.Vec2 {
	return sortedPositions(l.tiles)
}

// Each обходит тайлы слоя в порядке строк
func (l *Layer) Each(fn func(pos vec.Vec2, t *Tile)) {
	for _, pos := range l.Positions() {
		fn(pos, l.tiles[pos])
	}
}

// Image возвращает изображение слоя
func (l *Layer) Image() *image.RGBA {
	return l.image
}

// HasDirty возвращает true, если есть клетки, ждущие обновления
func (l *Layer) HasDirty() bool {
	return len(l.dirty) > 0
}

// SetTile записывает тайл в клетку и распространяет его маску на соседей.
// tile == nil очищает клетку: маска обнуляется и распространяется,
// а сам тайл удаляется на следующем обновлении.
func (l *Layer) SetTile(pos vec.Vec2, tile *Tile) {
	if !l.InBounds(pos) {
		return
	}

	if tile == nil {
		existing, ok := l.tiles[pos]
		if !ok {
			return
		}
		existing.Mask = material.MaskNone
		existing.kill = true
		tile = existing
	} else {
		l.tiles[pos] = tile
	}

	l.propagate(pos, tile)
	l.markDirty(pos)
}

// Put записывает состояние в клетку. Состояние с исчерпанным здоровьем
// у смертного материала помечает тайл на удаление.
func (l *Layer) Put(pos vec.Vec2, st material.State) {
	if !l.InBounds(pos) {
		return
	}
	t, ok := l.tiles[pos]
	if !ok {
		t = &Tile{}
	}
	t.State = st
	t.kill = material.Dead(st)
	if t.kill {
		t.Mask = material.MaskNone
	}
	l.SetTile(pos, t)
}

// Clear удаляет тайл из клетки
func (l *Layer) Clear(pos vec.Vec2) {
	l.SetTile(pos, nil)
}

// Fill заполняет прямоугольник клеток [min, max) полностью соединёнными тайлами
func (l *Layer) Fill(r image.Rectangle, kind material.Kind) {
	props := material.PropertiesOf(kind)
	r = r.Intersect(image.Rect(0, 0, l.width, l.height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			l.Put(vec.Vec2{X: x, Y: y}, material.NewState(kind, material.MaskFull, props.MaxHealth))
		}
	}
}

// propagate переносит обращённые к соседям углы тайла на соседей того же
// материала. Отсутствующий сосед создаётся краевым тайлом, только если
// получает непустую маску.
func (l *Layer) propagate(pos vec.Vec2, placed *Tile) {
	for _, d := range Directions() {
		npos := pos.Add(d.Offset())
		if !l.InBounds(npos) {
			continue
		}

		neighbor, exists := l.tiles[npos]
		if exists && neighbor.Kind != placed.Kind {
			continue
		}
		if !exists {
			neighbor = newFringe(placed.Kind)
		}

		mask := neighbor.Mask&^d.Reciprocal() | d.Carry(placed.Mask)
		if mask == neighbor.Mask {
			continue
		}
		neighbor.Mask = mask
		if !exists {
			l.tiles[npos] = neighbor
		}
		l.markDirty(npos)
	}
}

func (l *Layer) markDirty(pos vec.Vec2) {
	l.dirty[pos] = struct{}{}
	if t, ok := l.tiles[pos]; ok {
		t.dirty = true
	}
}

// Update перерисовывает все клетки, отмеченные dirty, и удаляет
// помеченные и пустые краевые тайлы. Возвращает true, если была работа.
// Повторная запись тайла может пометить соседей, поэтому вызывающий
// повторяет Update до возврата false.
func (l *Layer) Update() bool {
	if len(l.dirty) == 0 {
		return false
	}

	batch := sortedPositions(l.dirty)
	l.dirty = make(map[vec.Vec2]struct{})

	for _, pos := range batch {
		l.eraseCell(pos)
		l.changed[pos] = struct{}{}

		t, ok := l.tiles[pos]
		if !ok {
			continue
		}
		t.dirty = false

		if t.kill || (t.Fringe && t.Mask == material.MaskNone) {
			delete(l.tiles, pos)
			continue
		}

		l.propagate(pos, t)
		l.paint(pos, t)
	}
	return true
}

// takeChanged возвращает и сбрасывает клетки, изменённые с прошлого вызова
func (l *Layer) takeChanged() []vec.Vec2 {
	out := sortedPositions(l.changed)
	l.changed = make(map[vec.Vec2]struct{})
	return out
}

func (l *Layer) cellRect(pos vec.Vec2) image.Rectangle {
	x, y := pos.Pixels(l.tileSize)
	return image.Rect(x, y, x+l.tileSize, y+l.tileSize)
}

func (l *Layer) eraseCell(pos vec.Vec2) {
	draw.Draw(l.image, l.cellRect(pos), image.Transparent, image.Point{}, draw.Src)
}

func (l *Layer) paint(pos vec.Vec2, t *Tile) {
	img := t.Image(l.atlases)
	draw.Draw(l.image, l.cellRect(pos), img, img.Bounds().Min, draw.Over)
}

func sortedPositions[V any](m map[vec.Vec2]V) []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(m))
	for pos := range m {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
