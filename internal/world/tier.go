package world

import (
	"image"

	"github.com/annel0/wanderer/internal/vec"
	"golang.org/x/image/draw"
)

// Tier объединяет упорядоченные слои одного уровня высоты и
// композит их изображения снизу вверх.
type Tier struct {
	name     string
	tileSize int
	layers   []*Layer
	byName   map[string]int
	image    *image.RGBA
}

// NewTier создаёт уровень со слоями layerNames в порядке снизу вверх
func NewTier(name string, layerNames []string, width, height, tileSize int, atlases *AtlasSet) *Tier {
	t := &Tier{
		name:     name,
		tileSize: tileSize,
		byName:   make(map[string]int, len(layerNames)),
		image:    image.NewRGBA(image.Rect(0, 0, width*tileSize, height*tileSize)),
	}
	for i, ln := range layerNames {
		t.layers = append(t.layers, NewLayer(ln, width, height, tileSize, atlases))
		t.byName[ln] = i
	}
	return t
}

// Name возвращает имя уровня
func (t *Tier) Name() string {
	return t.name
}

// Layers возвращает слои снизу вверх
func (t *Tier) Layers() []*Layer {
	return t.layers
}

// Layer возвращает слой по имени
func (t *Tier) Layer(name string) (*Layer, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.layers[i], true
}

// Image возвращает композит слоёв уровня
func (t *Tier) Image() *image.RGBA {
	return t.image
}

// Occupied возвращает true, если в клетке есть тайл хотя бы в одном слое.
// Тайлы, помеченные на удаление, не учитываются.
func (t *Tier) Occupied(pos vec.Vec2) bool {
	for _, l := range t.layers {
		if _, ok := l.liveTile(pos); ok {
			return true
		}
	}
	return false
}

// TopTile возвращает самый верхний тайл уровня в клетке
func (t *Tier) TopTile(pos vec.Vec2) (*Layer, *Tile, bool) {
	for i := len(t.layers) - 1; i >= 0; i-- {
		if tile, ok := t.layers[i].liveTile(pos); ok {
			return t.layers[i], tile, true
		}
	}
	return nil, nil, false
}

// Reachable возвращает true, если выше слоя layer в клетке нет тайлов
func (t *Tier) Reachable(layer string, pos vec.Vec2) bool {
	i, ok := t.byName[layer]
	if !ok {
		return false
	}
	for _, above := range t.layers[i+1:] {
		if _, ok := above.liveTile(pos); ok {
			return false
		}
	}
	return true
}

// Update обновляет каждый слой до покоя и перекомпоновывает изменённые клетки
func (t *Tier) Update() []vec.Vec2 {
	changed := make(map[vec.Vec2]struct{})
	for _, l := range t.layers {
		for l.Update() {
		}
		for _, pos := range l.takeChanged() {
			changed[pos] = struct{}{}
		}
	}

	cells := sortedPositions(changed)
	for _, pos := range cells {
		t.recompose(pos)
	}
	return cells
}

func (t *Tier) recompose(pos vec.Vec2) {
	x, y := pos.Pixels(t.tileSize)
	r := image.Rect(x, y, x+t.tileSize, y+t.tileSize)
	draw.Draw(t.image, r, image.Transparent, image.Point{}, draw.Src)
	for _, l := range t.layers {
		draw.Draw(t.image, r, l.Image(), r.Min, draw.Over)
	}
}
