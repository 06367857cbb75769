package world

import (
	"fmt"
	"image"

	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// Значения маски ходьбы
const (
	walkClear    = 0x00
	walkBlocking = 0xFF
)

// Пределы размеров карты. Все изображения слоёв выделяются целиком,
// поэтому площадь в пикселях ограничена.
const (
	MaxMapSide   = 4096
	MaxTileSize  = 256
	MaxMapPixels = 1 << 24
)

// Observer получает события мира. Используется для метрик.
type Observer interface {
	Action(action string, kind material.Kind, ok bool)
	Redrawn(cells int)
}

// Options задаёт размеры и структуру карты
type Options struct {
	Width    int
	Height   int
	TileSize int
	Tiers    []string // имена уровней снизу вверх
	Layers   []string // имена слоёв каждого уровня снизу вверх
}

// DefaultOptions возвращает карту 40x30 с одним уровнем и стандартными слоями
func DefaultOptions() Options {
	return Options{
		Width:    40,
		Height:   30,
		TileSize: 32,
		Tiers:    []string{"ground"},
		Layers:   material.DefaultLayerOrder,
	}
}

// Map объединяет уровни мира, итоговое изображение и маску ходьбы
type Map struct {
	id       string
	width    int
	height   int
	tileSize int
	atlases  *AtlasSet

	tiers    []*Tier
	image    *image.RGBA
	walkMask *image.Alpha
	stencils map[vec.Vec2]*image.Alpha
	damage   []image.Rectangle
	observer Observer
}

// NewMap создаёт пустую карту
func NewMap(opts Options, atlases *AtlasSet) (*Map, error) {
	if _, err := checkSize(opts.Width, opts.Height, opts.TileSize); err != nil {
		return nil, err
	}
	if atlases == nil || atlases.TileSize() != opts.TileSize {
		return nil, fmt.Errorf("map: atlas set does not match tile size %d", opts.TileSize)
	}
	if len(opts.Tiers) == 0 || len(opts.Layers) == 0 {
		return nil, fmt.Errorf("map: at least one tier and one layer required")
	}

	m := &Map{
		id:       uuid.NewString(),
		width:    opts.Width,
		height:   opts.Height,
		tileSize: opts.TileSize,
		atlases:  atlases,
		stencils: make(map[vec.Vec2]*image.Alpha),
	}

	pw, ph := opts.Width*opts.TileSize, opts.Height*opts.TileSize
	m.image = image.NewRGBA(image.Rect(0, 0, pw, ph))
	m.walkMask = image.NewAlpha(image.Rect(0, 0, pw, ph))
	draw.Draw(m.walkMask, m.walkMask.Bounds(), image.NewUniform(blockingColor), image.Point{}, draw.Src)

	for _, name := range opts.Tiers {
		m.tiers = append(m.tiers, NewTier(name, opts.Layers, opts.Width, opts.Height, opts.TileSize, atlases))
	}
	return m, nil
}

// checkSize проверяет размеры карты и возвращает имя неверного поля
func checkSize(width, height, tileSize int) (string, error) {
	switch {
	case width <= 0 || width > MaxMapSide:
		return "width", fmt.Errorf("map: width %d outside [1, %d]", width, MaxMapSide)
	case height <= 0 || height > MaxMapSide:
		return "height", fmt.Errorf("map: height %d outside [1, %d]", height, MaxMapSide)
	case tileSize <= 0 || tileSize > MaxTileSize:
		return "tile_size", fmt.Errorf("map: tile size %d outside [1, %d]", tileSize, MaxTileSize)
	}
	// Множители уже ограничены, переполнения нет
	if px := width * height * tileSize * tileSize; px > MaxMapPixels {
		return "tile_size", fmt.Errorf("map: %dx%d tiles of %dpx exceed %d pixels", width, height, tileSize, MaxMapPixels)
	}
	return "", nil
}

// ID возвращает уникальный идентификатор карты
func (m *Map) ID() string { return m.id }

// Width возвращает ширину в клетках
func (m *Map) Width() int { return m.width }

// Height возвращает высоту в клетках
func (m *Map) Height() int { return m.height }

// TileSize возвращает размер клетки в пикселях
func (m *Map) TileSize() int { return m.tileSize }

// Atlases возвращает набор атласов карты
func (m *Map) Atlases() *AtlasSet { return m.atlases }

// Image возвращает итоговое изображение мира
func (m *Map) Image() *image.RGBA { return m.image }

// WalkMask возвращает маску ходьбы: 0 означает проходимо, иначе блокирует
func (m *Map) WalkMask() *image.Alpha { return m.walkMask }

// Tiers возвращает уровни снизу вверх
func (m *Map) Tiers() []*Tier { return m.tiers }

// Tier возвращает уровень по имени
func (m *Map) Tier(name string) (*Tier, bool) {
	for _, t := range m.tiers {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// SetObserver подключает наблюдателя событий
func (m *Map) SetObserver(o Observer) {
	m.observer = o
}

// InBounds проверяет, что клетка лежит в пределах мира
func (m *Map) InBounds(pos vec.Vec2) bool {
	return pos.In(m.width, m.height)
}

// TopTier возвращает самый верхний уровень, занятый в клетке
func (m *Map) TopTier(pos vec.Vec2) (*Tier, bool) {
	if !m.InBounds(pos) {
		return nil, false
	}
	for i := len(m.tiers) - 1; i >= 0; i-- {
		if m.tiers[i].Occupied(pos) {
			return m.tiers[i], true
		}
	}
	return nil, false
}

// TopTile возвращает самый верхний тайл верхнего занятого уровня
func (m *Map) TopTile(pos vec.Vec2) (*Tier, *Layer, *Tile, bool) {
	tier, ok := m.TopTier(pos)
	if !ok {
		return nil, nil, nil, false
	}
	layer, tile, _ := tier.TopTile(pos)
	return tier, layer, tile, true
}

// Update доводит все слои до покоя, перекомпоновывает изменённые клетки
// и обновляет маску ходьбы. Возвращает true, если что-то изменилось.
func (m *Map) Update() bool {
	changed := make(map[vec.Vec2]struct{})
	for {
		progressed := false
		for _, tier := range m.tiers {
			for _, pos := range tier.Update() {
				changed[pos] = struct{}{}
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	if len(changed) == 0 {
		return false
	}

	for _, pos := range sortedPositions(changed) {
		r := m.cellRect(pos)
		m.recompose(pos, r)

		delete(m.stencils, pos)
		stencil := m.Stencil(pos)
		draw.Draw(m.walkMask, r, stencil, image.Point{}, draw.Src)

		m.damage = append(m.damage, r)
	}

	if m.observer != nil {
		m.observer.Redrawn(len(changed))
	}
	return true
}

// TakeDamage возвращает и сбрасывает прямоугольники, перерисованные с прошлого вызова
func (m *Map) TakeDamage() []image.Rectangle {
	d := m.damage
	m.damage = nil
	return d
}

func (m *Map) cellRect(pos vec.Vec2) image.Rectangle {
	x, y := pos.Pixels(m.tileSize)
	return image.Rect(x, y, x+m.tileSize, y+m.tileSize)
}

func (m *Map) recompose(pos vec.Vec2, r image.Rectangle) {
	draw.Draw(m.image, r, image.Transparent, image.Point{}, draw.Src)
	for _, t := range m.tiers {
		draw.Draw(m.image, r, t.Image(), r.Min, draw.Over)
	}
}

func (m *Map) notify(action string, kind material.Kind, ok bool) {
	if m.observer != nil {
		m.observer.Action(action, kind, ok)
	}
}
