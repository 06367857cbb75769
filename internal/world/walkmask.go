package world

import (
	"image"
	"image/color"

	"github.com/annel0/wanderer/internal/vec"
	"golang.org/x/image/draw"
)

var blockingColor = color.Alpha{A: walkBlocking}

// Stencil возвращает маску ходьбы клетки, строя её при необходимости.
// Маска строится по верхнему занятому уровню: сверхпроходимые тайлы
// ничего не добавляют, проходимые блокируют непрозрачными пикселями
// варианта, остальные блокируют всю клетку. Пустая клетка блокирует.
func (m *Map) Stencil(pos vec.Vec2) *image.Alpha {
	if s, ok := m.stencils[pos]; ok {
		return s
	}
	s := m.buildStencil(pos)
	m.stencils[pos] = s
	return s
}

func (m *Map) buildStencil(pos vec.Vec2) *image.Alpha {
	s := image.NewAlpha(image.Rect(0, 0, m.tileSize, m.tileSize))
	block := image.NewUniform(blockingColor)

	tier, ok := m.TopTier(pos)
	if !ok {
		draw.Draw(s, s.Bounds(), block, image.Point{}, draw.Src)
		return s
	}

	for _, l := range tier.Layers() {
		t, ok := l.liveTile(pos)
		if !ok {
			continue
		}
		switch {
		case t.Superwalkable:
		case t.Walkable:
			img := t.Image(m.atlases)
			draw.DrawMask(s, s.Bounds(), block, image.Point{}, img, img.Bounds().Min, draw.Over)
		default:
			draw.Draw(s, s.Bounds(), block, image.Point{}, draw.Src)
		}
	}
	return s
}

// WalkableAt проверяет пиксель мира. Пиксели вне мира непроходимы.
func (m *Map) WalkableAt(px, py int) bool {
	if !image.Pt(px, py).In(m.walkMask.Bounds()) {
		return false
	}
	return m.walkMask.AlphaAt(px, py).A == walkClear
}

// WalkableFor проверяет попиксельно, может ли спрайт занять bounds.
// Учитываются только непрозрачные пиксели спрайта в пересечении
// его размеров с bounds.
func (m *Map) WalkableFor(sprite image.Image, bounds image.Rectangle) bool {
	sb := sprite.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if sb.Dx() < w {
		w = sb.Dx()
	}
	if sb.Dy() < h {
		h = sb.Dy()
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if _, _, _, a := sprite.At(sb.Min.X+x, sb.Min.Y+y).RGBA(); a == 0 {
				continue
			}
			if !m.WalkableAt(bounds.Min.X+x, bounds.Min.Y+y) {
				return false
			}
		}
	}
	return true
}

// WalkableRect проверяет четыре угла прямоугольника
func (m *Map) WalkableRect(r image.Rectangle) bool {
	if r.Empty() {
		return false
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	return m.WalkableAt(x0, y0) && m.WalkableAt(x1, y0) &&
		m.WalkableAt(x0, y1) && m.WalkableAt(x1, y1)
}
