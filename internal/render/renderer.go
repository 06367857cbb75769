// Package render держит GPU-копию изображения мира в синхроне с картой.
package render

import (
	"github.com/annel0/wanderer/internal/render/raster"
	"github.com/annel0/wanderer/internal/world"
	"github.com/hajimehoshi/ebiten/v2"
)

// Доля площади, после которой проще перезаписать всё изображение
const fullUploadRatio = 0.5

// Renderer переносит перерисованные клетки карты в ebiten.Image
type Renderer struct {
	m        *world.Map
	terrain  *ebiten.Image
	walk     *ebiten.Image
	showWalk bool
}

// NewRenderer создаёт рендерер и загружает текущее изображение карты
func NewRenderer(m *world.Map) *Renderer {
	b := m.Image().Bounds()
	r := &Renderer{
		m:       m,
		terrain: ebiten.NewImage(b.Dx(), b.Dy()),
		walk:    ebiten.NewImage(b.Dx(), b.Dy()),
	}
	m.TakeDamage()
	r.uploadAll()
	return r
}

// ToggleWalkMask включает или выключает показ маски ходьбы
func (r *Renderer) ToggleWalkMask() {
	r.showWalk = !r.showWalk
}

// Sync загружает на GPU клетки, изменённые с прошлого вызова.
// Возвращает количество загруженных прямоугольников.
func (r *Renderer) Sync() int {
	damage := r.m.TakeDamage()
	if len(damage) == 0 {
		return 0
	}

	bounds := r.m.Image().Bounds()
	if raster.Area(damage) >= int(float64(bounds.Dx()*bounds.Dy())*fullUploadRatio) {
		r.uploadAll()
		return len(damage)
	}

	for _, rect := range damage {
		r.terrain.SubImage(rect).(*ebiten.Image).WritePixels(raster.RGBA(r.m.Image(), rect))
		r.walk.SubImage(rect).(*ebiten.Image).WritePixels(raster.WalkMask(r.m.WalkMask(), rect))
	}
	return len(damage)
}

// Draw рисует мир со смещением камеры
func (r *Renderer) Draw(screen *ebiten.Image, offsetX, offsetY float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(r.terrain, op)

	if r.showWalk {
		op.ColorScale.ScaleAlpha(0.5)
		screen.DrawImage(r.walk, op)
	}
}

func (r *Renderer) uploadAll() {
	b := r.m.Image().Bounds()
	r.terrain.WritePixels(raster.RGBA(r.m.Image(), b))
	r.walk.WritePixels(raster.WalkMask(r.m.WalkMask(), b))
}
