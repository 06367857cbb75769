// Package raster готовит пиксельные буферы для загрузки на GPU.
package raster

import (
	"image"
	"image/color"
)

// WalkColor задаёт цвет блокирующих пикселей в отладочном слое
var WalkColor = color.RGBA{0xd0, 0x20, 0x20, 0xff}

// RGBA копирует пиксели прямоугольника в плотный буфер
func RGBA(img *image.RGBA, rect image.Rectangle) []byte {
	rect = rect.Intersect(img.Bounds())
	out := make([]byte, 0, rect.Dx()*rect.Dy()*4)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := img.PixOffset(rect.Min.X, y)
		out = append(out, img.Pix[i:i+rect.Dx()*4]...)
	}
	return out
}

// WalkMask превращает маску ходьбы в RGBA: блокирующие пиксели окрашены WalkColor
func WalkMask(mask *image.Alpha, rect image.Rectangle) []byte {
	rect = rect.Intersect(mask.Bounds())
	out := make([]byte, 0, rect.Dx()*rect.Dy()*4)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if mask.AlphaAt(x, y).A == 0 {
				out = append(out, 0, 0, 0, 0)
				continue
			}
			out = append(out, WalkColor.R, WalkColor.G, WalkColor.B, WalkColor.A)
		}
	}
	return out
}

// Area возвращает суммарную площадь прямоугольников без учёта перекрытий
func Area(rects []image.Rectangle) int {
	area := 0
	for _, r := range rects {
		area += r.Dx() * r.Dy()
	}
	return area
}
