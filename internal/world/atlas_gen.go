package world

import (
	"fmt"
	"image"
	"image/color"

	"github.com/annel0/wanderer/internal/world/material"
	"golang.org/x/image/draw"
)

// Цвета сгенерированных атласов
var generatedColors = map[material.Kind]color.RGBA{
	material.Dirt:  {0x7a, 0x55, 0x30, 0xff},
	material.Hole:  {0x2b, 0x1d, 0x10, 0xff},
	material.Grass: {0x3f, 0x9b, 0x32, 0xff},
	material.Water: {0x2d, 0x6c, 0xc9, 0xff},
	material.Rock:  {0x8a, 0x8a, 0x8a, 0xff},
}

const generatedColumns = 4

// GenerateSheet рисует лист тайлов в стандартной раскладке.
// Угол маски закрашивает четверть клетки, вариант здоровья i рисует
// центральный квадрат, растущий с i.
func GenerateSheet(kind material.Kind, tileSize int) *image.RGBA {
	c, ok := generatedColors[kind]
	if !ok {
		panic(fmt.Sprintf("generate sheet: unknown material %d", kind))
	}
	fill := image.NewUniform(c)
	sheet := image.NewRGBA(image.Rect(0, 0, generatedColumns*tileSize, sheetRows*tileSize))

	for col := 0; col < generatedColumns; col++ {
		side := tileSize * (col + 1) / (generatedColumns + 1)
		if side < 1 {
			side = 1
		}
		off := (tileSize - side) / 2
		r := image.Rect(col*tileSize+off, off, col*tileSize+off+side, off+side)
		draw.Draw(sheet, r, fill, image.Point{}, draw.Src)
	}

	half := tileSize / 2
	quads := map[material.Mask]image.Rectangle{
		material.NW: image.Rect(0, 0, half, half),
		material.NE: image.Rect(half, 0, tileSize, half),
		material.SW: image.Rect(0, half, half, tileSize),
		material.SE: image.Rect(half, half, tileSize, tileSize),
	}
	for _, slot := range sheetLayout {
		origin := image.Pt(slot.col*tileSize, slot.row*tileSize)
		for corner, q := range quads {
			if slot.mask.Has(corner) {
				draw.Draw(sheet, q.Add(origin), fill, image.Point{}, draw.Src)
			}
		}
	}
	return sheet
}

// GenerateAtlas создаёт атлас из сгенерированного листа
func GenerateAtlas(kind material.Kind, tileSize int) *Atlas {
	a, err := NewAtlas(kind, GenerateSheet(kind, tileSize), tileSize)
	if err != nil {
		panic(err)
	}
	return a
}

// GenerateAtlasSet создаёт набор сгенерированных атласов для всех материалов
func GenerateAtlasSet(tileSize int) *AtlasSet {
	set := NewAtlasSet(tileSize)
	for _, k := range material.Kinds() {
		_ = set.Add(GenerateAtlas(k, tileSize))
	}
	return set
}
