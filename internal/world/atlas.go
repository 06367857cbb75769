package world

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // декодер листов тайлов
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/annel0/wanderer/internal/logging"
	"github.com/annel0/wanderer/internal/world/material"
	"golang.org/x/image/draw"
)

// Раскладка листа тайлов в клетках: колонка, строка
type sheetSlot struct {
	col, row int
	mask     material.Mask
}

const (
	sheetRows    = 6
	minSheetCols = 3
)

// Строка 0 хранит варианты здоровья. Маски 9 и 6 собираются из одиночных углов.
var sheetLayout = []sheetSlot{
	{0, 1, material.MaskFull &^ material.NW},
	{1, 1, material.MaskFull &^ material.NE},
	{0, 2, material.MaskFull &^ material.SW},
	{1, 2, material.MaskFull &^ material.SE},

	{0, 3, material.SE},
	{1, 3, material.SW | material.SE},
	{2, 3, material.SW},
	{0, 4, material.NE | material.SE},
	{1, 4, material.MaskFull},
	{2, 4, material.NW | material.SW},
	{0, 5, material.NE},
	{1, 5, material.NW | material.NE},
	{2, 5, material.NW},
}

// Atlas хранит нарезанные варианты тайлов одного материала
type Atlas struct {
	kind     material.Kind
	tileSize int
	variants [material.MaskFull + 1]*image.RGBA
	health   []*image.RGBA
}

// NewAtlas нарезает лист тайлов sheet по фиксированной раскладке
func NewAtlas(kind material.Kind, sheet image.Image, tileSize int) (*Atlas, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("atlas %s: invalid tile size %d", kind, tileSize)
	}
	b := sheet.Bounds()
	cols := b.Dx() / tileSize
	if b.Dx()%tileSize != 0 || b.Dy() != sheetRows*tileSize || cols < minSheetCols {
		return nil, fmt.Errorf("atlas %s: sheet %dx%d does not fit %dx%d tiles of %dpx",
			kind, b.Dx(), b.Dy(), minSheetCols, sheetRows, tileSize)
	}

	a := &Atlas{kind: kind, tileSize: tileSize}
	slice := func(col, row int) *image.RGBA {
		dst := image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))
		sr := image.Rect(col*tileSize, row*tileSize, (col+1)*tileSize, (row+1)*tileSize).Add(b.Min)
		draw.Copy(dst, image.Point{}, sheet, sr, draw.Src, nil)
		return dst
	}

	for col := 0; col < cols; col++ {
		a.health = append(a.health, slice(col, 0))
	}
	for _, slot := range sheetLayout {
		a.variants[slot.mask] = slice(slot.col, slot.row)
	}
	a.variants[material.NW|material.SE] = a.compose(material.NW, material.SE)
	a.variants[material.NE|material.SW] = a.compose(material.NE, material.SW)

	return a, nil
}

// compose накладывает два одиночных угла друг на друга
func (a *Atlas) compose(first, second material.Mask) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, a.tileSize, a.tileSize))
	draw.Draw(dst, dst.Bounds(), a.variants[first], image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), a.variants[second], image.Point{}, draw.Over)
	return dst
}

// Kind возвращает материал атласа
func (a *Atlas) Kind() material.Kind {
	return a.kind
}

// TileSize возвращает размер тайла в пикселях
func (a *Atlas) TileSize() int {
	return a.tileSize
}

// HealthVariants возвращает число вариантов здоровья
func (a *Atlas) HealthVariants() int {
	return len(a.health)
}

// Variant выбирает изображение тайла.
// Маски 0 и 15 показывают вариант здоровья floor(health), зажатый в
// доступный диапазон; остальные маски адресуют вариант напрямую.
// На неизвестный ключ паникует.
func (a *Atlas) Variant(mask material.Mask, health float64) image.Image {
	if mask == material.MaskNone || mask == material.MaskFull {
		idx := int(math.Floor(health))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(a.health) {
			idx = len(a.health) - 1
		}
		return a.health[idx]
	}
	if !mask.Valid() || a.variants[mask] == nil {
		panic(fmt.Sprintf("atlas %s: no variant for mask %d", a.kind, mask))
	}
	return a.variants[mask]
}

// LoadAtlas загружает лист тайлов из PNG. Пиксели цвета colorKey
// становятся прозрачными.
func LoadAtlas(path string, kind material.Kind, tileSize int, colorKey *color.RGBA) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("atlas %s: %w", kind, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("atlas %s: decode %s: %w", kind, path, err)
	}

	sheet := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(sheet, sheet.Bounds(), img, img.Bounds().Min, draw.Src)
	if colorKey != nil {
		applyColorKey(sheet, *colorKey)
	}

	a, err := NewAtlas(kind, sheet, tileSize)
	if err != nil {
		return nil, err
	}
	logging.GetWorldLogger().Debug("Загружен атлас %s из %s (%d вариантов здоровья)", kind, path, a.HealthVariants())
	return a, nil
}

func applyColorKey(img *image.RGBA, key color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R == key.R && c.G == key.G && c.B == key.B {
				img.SetRGBA(x, y, color.RGBA{})
			}
		}
	}
}

// AtlasSet хранит атласы всех материалов карты
type AtlasSet struct {
	tileSize int
	atlases  map[material.Kind]*Atlas
}

// NewAtlasSet создаёт пустой набор атласов
func NewAtlasSet(tileSize int) *AtlasSet {
	return &AtlasSet{tileSize: tileSize, atlases: make(map[material.Kind]*Atlas)}
}

// TileSize возвращает размер тайла набора
func (s *AtlasSet) TileSize() int {
	return s.tileSize
}

// Add добавляет атлас в набор
func (s *AtlasSet) Add(a *Atlas) error {
	if a.tileSize != s.tileSize {
		return fmt.Errorf("atlas %s: tile size %d, set uses %d", a.kind, a.tileSize, s.tileSize)
	}
	s.atlases[a.kind] = a
	return nil
}

// Get возвращает атлас материала
func (s *AtlasSet) Get(k material.Kind) (*Atlas, bool) {
	a, ok := s.atlases[k]
	return a, ok
}

// MustGet возвращает атлас материала или паникует
func (s *AtlasSet) MustGet(k material.Kind) *Atlas {
	a, ok := s.atlases[k]
	if !ok {
		panic(fmt.Sprintf("atlas set: no atlas for %s", k))
	}
	return a
}

// LoadAtlasSet загружает <material>.png из каталога dir для каждого материала.
// Если файла нет и fallback == true, используется сгенерированный атлас.
func LoadAtlasSet(dir string, tileSize int, colorKey *color.RGBA, fallback bool) (*AtlasSet, error) {
	log := logging.GetWorldLogger()
	set := NewAtlasSet(tileSize)
	for _, k := range material.Kinds() {
		path := filepath.Join(dir, k.String()+".png")
		a, err := LoadAtlas(path, k, tileSize, colorKey)
		if err != nil {
			if !fallback || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			log.Warn("Атлас %s не найден, используем сгенерированный", path)
			a = GenerateAtlas(k, tileSize)
		}
		if err := set.Add(a); err != nil {
			return nil, err
		}
	}
	return set, nil
}
