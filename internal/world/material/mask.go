package material

import "math/bits"

// Mask хранит 4 бита связности тайла: по одному на каждый угол.
// Бит установлен, когда вершина угла покрыта тем же материалом.
// Соседние тайлы делят вершины, поэтому значения совпадают с обеих сторон.
type Mask uint8

// Биты углов
const (
	NW Mask = 1 << iota
	NE
	SW
	SE

	MaskNone Mask = 0
	MaskFull Mask = NW | NE | SW | SE
)

// Has проверяет, что все биты other установлены
func (m Mask) Has(other Mask) bool {
	return m&other == other
}

// Count возвращает число установленных углов
func (m Mask) Count() int {
	return bits.OnesCount8(uint8(m & MaskFull))
}

// Valid проверяет, что маска в диапазоне [0,15]
func (m Mask) Valid() bool {
	return m <= MaskFull
}
