package vec

import "math"

// Vec2 представляет целочисленные координаты клетки на сетке
type Vec2 struct {
	X, Y int
}

// Add возвращает сумму двух векторов
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub возвращает разность двух векторов
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// In проверяет, лежит ли точка внутри прямоугольника [0,width)×[0,height)
func (v Vec2) In(width, height int) bool {
	return v.X >= 0 && v.Y >= 0 && v.X < width && v.Y < height
}

// FromPixels переводит пиксельные координаты в координаты клетки.
// Используется деление с округлением вниз, поэтому отрицательные
// пиксели дают отрицательные клетки, а не нулевую.
func FromPixels(px, py, tileSize int) Vec2 {
	return Vec2{X: floorDiv(px, tileSize), Y: floorDiv(py, tileSize)}
}

// Pixels возвращает пиксельные координаты левого верхнего угла клетки
func (v Vec2) Pixels(tileSize int) (int, int) {
	return v.X * tileSize, v.Y * tileSize
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
