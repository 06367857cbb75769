package worldgen

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума Перлина
const (
	noiseAlpha   = 2.0 // Сглаживание шума
	noiseBeta    = 2.0 // Частота шума
	noiseOctaves = 3
)

// Noise задаёт двумерный шум Перлина с собственным сидом
type Noise struct {
	p *perlin.Perlin
}

// NewNoise создаёт генератор шума
func NewNoise(seed int64) *Noise {
	return &Noise{p: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)}
}

// At возвращает значение шума в диапазоне от 0 до 1
func (n *Noise) At(x, y float64) float64 {
	v := (n.p.Noise2D(x, y) + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
