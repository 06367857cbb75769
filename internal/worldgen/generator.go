package worldgen

import (
	"math/rand"

	"github.com/annel0/wanderer/internal/logging"
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world"
	"github.com/annel0/wanderer/internal/world/material"
)

// Пороговые значения шума
const (
	WaterMax   = 0.40 // Ниже - вода
	GrassStart = 0.44 // Выше - трава, если достаточно влажно
	WetMin     = 0.45 // Минимальная влажность для травы
)

// Generator заполняет карту начальным ландшафтом
type Generator struct {
	Seed          int64   // Сид для генерации шума
	NoiseScale    float64 // Масштаб шума высоты
	MoistureScale float64 // Масштаб шума влажности
	RockDensity   float64 // Вероятность камня на сухой клетке (от 0 до 1)

	height   *Noise
	moisture *Noise
}

// New создаёт генератор
func New(seed int64) *Generator {
	return &Generator{
		Seed:          seed,
		NoiseScale:    0.09,
		MoistureScale: 0.05,
		RockDensity:   0.03,
		height:        NewNoise(seed),
		moisture:      NewNoise(seed + 42),
	}
}

// Stats описывает результат генерации
type Stats struct {
	Water int
	Grass int
	Rocks int
}

// Generate заполняет нижний уровень карты: земля везде, вода в низинах,
// трава на влажных возвышенностях, редкие камни на суше.
// Результат зависит только от сида и размеров карты.
func (g *Generator) Generate(m *world.Map) Stats {
	var stats Stats
	rng := rand.New(rand.NewSource(g.Seed))

	tier := m.Tiers()[0]
	dirt, _ := tier.Layer(material.LayerDirt)
	water, _ := tier.Layer(material.LayerWater)
	grass, _ := tier.Layer(material.LayerGrass)
	items, _ := tier.Layer(material.LayerItems)

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			pos := vec.Vec2{X: x, Y: y}
			h := g.height.At(float64(x)*g.NoiseScale, float64(y)*g.NoiseScale)
			wet := g.moisture.At(float64(x)*g.MoistureScale, float64(y)*g.MoistureScale)

			if dirt != nil {
				dirt.Put(pos, full(material.Dirt))
			}

			switch {
			case h < WaterMax:
				if water != nil {
					water.Put(pos, full(material.Water))
					stats.Water++
				}
			case h >= GrassStart && wet >= WetMin:
				if grass != nil {
					grass.Put(pos, full(material.Grass))
					stats.Grass++
				}
			}

			// Камни только на суше
			if h >= WaterMax && items != nil && rng.Float64() < g.RockDensity {
				rock := material.NewState(material.Rock, material.MaskNone, material.PropertiesOf(material.Rock).MaxHealth)
				items.Put(pos, rock)
				stats.Rocks++
			}
		}
	}

	m.Update()
	logging.GetComponentLogger("worldgen").Info("Сгенерирован мир %dx%d (сид %d): вода %d, трава %d, камни %d",
		m.Width(), m.Height(), g.Seed, stats.Water, stats.Grass, stats.Rocks)
	return stats
}

func full(k material.Kind) material.State {
	return material.NewState(k, material.MaskFull, material.PropertiesOf(k).MaxHealth)
}
