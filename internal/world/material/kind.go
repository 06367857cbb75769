package material

import (
	"fmt"
	"strings"
)

// Kind идентифицирует материал клетки
type Kind uint8

// Константы материалов
const (
	Dirt  Kind = iota // базовый слой земли
	Hole              // яма, выкопанная в земле
	Grass             // трава
	Water             // вода
	Rock              // камень, переносимый предмет

	kindCount // всегда последний: количество материалов
)

var kindNames = [kindCount]string{"dirt", "hole", "grass", "water", "rock"}

// String возвращает имя материала, используемое в сохранениях и атласах
func (k Kind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid проверяет, что материал известен
func (k Kind) Valid() bool {
	return k < kindCount
}

// ParseKind разбирает имя материала
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown material %q", name)
}

// Kinds возвращает все известные материалы по порядку
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Properties описывает статические свойства материала.
//
// Здоровье тайла ограничено [MinHealth, MaxHealth]; смертный тайл,
// достигший MinHealth, удаляется на следующем обновлении.
// При здоровье ниже ConnectAt тайл визуально отсоединяется (маска 0).
type Properties struct {
	Name          string
	Layer         string  // слой по умолчанию для размещения
	MinHealth     float64 // порог удаления
	MaxHealth     float64
	ConnectAt     float64
	DigAmount     float64
	FringeHealth  float64 // здоровье тайлов, созданных распространением маски
	Walkable      bool    // непрозрачные пиксели блокируют движение
	Superwalkable bool    // тайл никогда не блокирует движение
	Immortal      bool    // здоровье не удаляет тайл
}

// Имена слоёв яруса по умолчанию, снизу вверх
const (
	LayerDirt  = "dirt"
	LayerHole  = "hole"
	LayerGrass = "grass"
	LayerWater = "water"
	LayerItems = "items"
)

// DefaultLayerOrder задаёт порядок слоёв в ярусе
var DefaultLayerOrder = []string{LayerDirt, LayerHole, LayerGrass, LayerWater, LayerItems}

var properties = [kindCount]Properties{
	Dirt: {
		Name: "dirt", Layer: LayerDirt,
		MinHealth: -1, MaxHealth: 3, ConnectAt: 3, DigAmount: 1, FringeHealth: 3,
		Superwalkable: true, Immortal: true,
	},
	Hole: {
		Name: "hole", Layer: LayerHole,
		MinHealth: 0, MaxHealth: 3, ConnectAt: 3, DigAmount: 1, FringeHealth: 3,
		Walkable: true, Immortal: true,
	},
	Grass: {
		Name: "grass", Layer: LayerGrass,
		MinHealth: -1, MaxHealth: 3, ConnectAt: 3, DigAmount: 1, FringeHealth: 3,
		Superwalkable: true,
	},
	Water: {
		Name: "water", Layer: LayerWater,
		MinHealth: -1, MaxHealth: 3, ConnectAt: 3, DigAmount: 1, FringeHealth: 3,
		Walkable: true,
	},
	Rock: {
		// ConnectAt выше максимума: камни никогда не соединяются
		Name: "rock", Layer: LayerItems,
		MinHealth: -1, MaxHealth: 1, ConnectAt: 2, DigAmount: 0, FringeHealth: 1,
		Immortal: true,
	},
}

// PropertiesOf возвращает свойства материала
func PropertiesOf(k Kind) Properties {
	if !k.Valid() {
		panic(fmt.Sprintf("material: no properties for %s", k))
	}
	return properties[k]
}

// NewState создаёт состояние тайла с флагами материала
func NewState(k Kind, mask Mask, health float64) State {
	p := PropertiesOf(k)
	return State{
		Kind:          k,
		Mask:          mask,
		Health:        health,
		Walkable:      p.Walkable,
		Superwalkable: p.Superwalkable,
		Immortal:      p.Immortal,
	}
}
