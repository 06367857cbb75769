package material

// State описывает логическое содержимое клетки слоя
type State struct {
	Kind          Kind
	Mask          Mask
	Health        float64
	Walkable      bool
	Superwalkable bool
	Immortal      bool
	// Fringe отмечает тайл, появившийся из-за распространения маски соседа,
	// а не размещённый напрямую. Такой тайл с маской 0 удаляется.
	Fringe bool
}

// Connected возвращает true, если тайл полностью соединён с соседями
func (s State) Connected() bool {
	return s.Mask == MaskFull
}

// Item представляет переносимую единицу материала.
// Появляется при подборе и расходуется при размещении.
type Item struct {
	Kind        Kind
	Source      *Kind  // тип тайла, из которого получен предмет
	TargetLayer string // если пусто, слой материала по умолчанию
}

// NewItem создаёт предмет без источника
func NewItem(k Kind) Item {
	return Item{Kind: k}
}

// ItemFrom создаёт предмет, полученный из тайла source
func ItemFrom(k, source Kind) Item {
	src := source
	return Item{Kind: k, Source: &src}
}

// Layer возвращает слой, в который размещается предмет
func (i Item) Layer() string {
	if i.TargetLayer != "" {
		return i.TargetLayer
	}
	return PropertiesOf(i.Kind).Layer
}

// String возвращает читаемое описание предмета
func (i Item) String() string {
	if i.Source != nil && *i.Source != i.Kind {
		return i.Kind.String() + " (from " + i.Source.String() + ")"
	}
	return i.Kind.String()
}
