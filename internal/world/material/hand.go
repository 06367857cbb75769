package material

// Hand хранит не больше одного предмета. Подбор кладёт предмет в руку,
// успешное размещение забирает его.
type Hand struct {
	item Item
	full bool
}

// Hold кладёт предмет в руку, заменяя прежний
func (h *Hand) Hold(item Item) {
	h.item, h.full = item, true
}

// Item возвращает предмет в руке
func (h *Hand) Item() (Item, bool) {
	return h.item, h.full
}

// Take забирает предмет из руки
func (h *Hand) Take() (Item, bool) {
	item, ok := h.item, h.full
	h.item, h.full = Item{}, false
	return item, ok
}

// String возвращает описание содержимого руки
func (h *Hand) String() string {
	if !h.full {
		return "пусто"
	}
	return h.item.String()
}
