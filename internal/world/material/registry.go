package material

var registry = make(map[Kind]Behavior)

// Register добавляет поведение материала в регистр
func Register(k Kind, behavior Behavior) {
	registry[k] = behavior
}

// Get возвращает поведение для указанного материала
func Get(k Kind) (Behavior, bool) {
	behavior, exists := registry[k]
	return behavior, exists
}
