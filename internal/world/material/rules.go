package material

// Deteriorate уменьшает здоровье тайла на amount, не опускаясь ниже
// MinHealth. Ниже порога ConnectAt тайл отсоединяется от соседей.
func Deteriorate(st State, amount float64) State {
	p := PropertiesOf(st.Kind)
	st.Health -= amount
	if st.Health < p.MinHealth {
		st.Health = p.MinHealth
	}
	if st.Health < p.ConnectAt {
		st.Mask = MaskNone
	}
	return st
}

// Grow увеличивает здоровье тайла на amount, не поднимаясь выше MaxHealth.
// Достигнув ConnectAt, тайл соединяется со всеми соседями.
// Выращенный тайл перестаёт быть краевым.
func Grow(st State, amount float64) State {
	p := PropertiesOf(st.Kind)
	st.Health += amount
	if st.Health > p.MaxHealth {
		st.Health = p.MaxHealth
	}
	if st.Health >= p.ConnectAt {
		st.Mask = MaskFull
	}
	st.Fringe = false
	return st
}

// Saturated возвращает true, если здоровье тайла достигло максимума
func Saturated(st State) bool {
	return st.Health >= PropertiesOf(st.Kind).MaxHealth
}

// Dead возвращает true, если смертный тайл опустился до порога удаления
func Dead(st State) bool {
	return !st.Immortal && st.Health <= PropertiesOf(st.Kind).MinHealth
}
