package world

import (
	"github.com/annel0/wanderer/internal/vec"
	"github.com/annel0/wanderer/internal/world/material"
)

// Direction задаёт одно из 8 направлений к соседней клетке
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest

	directionCount // всегда последний: количество направлений
)

// cornerPair связывает угол тайла с тем же углом-вершиной у соседа
type cornerPair struct {
	from material.Mask // угол размещённого тайла, обращённый к соседу
	to   material.Mask // соответствующий угол соседа
}

type directionInfo struct {
	name   string
	offset vec.Vec2
	pairs  []cornerPair
}

// Кардинальные направления делят с соседом два угла, диагональные один.
var directions = [directionCount]directionInfo{
	North:     {"north", vec.Vec2{X: 0, Y: -1}, []cornerPair{{material.NW, material.SW}, {material.NE, material.SE}}},
	South:     {"south", vec.Vec2{X: 0, Y: 1}, []cornerPair{{material.SW, material.NW}, {material.SE, material.NE}}},
	East:      {"east", vec.Vec2{X: 1, Y: 0}, []cornerPair{{material.NE, material.NW}, {material.SE, material.SW}}},
	West:      {"west", vec.Vec2{X: -1, Y: 0}, []cornerPair{{material.NW, material.NE}, {material.SW, material.SE}}},
	NorthEast: {"northeast", vec.Vec2{X: 1, Y: -1}, []cornerPair{{material.NE, material.SW}}},
	NorthWest: {"northwest", vec.Vec2{X: -1, Y: -1}, []cornerPair{{material.NW, material.SE}}},
	SouthEast: {"southeast", vec.Vec2{X: 1, Y: 1}, []cornerPair{{material.SE, material.NW}}},
	SouthWest: {"southwest", vec.Vec2{X: -1, Y: 1}, []cornerPair{{material.SW, material.NE}}},
}

var allDirections = func() []Direction {
	ds := make([]Direction, 0, directionCount)
	for d := Direction(0); d < directionCount; d++ {
		ds = append(ds, d)
	}
	return ds
}()

// Directions возвращает все 8 направлений
func Directions() []Direction {
	return allDirections
}

// String возвращает имя направления
func (d Direction) String() string {
	return directions[d].name
}

// Offset возвращает смещение к соседу
func (d Direction) Offset() vec.Vec2 {
	return directions[d].offset
}

// Facing возвращает углы тайла, обращённые к соседу в этом направлении
func (d Direction) Facing() material.Mask {
	var m material.Mask
	for _, p := range directions[d].pairs {
		m |= p.from
	}
	return m
}

// Reciprocal возвращает углы соседа, обращённые обратно к тайлу
func (d Direction) Reciprocal() material.Mask {
	var m material.Mask
	for _, p := range directions[d].pairs {
		m |= p.to
	}
	return m
}

// Carry переносит обращённые к соседу биты маски на соответствующие биты соседа
func (d Direction) Carry(m material.Mask) material.Mask {
	var out material.Mask
	for _, p := range directions[d].pairs {
		if m&p.from != 0 {
			out |= p.to
		}
	}
	return out
}

// Opposite возвращает противоположное направление
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case NorthEast:
		return SouthWest
	case NorthWest:
		return SouthEast
	case SouthEast:
		return NorthWest
	default:
		return NorthEast
	}
}
