package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPixels(t *testing.T) {
	assert.Equal(t, Vec2{X: 0, Y: 0}, FromPixels(0, 31, 32))
	assert.Equal(t, Vec2{X: 1, Y: 2}, FromPixels(32, 64, 32))
	assert.Equal(t, Vec2{X: -1, Y: -1}, FromPixels(-1, -32, 32), "отрицательные пиксели не должны попадать в клетку 0")
}

func TestIn(t *testing.T) {
	assert.True(t, Vec2{X: 0, Y: 0}.In(2, 2))
	assert.True(t, Vec2{X: 1, Y: 1}.In(2, 2))
	assert.False(t, Vec2{X: 2, Y: 1}.In(2, 2))
	assert.False(t, Vec2{X: -1, Y: 0}.In(2, 2))
}

func TestAddSub(t *testing.T) {
	a := Vec2{X: 3, Y: 4}
	b := Vec2{X: -1, Y: 2}
	assert.Equal(t, Vec2{X: 2, Y: 6}, a.Add(b))
	assert.Equal(t, a, a.Add(b).Sub(b))
}
