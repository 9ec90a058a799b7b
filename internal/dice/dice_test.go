package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	s := &Sequence{Floats: []float64{0.1, 0.9}, Ints: []int{5, 0}}

	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.1, s.Float64())

	assert.Equal(t, 2, s.IntN(3), "clamped to n-1")
	assert.Equal(t, 0, s.IntN(3))
}

func TestBetween(t *testing.T) {
	src := New(42)
	for i := 0; i < 200; i++ {
		v := Between(src, 1, 3)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 3)
	}
	assert.Equal(t, 7, Between(src, 7, 7))
}

func TestChance(t *testing.T) {
	assert.True(t, Chance(&Sequence{Floats: []float64{0.19}}, 0.2))
	assert.False(t, Chance(&Sequence{Floats: []float64{0.2}}, 0.2))
}
