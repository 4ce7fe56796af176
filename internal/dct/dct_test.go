package dct

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// naive computes the transform straight from the definition.
func naive(block *[64]int16) [64]float64 {
	c := func(i, j int) float64 {
		if i == 0 {
			return 1 / math.Sqrt(8)
		}
		return math.Sqrt(2.0/8) * math.Cos(float64(2*j+1)*float64(i)*math.Pi/16)
	}
	var out [64]float64
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			sum := 0.0
			for x := 0; x < 8; x++ {
				for y := 0; y < 8; y++ {
					sum += c(u, x) * float64(block[x*8+y]) * c(v, y)
				}
			}
			out[u*8+v] = sum
		}
	}
	return out
}

func TestTransformConstantBlock(t *testing.T) {
	tr := NewTransformer()
	var block [64]int16
	for i := range block {
		block[i] = 100
	}
	out := tr.Transform(&block)

	// A constant block has all its energy in the DC coefficient: 8x the
	// level value.
	assert.Equal(t, int16(800), out[0])
	for i := 1; i < 64; i++ {
		assert.Equal(t, int16(0), out[i], "AC coefficient %d", i)
	}
}

func TestTransformMatchesDefinition(t *testing.T) {
	tr := NewTransformer()
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 8; trial++ {
		var block [64]int16
		for i := range block {
			block[i] = int16(rng.Intn(256) - 128)
		}
		got := tr.Transform(&block)
		want := naive(&block)
		for i := range got {
			assert.InDelta(t, want[i], float64(got[i]), 1.0, "coefficient %d", i)
		}
	}
}

func TestTransformRange(t *testing.T) {
	// Extreme inputs stay well inside 16 bits.
	tr := NewTransformer()
	var block [64]int16
	for i := range block {
		if (i/8+i)%2 == 0 {
			block[i] = 127
		} else {
			block[i] = -128
		}
	}
	out := tr.Transform(&block)
	for i, v := range out {
		assert.LessOrEqual(t, int(v), 1024, "coefficient %d", i)
		assert.GreaterOrEqual(t, int(v), -1024, "coefficient %d", i)
	}
}
