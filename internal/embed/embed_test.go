package embed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrautz/jpegstego/config"
)

func randomCoeffs(rng *rand.Rand, mcus int) []int16 {
	coeffs := make([]int16, mcus*config.BlockPixels)
	for i := range coeffs {
		coeffs[i] = int16(rng.Intn(512) - 256)
	}
	return coeffs
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for _, payload := range [][]byte{
		{},
		{0x00},
		{0xFF},
		[]byte("hello world"),
		randomCoeffsBytes(rng, 100),
	} {
		coeffs := randomCoeffs(rng, 64)
		require.NoError(t, Embed(coeffs, payload))
		got, err := Extract(coeffs, len(payload))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
}

func randomCoeffsBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

func TestEmbedTouchesOnlyPatternPositions(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	payload := randomCoeffsBytes(rng, 10) // 80 bits -> 5 MCUs
	coeffs := randomCoeffs(rng, 8)
	before := make([]int16, len(coeffs))
	copy(before, coeffs)

	require.NoError(t, Embed(coeffs, payload))

	usedMCUs := (len(payload)*8 + config.BitsPerMCU - 1) / config.BitsPerMCU
	for m := 0; m < len(coeffs)/config.BlockPixels; m++ {
		pattern := config.EmbeddingPatterns[m%len(config.EmbeddingPatterns)]
		touchable := map[int]bool{}
		if m < usedMCUs {
			for _, pos := range pattern {
				touchable[pos] = true
			}
		}
		for i := 0; i < config.BlockPixels; i++ {
			idx := m*config.BlockPixels + i
			if touchable[i] {
				// Only the LSB may change.
				assert.Equal(t, before[idx]&^1, coeffs[idx]&^1, "mcu %d pos %d", m, i)
				diff := int(coeffs[idx]) - int(before[idx])
				assert.LessOrEqual(t, diff, 1)
				assert.GreaterOrEqual(t, diff, -1)
			} else {
				assert.Equal(t, before[idx], coeffs[idx], "mcu %d pos %d", m, i)
			}
		}
	}
}

func TestEmbedPatternCycling(t *testing.T) {
	// All-ones payload sets the LSB at every pattern position of each
	// used MCU, so the cycling is directly observable.
	coeffs := make([]int16, 8*config.BlockPixels)
	payload := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF} // 4 MCUs
	require.NoError(t, Embed(coeffs, payload))

	for m := 0; m < 4; m++ {
		pattern := config.EmbeddingPatterns[m%len(config.EmbeddingPatterns)]
		for _, pos := range pattern {
			assert.Equal(t, int16(1), coeffs[m*config.BlockPixels+pos], "mcu %d pos %d", m, pos)
		}
	}
	for i := 4 * config.BlockPixels; i < len(coeffs); i++ {
		assert.Equal(t, int16(0), coeffs[i])
	}
}

func TestEmbedPartialFinalMCU(t *testing.T) {
	// One byte occupies only the first eight pattern slots of MCU 0.
	coeffs := make([]int16, config.BlockPixels)
	require.NoError(t, Embed(coeffs, []byte{0xFF}))

	pattern := config.EmbeddingPatterns[0]
	for j, pos := range pattern {
		want := int16(0)
		if j < 8 {
			want = 1
		}
		assert.Equal(t, want, coeffs[pos], "slot %d", j)
	}
}

func TestEmbedCapacity(t *testing.T) {
	coeffs := make([]int16, config.BlockPixels) // one MCU: two bytes max
	assert.NoError(t, Embed(coeffs, []byte{1, 2}))
	assert.ErrorIs(t, Embed(coeffs, []byte{1, 2, 3}), ErrCapacity)

	_, err := Extract(coeffs, 3)
	assert.ErrorIs(t, err, ErrCapacity)
}
