// Package embed writes and reads payload bits in the least-significant
// bits of mid-frequency Cb coefficients, cycling four position patterns
// MCU-by-MCU.
package embed

import (
	"errors"

	"github.com/mkrautz/jpegstego/config"
)

// ErrCapacity reports a payload that needs more MCUs than the
// coefficient sequence holds.
var ErrCapacity = errors.New("embed: payload exceeds coefficient capacity")

// mcusFor returns the number of MCUs needed to carry n payload bytes.
func mcusFor(n int) int {
	return (n*8 + config.BitsPerMCU - 1) / config.BitsPerMCU
}

// Embed writes the payload bits MSB-first into the LSBs of coeffs, a
// zigzag-ordered block sequence (64 values per MCU). Each MCU takes
// BitsPerMCU bits at the positions named by its pattern; all other
// coefficients are left untouched.
func Embed(coeffs []int16, payload []byte) error {
	mcus := mcusFor(len(payload))
	if mcus*config.BlockPixels > len(coeffs) {
		return ErrCapacity
	}

	totalBits := len(payload) * 8
	bit := 0
	for m := 0; m < mcus; m++ {
		block := coeffs[m*config.BlockPixels : (m+1)*config.BlockPixels]
		pattern := &config.EmbeddingPatterns[m%len(config.EmbeddingPatterns)]
		for j := 0; j < config.BitsPerMCU && bit < totalBits; j++ {
			v := int16(payload[bit/8] >> (7 - bit%8) & 1)
			block[pattern[j]] = block[pattern[j]]&^1 | v
			bit++
		}
	}
	return nil
}

// Extract mirrors Embed: it collects length*8 LSBs from the pattern
// positions, assembling bytes MSB-first.
func Extract(coeffs []int16, length int) ([]byte, error) {
	mcus := mcusFor(length)
	if mcus*config.BlockPixels > len(coeffs) {
		return nil, ErrCapacity
	}

	out := make([]byte, length)
	totalBits := length * 8
	bit := 0
	for m := 0; m < mcus && bit < totalBits; m++ {
		block := coeffs[m*config.BlockPixels : (m+1)*config.BlockPixels]
		pattern := &config.EmbeddingPatterns[m%len(config.EmbeddingPatterns)]
		for j := 0; j < config.BitsPerMCU && bit < totalBits; j++ {
			out[bit/8] |= byte(block[pattern[j]]&1) << (7 - bit%8)
			bit++
		}
	}
	return out, nil
}
