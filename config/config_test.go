package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Len(t, cfg.AESKey, 16)
	assert.Len(t, cfg.AESIV, 16)
	assert.Equal(t, 2, cfg.CaesarKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvAESKey, "0123456789abcdef")
	t.Setenv(EnvAESIV, "fedcba9876543210")
	t.Setenv(EnvCaesarKey, "17")

	cfg := Load()
	assert.Equal(t, "0123456789abcdef", cfg.AESKey)
	assert.Equal(t, "fedcba9876543210", cfg.AESIV)
	assert.Equal(t, 17, cfg.CaesarKey)
}

func TestLoadFallsBackSilently(t *testing.T) {
	t.Setenv(EnvAESKey, "too short")
	t.Setenv(EnvAESIV, "definitely more than sixteen bytes")
	t.Setenv(EnvCaesarKey, "not a number")

	cfg := Load()
	assert.Equal(t, Default(), cfg)
}

func TestEmbeddingPatterns(t *testing.T) {
	// Every pattern is a permutation of zigzag positions 25..40.
	for pi, pattern := range EmbeddingPatterns {
		seen := map[int]bool{}
		for _, pos := range pattern {
			assert.GreaterOrEqual(t, pos, 25, "pattern %d", pi)
			assert.LessOrEqual(t, pos, 40, "pattern %d", pi)
			assert.False(t, seen[pos], "pattern %d repeats position %d", pi, pos)
			seen[pos] = true
		}
	}
}
