// Package config holds the shared constants and per-call settings for the
// steganographic JPEG codec.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Geometry of the baseline pipeline.
const (
	// BlockSize is the dimension of a DCT block in pixels.
	BlockSize = 8
	// BlockPixels is the number of samples in one block.
	BlockPixels = BlockSize * BlockSize
	// NumComponents is the number of colour planes (Y, Cb, Cr).
	NumComponents = 3

	// StegoChannel is the index of the plane carrying embedded bits (Cb).
	StegoChannel = 1

	// BitsPerMCU is the number of payload bits embedded in each MCU.
	BitsPerMCU = 16
)

// Comment-segment type IDs. Every COM payload starts with one of these.
const (
	CommentTypeGeneric  = 0
	CommentTypeMsgLen   = 1
	CommentTypePassword = 2
)

// Attribution is the type-0 comment written into every stego JPEG.
const Attribution = "created using gaurav's image-steganography"

// EmbeddingPatterns are the four permutations of zigzag positions 25..40
// cycled MCU-by-MCU so the modified coefficients spread evenly across the
// mid-frequency slots.
var EmbeddingPatterns = [4][BitsPerMCU]int{
	{25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40},
	{40, 39, 38, 37, 36, 35, 34, 33, 32, 31, 30, 29, 28, 27, 26, 25},
	{28, 27, 26, 25, 29, 30, 31, 32, 33, 34, 35, 36, 40, 39, 38, 37},
	{25, 26, 27, 28, 36, 35, 34, 33, 32, 31, 30, 29, 37, 38, 39, 40},
}

const (
	aesValueBytes = 16

	defaultAESKey    = "juccqhjyodhhfymt"
	defaultAESIV     = "blnzllpshgivhxjk"
	defaultCaesarKey = 2
)

// Environment variable names recognised by Load.
const (
	EnvAESKey    = "STEGO_AES_KEY"
	EnvAESIV     = "STEGO_AES_IV"
	EnvCaesarKey = "STEGO_CAESAR_KEY"
)

// Config carries the obfuscation settings for one encode or decode call.
// It is passed explicitly into the pipelines; the codec never reads the
// environment on its own.
type Config struct {
	// AESKey and AESIV are the 16-byte UTF-8 key and IV protecting the
	// password blob stored in the type-2 comment segment.
	AESKey string
	AESIV  string

	// CaesarKey is the base shift applied to the payload before embedding.
	// Only the low byte is significant.
	CaesarKey int
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		AESKey:    defaultAESKey,
		AESIV:     defaultAESIV,
		CaesarKey: defaultCaesarKey,
	}
}

// Load reads STEGO_AES_KEY, STEGO_AES_IV and STEGO_CAESAR_KEY from the
// environment. AES values that are not exactly 16 bytes fall back to the
// defaults silently, as does a non-numeric Caesar key.
func Load() Config {
	cfg := Default()
	if v := strings.TrimSpace(os.Getenv(EnvAESKey)); len(v) == aesValueBytes {
		cfg.AESKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAESIV)); len(v) == aesValueBytes {
		cfg.AESIV = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCaesarKey)); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			cfg.CaesarKey = k
		}
	}
	return cfg
}
