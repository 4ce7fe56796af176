package obfuscate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaesarRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
		key  int
	}{
		{"ascii", "hello world", 2},
		{"empty", "", 2},
		{"punctuation", "Hello World 123! @#$%", 7},
		{"utf8", "héllo wörld ☃", 200},
		{"key wraps", "abc", 300},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := CaesarEncrypt([]byte(tc.in), tc.key)
			require.Len(t, enc, len([]byte(tc.in)))
			assert.Equal(t, tc.in, string(CaesarDecrypt(enc, tc.key)))
		})
	}
}

func TestCaesarPositionDependentShift(t *testing.T) {
	enc := CaesarEncrypt([]byte{0, 0, 0, 0}, 2)
	// Each byte shifts by (key + index) mod 256.
	assert.Equal(t, []byte{2, 3, 4, 5}, enc)
}

func TestCaesarByteWrapAround(t *testing.T) {
	enc := CaesarEncrypt([]byte{0xFF, 0xFE}, 2)
	assert.Equal(t, []byte{0x01, 0x01}, enc)
	assert.Equal(t, []byte{0xFF, 0xFE}, CaesarDecrypt(enc, 2))
}

func TestCaesarLongInputShiftWraps(t *testing.T) {
	in := make([]byte, 600) // positions past 255 wrap the shift
	enc := CaesarEncrypt(in, 0)
	assert.Equal(t, byte(0), enc[256])
	assert.Equal(t, in, CaesarDecrypt(enc, 0))
}
