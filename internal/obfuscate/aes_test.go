package obfuscate

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey = "juccqhjyodhhfymt"
	testIV  = "blnzllpshgivhxjk"
)

func TestAESRoundTrip(t *testing.T) {
	for _, plaintext := range []string{"", "x", "test1234", "sixteen bytes!!!", "a much longer password with spaces"} {
		enc, err := AESEncrypt(testKey, testIV, plaintext)
		require.NoError(t, err)

		// The blob stored in the comment segment is plain Base64.
		_, err = base64.StdEncoding.DecodeString(enc)
		require.NoError(t, err)

		dec, err := AESDecrypt(testKey, testIV, enc)
		require.NoError(t, err)
		assert.Equal(t, plaintext, dec)
	}
}

func TestAESDeterministic(t *testing.T) {
	a, err := AESEncrypt(testKey, testIV, "secret")
	require.NoError(t, err)
	b, err := AESEncrypt(testKey, testIV, "secret")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAESBadKeyLength(t *testing.T) {
	_, err := AESEncrypt("short", testIV, "secret")
	assert.Error(t, err)
	_, err = AESEncrypt(testKey, "short", "secret")
	assert.Error(t, err)
}

func TestAESDecryptMalformed(t *testing.T) {
	_, err := AESDecrypt(testKey, testIV, "not base64 !!!")
	assert.Error(t, err)

	// Valid Base64, wrong block size.
	_, err = AESDecrypt(testKey, testIV, base64.StdEncoding.EncodeToString([]byte("abc")))
	assert.Error(t, err)

	_, err = AESDecrypt(testKey, testIV, "")
	assert.Error(t, err)
}

func TestAESDecryptWrongKeyFailsOrDiffers(t *testing.T) {
	enc, err := AESEncrypt(testKey, testIV, "secret")
	require.NoError(t, err)

	dec, err := AESDecrypt("tmyfhhdoyjhqccuj", testIV, enc)
	if err == nil {
		assert.NotEqual(t, "secret", dec)
	}
}
