// Package obfuscate implements the two format-level obfuscation layers:
// a position-dependent Caesar byte shift for the payload and an
// AES-128-CBC Base64 wrapper for the stored password. Neither is a
// security boundary; both exist to satisfy the on-disk format contract.
package obfuscate

// CaesarEncrypt shifts each byte by (key+i) mod 256, where i is the byte
// position. The output has exactly the same length as the input, which
// the embedding pipeline relies on.
func CaesarEncrypt(data []byte, key int) []byte {
	k := key & 0xFF
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = byte(int(b) + (k+i)%256)
	}
	return out
}

// CaesarDecrypt reverses CaesarEncrypt with the same key.
func CaesarDecrypt(data []byte, key int) []byte {
	k := key & 0xFF
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = byte(int(b) - (k+i)%256)
	}
	return out
}
