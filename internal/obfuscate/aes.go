package obfuscate

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

// AESEncrypt encrypts plaintext with AES-128-CBC and PKCS#7 padding and
// returns the ciphertext Base64-encoded. Key and IV must be 16 bytes.
func AESEncrypt(key, iv, plaintext string) (string, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", fmt.Errorf("obfuscate: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return "", fmt.Errorf("obfuscate: IV must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, []byte(iv)).CryptBlocks(ct, padded)
	return base64.StdEncoding.EncodeToString(ct), nil
}

// AESDecrypt reverses AESEncrypt. It fails on malformed Base64, on a
// ciphertext that is not a whole number of blocks, and on bad padding.
func AESDecrypt(key, iv, encoded string) (string, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", fmt.Errorf("obfuscate: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return "", fmt.Errorf("obfuscate: IV must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	ct, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("obfuscate: %w", err)
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", errors.New("obfuscate: ciphertext is not a whole number of blocks")
	}

	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, []byte(iv)).CryptBlocks(pt, ct)

	unpadded, err := pkcs7Unpad(pt, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n < 1 || n > blockSize || n > len(data) {
		return nil, errors.New("obfuscate: bad padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("obfuscate: bad padding")
		}
	}
	return data[:len(data)-n], nil
}
