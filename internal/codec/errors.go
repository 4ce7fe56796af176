// Package codec implements the encoder and decoder pipelines that turn
// an RGB raster into a stego JPEG and back into quantised coefficient
// planes plus the stored metadata.
package codec

import "errors"

// Error kinds surfaced by the pipelines. The root package re-exports
// these so callers can classify failures with errors.Is.
var (
	// ErrInvalidImage reports an unusable input: an empty post-crop
	// raster, a stream with no SOI/SOF before EOF, a progressive or
	// non-8-bit frame, bad segment lengths, or an undecryptable stored
	// password blob.
	ErrInvalidImage = errors.New("invalid image")
	// ErrMessageTooLong reports a payload larger than the cover's
	// capacity.
	ErrMessageTooLong = errors.New("message too long")
	// ErrInvalidPassword reports a stored password that decrypts but
	// does not byte-equal the supplied one.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrNoHiddenMessage reports a well-formed JPEG with no embedded
	// payload length.
	ErrNoHiddenMessage = errors.New("no hidden message")
	// ErrMalformedStream reports scan-level damage: a bad Huffman code,
	// an unexpected marker, or a truncated entropy-coded segment.
	ErrMalformedStream = errors.New("malformed stream")
)

var kinds = []error{
	ErrInvalidImage, ErrMessageTooLong, ErrInvalidPassword,
	ErrNoHiddenMessage, ErrMalformedStream,
}

// classified reports whether err already carries one of the error kinds.
func classified(err error) bool {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
