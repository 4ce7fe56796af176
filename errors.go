package jpegstego

import "github.com/mkrautz/jpegstego/internal/codec"

// Sentinel errors returned by Encode, Decode and Analyze. Returned
// errors wrap one of these; classify with errors.Is.
var (
	// ErrInvalidImage reports an unusable input: a raster that crops to
	// nothing, a stream with no SOI/SOF before EOF, a progressive or
	// non-8-bit frame, bad segment lengths, or an undecryptable stored
	// password blob.
	ErrInvalidImage = codec.ErrInvalidImage
	// ErrMessageTooLong reports a message larger than the cover's
	// capacity. The wrapped message includes both byte counts.
	ErrMessageTooLong = codec.ErrMessageTooLong
	// ErrInvalidPassword reports a stored password that does not
	// byte-equal the supplied one.
	ErrInvalidPassword = codec.ErrInvalidPassword
	// ErrNoHiddenMessage reports a well-formed JPEG that carries no
	// payload length.
	ErrNoHiddenMessage = codec.ErrNoHiddenMessage
	// ErrMalformedStream reports scan-level damage: a bad Huffman code,
	// an unexpected marker, or a truncated entropy-coded segment.
	ErrMalformedStream = codec.ErrMalformedStream
)
