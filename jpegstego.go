// Package jpegstego encodes an RGB raster into a baseline JPEG while
// hiding a message in the least-significant bits of quantised DCT
// coefficients of the Cb plane, and parses such a JPEG to recover the
// message.
//
// The message is Caesar-shifted before embedding and its length is
// recorded in a typed comment segment, alongside an AES-128-CBC blob of
// the protecting password. Both layers are format obfuscation, not
// security: decoding checks the supplied password for byte equality
// against the stored one and nothing else.
package jpegstego

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkrautz/jpegstego/config"
	"github.com/mkrautz/jpegstego/internal/codec"
	"github.com/mkrautz/jpegstego/internal/embed"
	"github.com/mkrautz/jpegstego/internal/obfuscate"
)

// Capacity returns the maximum message size in bytes for a cover of the
// given pixel dimensions.
func Capacity(width, height int) int {
	mcus := (width / config.BlockSize) * (height / config.BlockSize)
	return mcus * config.BitsPerMCU / 8
}

// Encode hides message in the rgb raster and returns the stego JPEG.
// rgb is a tightly packed width*height*3 slice (R, G, B per pixel,
// row-major); the raster is cropped to block-size multiples first.
// Quality outside [1, 100] is clamped.
func Encode(rgb []byte, width, height int, message, password string, quality int, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	start := time.Now()
	id := uuid.New()

	out, err := encode(o, rgb, width, height, message, password, quality)
	logCall(o.logger, "encode", id, start, err,
		slog.Int("width", width), slog.Int("height", height), slog.Int("quality", quality))
	return out, err
}

func encode(o options, rgb []byte, width, height int, message, password string, quality int) ([]byte, error) {
	if width <= 0 || height <= 0 || len(rgb) != width*height*3 {
		return nil, fmt.Errorf("%w: raster is not a packed %dx%d RGB buffer", ErrInvalidImage, width, height)
	}

	cropped, cw, ch, err := cropToBlocks(rgb, width, height)
	if err != nil {
		return nil, err
	}

	capacity := Capacity(cw, ch)
	messageBytes := []byte(message)
	if len(messageBytes) > capacity {
		return nil, fmt.Errorf("%w: message is %d bytes, capacity is %d bytes",
			ErrMessageTooLong, len(messageBytes), capacity)
	}

	payload := obfuscate.CaesarEncrypt(messageBytes, o.cfg.CaesarKey)
	return codec.NewEncoder(o.cfg, quality, cropped, cw, ch, payload, password).Encode()
}

// cropToBlocks trims the raster so both dimensions are multiples of the
// block size, keeping the top-left region.
func cropToBlocks(rgb []byte, width, height int) ([]byte, int, int, error) {
	cw := width / config.BlockSize * config.BlockSize
	ch := height / config.BlockSize * config.BlockSize
	if cw == 0 || ch == 0 {
		return nil, 0, 0, fmt.Errorf("%w: image must be at least %dx%d pixels",
			ErrInvalidImage, config.BlockSize, config.BlockSize)
	}
	if cw == width && ch == height {
		return rgb, cw, ch, nil
	}
	out := make([]byte, cw*ch*3)
	for y := 0; y < ch; y++ {
		copy(out[y*cw*3:(y+1)*cw*3], rgb[y*width*3:y*width*3+cw*3])
	}
	return out, cw, ch, nil
}

// Decode extracts the hidden message from a stego JPEG. The supplied
// password must byte-equal the stored one.
func Decode(jpegBytes []byte, password string, opts ...Option) (string, error) {
	o := newOptions(opts)
	start := time.Now()
	id := uuid.New()

	message, err := decode(o, jpegBytes, password)
	logCall(o.logger, "decode", id, start, err, slog.Int("input_bytes", len(jpegBytes)))
	return message, err
}

func decode(o options, jpegBytes []byte, password string) (string, error) {
	dec := codec.NewDecoder(jpegBytes, o.cfg)
	ok, err := dec.Start()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: no scan data", ErrInvalidImage)
	}

	if !dec.HasPassword() || dec.StoredPassword() != password {
		return "", ErrInvalidPassword
	}
	length := dec.MessageLength()
	if length <= 0 {
		return "", ErrNoHiddenMessage
	}

	planes, err := dec.DecodeCoefficients()
	if err != nil {
		return "", err
	}
	if len(planes) <= config.StegoChannel {
		return "", fmt.Errorf("%w: no chroma plane to extract from", ErrNoHiddenMessage)
	}

	payload, err := embed.Extract(planes[config.StegoChannel], length)
	if err != nil {
		return "", fmt.Errorf("%w: recorded message length exceeds image capacity", ErrMalformedStream)
	}
	return string(obfuscate.CaesarDecrypt(payload, o.cfg.CaesarKey)), nil
}

// Analyze reports a stego JPEG's layout and embedded metadata without
// requiring the password. Only headers are read; the scan itself is not
// decoded.
func Analyze(jpegBytes []byte) (Analysis, error) {
	o := newOptions(nil)
	start := time.Now()
	id := uuid.New()

	a, err := analyze(o, jpegBytes)
	logCall(o.logger, "analyze", id, start, err, slog.Int("input_bytes", len(jpegBytes)))
	return a, err
}

func analyze(o options, jpegBytes []byte) (Analysis, error) {
	dec := codec.NewDecoder(jpegBytes, o.cfg)
	ok, err := dec.Start()
	if err != nil {
		return Analysis{}, err
	}
	if !ok {
		return Analysis{}, fmt.Errorf("%w: no scan data", ErrInvalidImage)
	}

	a := Analysis{
		Width:         dec.Width(),
		Height:        dec.Height(),
		MCUCols:       dec.MCUCols(),
		MCURows:       dec.MCURows(),
		MessageLength: dec.MessageLength(),
		HasPassword:   dec.HasPassword(),
		TotalCapacity: dec.MCUCols() * dec.MCURows() * config.BitsPerMCU / 8,
	}
	if a.MessageLength > 0 {
		a.UsedMCUs = (a.MessageLength*8 + config.BitsPerMCU - 1) / config.BitsPerMCU
	}
	return a, nil
}

// logCall emits the per-call diagnostic event.
func logCall(logger *slog.Logger, op string, id uuid.UUID, start time.Time, err error, attrs ...slog.Attr) {
	attrs = append([]slog.Attr{
		slog.String("request_id", id.String()),
		slog.Duration("elapsed", time.Since(start)),
	}, attrs...)
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		logger.LogAttrs(context.Background(), slog.LevelWarn, op+" failed", attrs...)
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, op+" complete", attrs...)
}
