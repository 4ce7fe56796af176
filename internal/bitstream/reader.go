package bitstream

import "io"

// Reader refills a left-aligned 32-bit accumulator from a byte source,
// removing the 0x00 stuffing byte after any data 0xFF. A 0xFF followed
// by a nonzero byte is a marker: the reader records it, stops refilling,
// and pads with zero bytes so in-flight decodes terminate.
type Reader struct {
	src    io.ByteReader
	buf    uint32 // bits left-aligned at the top
	n      int    // valid bits in buf
	noMore bool
	marker byte
}

// NewReader returns a Reader over src. The source is typically the
// segment parser positioned just past the SOS header.
func NewReader(src io.ByteReader) *Reader {
	return &Reader{src: src}
}

// fill tops the accumulator up past 24 valid bits.
func (r *Reader) fill() error {
	for {
		var b byte
		if !r.noMore {
			v, err := r.src.ReadByte()
			if err != nil {
				return err
			}
			b = v
			if b == 0xFF {
				next, err := r.src.ReadByte()
				if err != nil {
					return err
				}
				if next != 0 {
					r.marker = next
					r.noMore = true
				}
			}
		}
		r.buf |= uint32(b) << (24 - r.n)
		r.n += 8
		if r.n > 24 {
			return nil
		}
	}
}

// Need ensures at least want bits are buffered, refilling if necessary.
func (r *Reader) Need(want int) error {
	if r.n < want {
		return r.fill()
	}
	return nil
}

// Peek returns the accumulator with the next bit to be consumed in the
// most significant position.
func (r *Reader) Peek() uint32 {
	return r.buf
}

// Skip consumes n buffered bits.
func (r *Reader) Skip(n int) {
	r.buf <<= n
	r.n -= n
}

// ReceiveExtend reads an n-bit magnitude (n >= 1) and sign-extends it:
// values below 1<<(n-1) decode as negative per ITU-T T.81 F.2.2.1.
func (r *Reader) ReceiveExtend(n int) (int16, error) {
	if r.n < 24 {
		if err := r.fill(); err != nil {
			return 0, err
		}
	}
	v := int32(r.buf >> (32 - n))
	r.buf <<= n
	r.n -= n

	threshold := int32(1) << (n - 1)
	if v < threshold {
		v -= threshold*2 - 1
	}
	return int16(v), nil
}

// Marker returns the marker byte that interrupted the stream, or 0 if
// none has been seen.
func (r *Reader) Marker() byte {
	return r.marker
}

// Reset clears the accumulator and marker state, as required after a
// restart marker.
func (r *Reader) Reset() {
	r.buf = 0
	r.n = 0
	r.noMore = false
	r.marker = 0
}
