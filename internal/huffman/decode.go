package huffman

import (
	"errors"
	"math"

	"github.com/mkrautz/jpegstego/internal/bitstream"
)

// Decode-side errors.
var (
	// ErrBadSpec reports an over-subscribed or inconsistent DHT table.
	ErrBadSpec = errors.New("huffman: bad code length table")
	// ErrBadCode reports a bit pattern that matches no code in the table.
	ErrBadCode = errors.New("huffman: bad code in scan data")
)

// fastBits is the width of the single-lookup fast path. Codes up to this
// length resolve in one table index; longer codes fall back to the
// canonical search.
const fastBits = 9

const fastNone = 0xFF // fast-table sentinel for codes longer than fastBits

// DecTable is a decoder-side Huffman table: a 512-entry fast lookup plus
// per-length maxCode/delta arrays permitting canonical decode of codes
// from fastBits+1 up to 16 bits.
type DecTable struct {
	fast    [1 << fastBits]uint8
	values  []byte
	sizes   []uint8
	maxCode [18]int32 // codes left-aligned to 16 bits; [17] is a sentinel
	delta   [17]int32
}

// NewDecTable builds the decode structures for a table spec.
func NewDecTable(spec *Spec) (*DecTable, error) {
	n := spec.NumSymbols()
	if n != len(spec.Symbols) {
		return nil, ErrBadSpec
	}

	t := &DecTable{
		values: spec.Symbols,
		sizes:  make([]uint8, n),
	}
	k := 0
	for l := 0; l < 16; l++ {
		for j := 0; j < int(spec.Counts[l]); j++ {
			t.sizes[k] = uint8(l + 1)
			k++
		}
	}

	// Canonical code assignment, tracking the first index and upper code
	// bound at each length.
	codes := make([]int32, n)
	var code int32
	k = 0
	for l := 1; l <= 16; l++ {
		t.delta[l] = int32(k) - code
		if k < n && int(t.sizes[k]) == l {
			for k < n && int(t.sizes[k]) == l {
				codes[k] = code
				k++
				code++
			}
			if code-1 >= 1<<l {
				return nil, ErrBadSpec
			}
		}
		t.maxCode[l] = code << (16 - l)
		code <<= 1
	}
	t.maxCode[17] = math.MaxInt32

	for i := range t.fast {
		t.fast[i] = fastNone
	}
	for i := 0; i < n; i++ {
		size := int(t.sizes[i])
		if size > fastBits {
			continue
		}
		base := int(codes[i]) << (fastBits - size)
		for j := 0; j < 1<<(fastBits-size); j++ {
			t.fast[base+j] = uint8(i)
		}
	}
	return t, nil
}

// Decode reads the next Huffman-coded symbol from r.
func (t *DecTable) Decode(r *bitstream.Reader) (byte, error) {
	if err := r.Need(16); err != nil {
		return 0, err
	}
	idx := t.fast[r.Peek()>>(32-fastBits)]
	if idx != fastNone {
		r.Skip(int(t.sizes[idx]))
		return t.values[idx], nil
	}
	return t.decodeSlow(r)
}

// decodeSlow resolves codes longer than fastBits by finding the smallest
// length whose left-aligned code bound exceeds the peeked bits.
func (t *DecTable) decodeSlow(r *bitstream.Reader) (byte, error) {
	codeValue := int32(r.Peek() >> 16)
	length := fastBits + 1
	for codeValue >= t.maxCode[length] {
		length++
	}
	if length > 16 {
		return 0, ErrBadCode
	}
	idx := (codeValue >> (16 - length)) + t.delta[length]
	if idx < 0 || int(idx) >= len(t.values) {
		return 0, ErrBadCode
	}
	r.Skip(length)
	return t.values[idx], nil
}
