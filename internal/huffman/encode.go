package huffman

import (
	"math/bits"

	"github.com/mkrautz/jpegstego/internal/bitstream"
)

// EncTable is an encoder-side Huffman table: a symbol-indexed lookup of
// canonical codewords and their bit lengths.
type EncTable struct {
	code [256]uint16
	size [256]uint8
}

// NewEncTable derives the canonical encoding lookup from a table spec,
// following ITU-T T.81 Annex C figures C.1 to C.3.
func NewEncTable(spec *Spec) *EncTable {
	// Figure C.1: expand the bit-length counts into a length per code.
	sizes := make([]uint8, 0, spec.NumSymbols())
	for l := 1; l <= 16; l++ {
		for j := 0; j < int(spec.Counts[l-1]); j++ {
			sizes = append(sizes, uint8(l))
		}
	}

	// Figure C.2: assign codes in order, shifting left at every length
	// boundary.
	codes := make([]uint16, len(sizes))
	var code uint16
	if len(sizes) > 0 {
		current := sizes[0]
		for k, sz := range sizes {
			for current < sz {
				code <<= 1
				current++
			}
			codes[k] = code
			code++
		}
	}

	// Figure C.3: scatter into the symbol-indexed lookup.
	t := &EncTable{}
	for k, sym := range spec.Symbols {
		t.code[sym] = codes[k]
		t.size[sym] = sizes[k]
	}
	return t
}

// Code returns the codeword and bit length for a symbol.
func (t *EncTable) Code(sym byte) (uint16, int) {
	return t.code[sym], int(t.size[sym])
}

// EncodeBlock entropy-codes one zigzag-ordered quantised block: the DC
// coefficient as a category plus magnitude of its difference from
// dcPred, then the AC coefficients as (run, size) symbols with ZRL for
// runs of sixteen and EOB for a trailing run. It returns the block's DC
// coefficient for the caller's prediction state.
func EncodeBlock(w *bitstream.Writer, blk []int16, dcPred int16, dc, ac *EncTable) int16 {
	diff := int(blk[0]) - int(dcPred)
	cat := magnitudeBits(diff)
	code, size := dc.Code(byte(cat))
	w.Write(uint32(code), size)
	if cat > 0 {
		if diff < 0 {
			diff += (1 << cat) - 1
		}
		w.Write(uint32(diff), cat)
	}

	run := 0
	for k := 1; k < 64; k++ {
		if blk[k] == 0 {
			run++
			continue
		}
		for run >= 16 {
			code, size = ac.Code(SymZRL)
			w.Write(uint32(code), size)
			run -= 16
		}
		cat = magnitudeBits(int(blk[k]))
		code, size = ac.Code(byte(run<<4 | cat))
		w.Write(uint32(code), size)
		v := int(blk[k])
		if v < 0 {
			v += (1 << cat) - 1
		}
		w.Write(uint32(v), cat)
		run = 0
	}
	if run > 0 {
		code, size = ac.Code(SymEOB)
		w.Write(uint32(code), size)
	}
	return blk[0]
}

// magnitudeBits returns the number of bits needed to represent |v|, the
// JPEG category of a coefficient.
func magnitudeBits(v int) int {
	if v < 0 {
		v = -v
	}
	return bits.Len(uint(v))
}
