package codec

import (
	"fmt"
	"math"

	"github.com/mkrautz/jpegstego/config"
	"github.com/mkrautz/jpegstego/internal/bitstream"
	"github.com/mkrautz/jpegstego/internal/huffman"
	"github.com/mkrautz/jpegstego/internal/segment"
)

// Decoder parses a stego JPEG down to quantised coefficient planes. It
// performs no IDCT and no upsampling: the extraction path needs the same
// integers the encoder wrote, nothing more.
type Decoder struct {
	parser *segment.Parser
	reader *bitstream.Reader

	scanReady        bool
	currentMCURow    int
	restartCountdown int
	dcPred           []int16
}

// NewDecoder returns a decoder over an in-memory JPEG stream.
func NewDecoder(data []byte, cfg config.Config) *Decoder {
	return &Decoder{parser: segment.NewParser(data, cfg)}
}

// Start parses all headers up to and including the scan header. It
// returns true when entropy-coded data is ready to be decoded, false on
// a clean EOI with no scan.
func (d *Decoder) Start() (bool, error) {
	ok, err := d.parser.NextScan()
	if err != nil {
		if classified(err) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if ok {
		d.reader = bitstream.NewReader(d.parser)
		d.currentMCURow = 0
		d.scanReady = true
		d.resetScanState()
	}
	return ok, nil
}

// Accessors for the parsed metadata.

// Width returns the frame width in pixels.
func (d *Decoder) Width() int { return d.parser.Width }

// Height returns the frame height in pixels.
func (d *Decoder) Height() int { return d.parser.Height }

// MCUCols returns the number of MCU columns.
func (d *Decoder) MCUCols() int { return d.parser.MCUCols }

// MCURows returns the number of MCU rows.
func (d *Decoder) MCURows() int { return d.parser.MCURows }

// StoredPassword returns the decrypted password from the type-2 comment.
func (d *Decoder) StoredPassword() string { return d.parser.StoredPassword }

// HasPassword reports whether a type-2 comment was present.
func (d *Decoder) HasPassword() bool { return d.parser.HasPassword }

// MessageLength returns the embedded payload length from the type-1
// comment, or 0 when absent.
func (d *Decoder) MessageLength() int { return d.parser.MessageLength }

// resetScanState clears the bit reader, the DC predictions and the
// restart countdown, as required at scan start and after every RSTn.
func (d *Decoder) resetScanState() {
	d.reader.Reset()
	d.dcPred = make([]int16, len(d.parser.ScanOrder))
	if d.parser.RestartInterval > 0 {
		d.restartCountdown = d.parser.RestartInterval
	} else {
		d.restartCountdown = math.MaxInt
	}
}

// DecodeCoefficients decodes every MCU row and returns one
// zigzag-ordered coefficient plane per scan component, blocks laid out
// MCU-row-major.
func (d *Decoder) DecodeCoefficients() ([][]int16, error) {
	if !d.scanReady {
		return nil, fmt.Errorf("%w: no scan data", ErrInvalidImage)
	}
	p := d.parser

	planes := make([][]int16, len(p.ScanOrder))
	for i, c := range p.ScanOrder {
		planes[i] = make([]int16, config.BlockPixels*c.H*c.V*p.MCUCols*p.MCURows)
	}

	var block [64]int16
outer:
	for mcuRow := 0; mcuRow < p.MCURows; mcuRow++ {
		d.currentMCURow++
		for mcuCol := 0; mcuCol < p.MCUCols; mcuCol++ {
			for ci, c := range p.ScanOrder {
				stride := config.BlockPixels * c.H * p.MCUCols
				pos := config.BlockPixels*mcuCol*c.H + mcuRow*c.V*stride
				for v := 0; v < c.V; v++ {
					for h := 0; h < c.H; h++ {
						if err := d.decodeBlock(&block, ci, c); err != nil {
							return nil, err
						}
						copy(planes[ci][pos+h*config.BlockPixels:], block[:])
					}
					pos += stride
				}
			}
			d.restartCountdown--
			if d.restartCountdown <= 0 {
				ok, err := d.handleRestart()
				if err != nil {
					return nil, err
				}
				if !ok {
					break outer
				}
			}
		}
	}

	if err := d.finish(); err != nil {
		return nil, err
	}
	return planes, nil
}

// decodeBlock reads one block: the DC category and difference, then the
// AC (run, size) symbols until EOB or position 63.
func (d *Decoder) decodeBlock(block *[64]int16, ci int, c *segment.Component) error {
	for i := range block {
		block[i] = 0
	}
	dcTable := d.parser.HuffTable(huffman.ClassDC, c.DCTable)
	acTable := d.parser.HuffTable(huffman.ClassAC, c.ACTable)

	s, err := dcTable.Decode(d.reader)
	if err != nil {
		return d.scanErr(err)
	}
	if s > 16 {
		return fmt.Errorf("%w: excessive DC category", ErrMalformedStream)
	}
	dc := d.dcPred[ci]
	if s > 0 {
		diff, err := d.reader.ReceiveExtend(int(s))
		if err != nil {
			return d.scanErr(err)
		}
		dc += diff
		d.dcPred[ci] = dc
	}
	block[0] = dc

	k := 1
	for {
		rs, err := acTable.Decode(d.reader)
		if err != nil {
			return d.scanErr(err)
		}
		run := int(rs >> 4)
		size := int(rs & 0x0F)
		k += run
		if size != 0 {
			if k > 63 {
				return fmt.Errorf("%w: coefficient index out of range", ErrMalformedStream)
			}
			v, err := d.reader.ReceiveExtend(size)
			if err != nil {
				return d.scanErr(err)
			}
			block[k] = v
		} else if rs != huffman.SymZRL {
			break // EOB
		}
		k++
		if k >= config.BlockPixels {
			break
		}
	}
	return nil
}

// handleRestart consumes a pending RSTn marker, resetting the scan
// state. A false return without error means a non-restart marker ended
// the scan early.
func (d *Decoder) handleRestart() (bool, error) {
	if err := d.reader.Need(24); err != nil {
		return false, d.scanErr(err)
	}
	if m := d.reader.Marker(); m >= segment.RST0 && m <= segment.RST7 {
		d.resetScanState()
		return true, nil
	}
	return false, nil
}

// finish closes out the scan: any marker seen by the bit reader is
// handed back to the parser, otherwise trailing pad bytes are skipped so
// the parser sits on the next marker.
func (d *Decoder) finish() error {
	if d.currentMCURow < d.parser.MCURows && d.reader.Marker() == 0 {
		return nil
	}
	d.scanReady = false
	if m := d.reader.Marker(); m != 0 {
		d.parser.SetPending(m)
		return nil
	}
	if err := d.parser.SkipScanPadding(); err != nil {
		return d.scanErr(err)
	}
	return nil
}

// scanErr classifies low-level scan failures as malformed-stream.
func (d *Decoder) scanErr(err error) error {
	if classified(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrMalformedStream, err)
}
