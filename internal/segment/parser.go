package segment

import (
	"errors"
	"fmt"

	"github.com/mkrautz/jpegstego/config"
	"github.com/mkrautz/jpegstego/internal/huffman"
	"github.com/mkrautz/jpegstego/internal/obfuscate"
)

// Parse-side errors. Callers classify with errors.Is.
var (
	// ErrSyntax reports a structurally invalid stream: bad lengths,
	// missing markers, undecodable metadata.
	ErrSyntax = errors.New("segment: invalid JPEG structure")
	// ErrUnsupported reports a valid but unsupported stream, such as a
	// progressive frame or 12-bit samples.
	ErrUnsupported = errors.New("segment: unsupported JPEG feature")
	// ErrTruncated reports a stream that ended mid-segment or mid-scan.
	ErrTruncated = errors.New("segment: truncated stream")
)

// Component describes one colour plane from the frame header. Huffman
// and quantisation tables are referenced by small-integer ID into the
// parser's per-decode arrays, never by owning pointer.
type Component struct {
	ID      int
	H, V    int // sampling factors, 1..4
	QuantID int

	// DCTable and ACTable are set when the scan header resolves this
	// component.
	DCTable, ACTable int
}

// Parser walks a JPEG byte stream: headers first, then scan bytes via
// ReadByte. It collects the stego metadata carried in COM segments.
type Parser struct {
	data []byte
	pos  int

	cfg config.Config

	// IgnoreTruncation, when set, makes ReadByte past the end of input
	// yield a synthetic EOI instead of an error; the bulk payload reads
	// (readBytes, skip) still fail with ErrTruncated. Nothing in this
	// module sets it;
	// it is the switch a best-effort caller would flip to salvage
	// truncated uploads.
	IgnoreTruncation bool
	synthOdd         bool

	headerParsed bool
	foundEOI     bool
	pending      byte // pending marker, 0 when none

	Width, Height    int
	MCUCols, MCURows int
	MaxH, MaxV       int

	Components []*Component
	ScanOrder  []*Component

	quantTables [4][64]byte
	huffTables  [8]*huffman.DecTable

	RestartInterval int

	StoredPassword string
	HasPassword    bool
	MessageLength  int
}

// NewParser returns a parser over an in-memory JPEG stream.
func NewParser(data []byte, cfg config.Config) *Parser {
	return &Parser{data: data, cfg: cfg}
}

// ReadByte returns the next stream byte. At end of input it fails with
// ErrTruncated unless IgnoreTruncation is set, in which case it yields
// an endless synthetic EOI marker.
func (p *Parser) ReadByte() (byte, error) {
	if p.pos >= len(p.data) {
		if !p.IgnoreTruncation {
			return 0, ErrTruncated
		}
		p.synthOdd = !p.synthOdd
		if p.synthOdd {
			return 0xFF, nil
		}
		return EOI, nil
	}
	b := p.data[p.pos]
	p.pos++
	return b, nil
}

func (p *Parser) readUint16() (int, error) {
	hi, err := p.ReadByte()
	if err != nil {
		return 0, err
	}
	lo, err := p.ReadByte()
	if err != nil {
		return 0, err
	}
	return int(hi)<<8 | int(lo), nil
}

func (p *Parser) readBytes(n int) ([]byte, error) {
	if p.pos+n > len(p.data) {
		return nil, ErrTruncated
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

func (p *Parser) skip(n int) error {
	if p.pos+n > len(p.data) {
		return ErrTruncated
	}
	p.pos += n
	return nil
}

// SetPending records a marker consumed out-of-band (by the bit reader
// during a scan) so the next readMarker returns it.
func (p *Parser) SetPending(m byte) {
	p.pending = m
}

// readMarker returns the next marker byte, skipping fill 0xFF bytes. A
// zero return means the byte at the cursor was not a marker prefix.
func (p *Parser) readMarker() (byte, error) {
	if p.pending != 0 {
		m := p.pending
		p.pending = 0
		return m, nil
	}
	b, err := p.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return 0, nil
	}
	for {
		b, err = p.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != 0xFF {
			return b, nil
		}
	}
}

// NextScan parses segments until a scan is ready or the image ends. It
// returns true when the cursor sits on entropy-coded data, with the scan
// header resolved into ScanOrder.
func (p *Parser) NextScan() (bool, error) {
	if p.foundEOI {
		return false, nil
	}
	if err := p.parseHeader(); err != nil {
		return false, err
	}

	m, err := p.readMarker()
	if err != nil {
		return false, err
	}
	for m != EOI {
		if m == SOS {
			if err := p.parseScanHeader(); err != nil {
				return false, err
			}
			return true, nil
		}
		if err := p.processMarker(m); err != nil {
			return false, err
		}
		if m, err = p.readMarker(); err != nil {
			return false, err
		}
	}
	p.foundEOI = true
	return false, nil
}

// parseHeader consumes SOI and every segment up to the frame header.
func (p *Parser) parseHeader() error {
	if p.headerParsed {
		return nil
	}
	p.headerParsed = true

	m, err := p.readMarker()
	if err != nil {
		return err
	}
	if m != SOI {
		return fmt.Errorf("%w: missing SOI marker", ErrSyntax)
	}

	for {
		if m, err = p.readMarker(); err != nil {
			return err
		}
		if m == 0 {
			continue // resync on stray bytes
		}
		if m == SOF0 || m == SOF1 {
			return p.parseFrameHeader()
		}
		if err := p.processMarker(m); err != nil {
			return err
		}
	}
}

// processMarker dispatches one non-frame, non-scan segment.
func (p *Parser) processMarker(m byte) error {
	if m >= APP0 && m <= APPF {
		length, err := p.readUint16()
		if err != nil {
			return err
		}
		if length < 2 {
			return fmt.Errorf("%w: bad APP%d length", ErrSyntax, m-APP0)
		}
		return p.skip(length - 2)
	}

	switch m {
	case 0:
		return fmt.Errorf("%w: expected marker", ErrSyntax)
	case SOF2:
		return fmt.Errorf("%w: progressive JPEG", ErrUnsupported)
	case COM:
		return p.parseComment()
	case DRI:
		return p.parseRestartInterval()
	case DQT:
		return p.parseQuantTables()
	case DHT:
		return p.parseHuffmanTables()
	default:
		return fmt.Errorf("%w: unknown marker 0x%02x", ErrSyntax, m)
	}
}

// parseComment reads one COM segment. The first payload byte selects the
// subtype: message length (4-byte big-endian), encrypted password
// (Base64 AES blob), or an ignored generic comment.
func (p *Parser) parseComment() error {
	length, err := p.readUint16()
	if err != nil {
		return err
	}
	remaining := length - 2
	if remaining <= 0 {
		return nil
	}

	typeID, err := p.ReadByte()
	if err != nil {
		return err
	}
	remaining--

	switch int(typeID) {
	case config.CommentTypeMsgLen:
		if remaining < 4 {
			return fmt.Errorf("%w: short message-length comment", ErrSyntax)
		}
		b, err := p.readBytes(4)
		if err != nil {
			return err
		}
		p.MessageLength = int(int32(b[0])<<24 | int32(b[1])<<16 | int32(b[2])<<8 | int32(b[3]))
		return p.skip(remaining - 4)
	case config.CommentTypePassword:
		b, err := p.readBytes(remaining)
		if err != nil {
			return err
		}
		password, err := obfuscate.AESDecrypt(p.cfg.AESKey, p.cfg.AESIV, string(b))
		if err != nil {
			return fmt.Errorf("%w: stored password blob: %v", ErrSyntax, err)
		}
		p.StoredPassword = password
		p.HasPassword = true
		return nil
	default:
		return p.skip(remaining)
	}
}

func (p *Parser) parseRestartInterval() error {
	length, err := p.readUint16()
	if err != nil {
		return err
	}
	if length != 4 {
		return fmt.Errorf("%w: bad DRI length", ErrSyntax)
	}
	p.RestartInterval, err = p.readUint16()
	return err
}

func (p *Parser) parseQuantTables() error {
	remaining, err := p.readUint16()
	if err != nil {
		return err
	}
	remaining -= 2
	for remaining >= 65 {
		header, err := p.ReadByte()
		if err != nil {
			return err
		}
		if header>>4 != 0 {
			return fmt.Errorf("%w: 16-bit quantisation values", ErrUnsupported)
		}
		id := int(header & 0x0F)
		if id > 3 {
			return fmt.Errorf("%w: bad DQT table ID", ErrSyntax)
		}
		values, err := p.readBytes(config.BlockPixels)
		if err != nil {
			return err
		}
		copy(p.quantTables[id][:], values)
		remaining -= 65
	}
	if remaining != 0 {
		return fmt.Errorf("%w: bad DQT segment length", ErrSyntax)
	}
	return nil
}

func (p *Parser) parseHuffmanTables() error {
	remaining, err := p.readUint16()
	if err != nil {
		return err
	}
	remaining -= 2
	for remaining > 17 {
		header, err := p.ReadByte()
		if err != nil {
			return err
		}
		class := int(header >> 4)
		id := int(header & 0x0F)
		if class > 1 || id > 3 {
			return fmt.Errorf("%w: bad DHT header", ErrSyntax)
		}

		var spec huffman.Spec
		counts, err := p.readBytes(16)
		if err != nil {
			return err
		}
		copy(spec.Counts[:], counts)

		n := spec.NumSymbols()
		remaining -= 17 + n
		if remaining < 0 {
			return fmt.Errorf("%w: bad DHT segment length", ErrSyntax)
		}
		if spec.Symbols, err = p.readBytes(n); err != nil {
			return err
		}

		table, err := huffman.NewDecTable(&spec)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		p.huffTables[class*4+id] = table
	}
	if remaining != 0 {
		return fmt.Errorf("%w: bad DHT segment length", ErrSyntax)
	}
	return nil
}

// parseFrameHeader reads a baseline SOF segment: dimensions, component
// IDs, sampling factors and quantisation table references.
func (p *Parser) parseFrameHeader() error {
	length, err := p.readUint16()
	if err != nil {
		return err
	}
	if length < 11 {
		return fmt.Errorf("%w: bad SOF length", ErrSyntax)
	}

	precision, err := p.ReadByte()
	if err != nil {
		return err
	}
	if precision != 8 {
		return fmt.Errorf("%w: %d-bit samples", ErrUnsupported, precision)
	}

	if p.Height, err = p.readUint16(); err != nil {
		return err
	}
	if p.Width, err = p.readUint16(); err != nil {
		return err
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: empty frame", ErrSyntax)
	}

	count, err := p.ReadByte()
	if err != nil {
		return err
	}
	if count != 1 && count != 3 {
		return fmt.Errorf("%w: %d components", ErrUnsupported, count)
	}
	if length != 8+3*int(count) {
		return fmt.Errorf("%w: bad SOF length", ErrSyntax)
	}

	p.MaxH, p.MaxV = 1, 1
	p.Components = make([]*Component, count)
	for i := range p.Components {
		id, err := p.ReadByte()
		if err != nil {
			return err
		}
		sampling, err := p.ReadByte()
		if err != nil {
			return err
		}
		quantID, err := p.ReadByte()
		if err != nil {
			return err
		}

		c := &Component{
			ID:      int(id),
			H:       int(sampling >> 4),
			V:       int(sampling & 0x0F),
			QuantID: int(quantID),
		}
		if c.H < 1 || c.H > 4 || c.V < 1 || c.V > 4 {
			return fmt.Errorf("%w: bad sampling factors", ErrSyntax)
		}
		if c.QuantID > 3 {
			return fmt.Errorf("%w: bad quantisation table reference", ErrSyntax)
		}
		if c.H > p.MaxH {
			p.MaxH = c.H
		}
		if c.V > p.MaxV {
			p.MaxV = c.V
		}
		p.Components[i] = c
	}

	mcuWidth := p.MaxH * config.BlockSize
	mcuHeight := p.MaxV * config.BlockSize
	p.MCUCols = (p.Width + mcuWidth - 1) / mcuWidth
	p.MCURows = (p.Height + mcuHeight - 1) / mcuHeight
	return nil
}

// parseScanHeader reads the SOS segment, resolving each component's
// Huffman table references and validating the baseline spectral
// parameters (Ss=0, Se=63, Ah=Al=0).
func (p *Parser) parseScanHeader() error {
	length, err := p.readUint16()
	if err != nil {
		return err
	}
	count, err := p.ReadByte()
	if err != nil {
		return err
	}
	if count < 1 || count > 4 {
		return fmt.Errorf("%w: bad SOS component count", ErrSyntax)
	}
	if length != 6+2*int(count) {
		return fmt.Errorf("%w: bad SOS length", ErrSyntax)
	}

	p.ScanOrder = make([]*Component, count)
	for i := range p.ScanOrder {
		id, err := p.ReadByte()
		if err != nil {
			return err
		}
		tables, err := p.ReadByte()
		if err != nil {
			return err
		}
		dcID := int(tables >> 4)
		acID := int(tables & 0x0F)
		if dcID > 3 || acID > 3 {
			return fmt.Errorf("%w: bad Huffman table index", ErrSyntax)
		}

		for _, c := range p.Components {
			if c.ID == int(id) {
				if p.huffTables[dcID] == nil || p.huffTables[4+acID] == nil {
					return fmt.Errorf("%w: referenced Huffman table not defined", ErrSyntax)
				}
				c.DCTable = dcID
				c.ACTable = acID
				p.ScanOrder[i] = c
				break
			}
		}
		if p.ScanOrder[i] == nil {
			return fmt.Errorf("%w: unknown component in SOS", ErrSyntax)
		}
	}

	ss, err := p.ReadByte()
	if err != nil {
		return err
	}
	se, err := p.ReadByte()
	if err != nil {
		return err
	}
	ahal, err := p.ReadByte()
	if err != nil {
		return err
	}
	if ss != 0 || se != 63 || ahal != 0 {
		return fmt.Errorf("%w: non-baseline spectral selection", ErrSyntax)
	}
	return nil
}

// HuffTable returns the decode table for a class (DC or AC) and
// destination ID, or nil if that slot was never defined.
func (p *Parser) HuffTable(class, id int) *huffman.DecTable {
	return p.huffTables[class*4+id]
}

// QuantTable returns the dequantisation values for a table ID in zigzag
// order. The extraction path never consults these; they are parsed for
// completeness and for callers that do dequantise.
func (p *Parser) QuantTable(id int) *[64]byte {
	return &p.quantTables[id]
}

// SkipScanPadding consumes the pad bytes after entropy-coded data ends
// without a marker, leaving any trailing marker pending.
func (p *Parser) SkipScanPadding() error {
	for {
		b, err := p.ReadByte()
		if err != nil {
			return err
		}
		if b == 0 {
			continue
		}
		if b == 0xFF {
			if b, err = p.ReadByte(); err != nil {
				return err
			}
			p.pending = b
		}
		return nil
	}
}
