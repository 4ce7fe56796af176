package segment

import (
	"bytes"

	"github.com/mkrautz/jpegstego/config"
	"github.com/mkrautz/jpegstego/internal/huffman"
)

// Writer assembles JPEG segments into a byte buffer. Segment length
// fields include their own two bytes but not the marker.
type Writer struct {
	b *bytes.Buffer
}

// NewWriter returns a Writer appending to b.
func NewWriter(b *bytes.Buffer) *Writer {
	return &Writer{b: b}
}

func (w *Writer) marker(m byte) {
	w.b.WriteByte(0xFF)
	w.b.WriteByte(m)
}

func (w *Writer) segment(m byte, payload []byte) {
	w.marker(m)
	length := len(payload) + 2
	w.b.WriteByte(byte(length >> 8))
	w.b.WriteByte(byte(length))
	w.b.Write(payload)
}

// SOI writes the start-of-image marker.
func (w *Writer) SOI() {
	w.marker(SOI)
}

// EOI writes the end-of-image marker.
func (w *Writer) EOI() {
	w.marker(EOI)
}

// App0JFIF writes a JFIF 1.1 application segment with aspect-ratio
// density 1x1 and no thumbnail.
func (w *Writer) App0JFIF() {
	w.segment(APP0, []byte{
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version 1.1
		0x00,       // units: none
		0x00, 0x01, // X density
		0x00, 0x01, // Y density
		0x00, 0x00, // no thumbnail
	})
}

// Comment writes a COM segment whose payload starts with a one-byte
// type ID.
func (w *Writer) Comment(typeID byte, payload []byte) {
	body := make([]byte, 0, 1+len(payload))
	body = append(body, typeID)
	body = append(body, payload...)
	w.segment(COM, body)
}

// QuantTable writes a DQT segment for one 8-bit table. Values must
// already be in zigzag order; entries above 255 are truncated to their
// low byte, mirroring the on-wire format this codec round-trips with.
func (w *Writer) QuantTable(id byte, values *[64]int) {
	body := make([]byte, 65)
	body[0] = id
	for i, v := range values {
		body[1+i] = byte(v)
	}
	w.segment(DQT, body)
}

// SOF0 writes the baseline frame header: precision 8, three components
// with 1x1 sampling, quantisation table numbers {0, 1, 1}.
func (w *Writer) SOF0(width, height int) {
	body := make([]byte, 0, 6+3*config.NumComponents)
	body = append(body,
		8, // sample precision
		byte(height>>8), byte(height),
		byte(width>>8), byte(width),
		config.NumComponents,
	)
	quantTableNumbers := [config.NumComponents]byte{0, 1, 1}
	for i := 0; i < config.NumComponents; i++ {
		body = append(body, byte(i+1), 0x11, quantTableNumbers[i])
	}
	w.segment(SOF0, body)
}

// HuffmanTable writes a DHT segment for one table. classAndID packs the
// table class in the high nibble and the destination ID in the low one.
func (w *Writer) HuffmanTable(classAndID byte, spec *huffman.Spec) {
	body := make([]byte, 0, 17+len(spec.Symbols))
	body = append(body, classAndID)
	body = append(body, spec.Counts[:]...)
	body = append(body, spec.Symbols...)
	w.segment(DHT, body)
}

// SOS writes the scan header: three components tagged with Huffman table
// numbers {0,0}, {1,1}, {1,1}, full spectral selection, no successive
// approximation.
func (w *Writer) SOS() {
	body := make([]byte, 0, 4+2*config.NumComponents)
	body = append(body, config.NumComponents)
	tableNumbers := [config.NumComponents]byte{0x00, 0x11, 0x11}
	for i := 0; i < config.NumComponents; i++ {
		body = append(body, byte(i+1), tableNumbers[i])
	}
	body = append(body, 0x00, 0x3F, 0x00) // Ss, Se, Ah/Al
	w.segment(SOS, body)
}

// RestartInterval writes a DRI segment.
func (w *Writer) RestartInterval(mcus int) {
	w.segment(DRI, []byte{byte(mcus >> 8), byte(mcus)})
}

// Restart writes the RSTn marker for n in 0..7.
func (w *Writer) Restart(n int) {
	w.marker(RST0 + byte(n&7))
}
