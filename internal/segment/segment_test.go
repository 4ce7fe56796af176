package segment

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrautz/jpegstego/config"
	"github.com/mkrautz/jpegstego/internal/huffman"
	"github.com/mkrautz/jpegstego/internal/obfuscate"
)

// writeTestHeaders assembles the header sequence the encoder produces,
// without scan data.
func writeTestHeaders(t *testing.T, cfg config.Config, password string, msgLen int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SOI()
	w.App0JFIF()
	w.Comment(config.CommentTypeGeneric, []byte(config.Attribution))
	w.Comment(config.CommentTypeMsgLen, []byte{
		byte(msgLen >> 24), byte(msgLen >> 16), byte(msgLen >> 8), byte(msgLen),
	})
	encrypted, err := obfuscate.AESEncrypt(cfg.AESKey, cfg.AESIV, password)
	require.NoError(t, err)
	w.Comment(config.CommentTypePassword, []byte(encrypted))

	quant := [64]int{}
	for i := range quant {
		quant[i] = i + 1
	}
	w.QuantTable(0, &quant)
	w.QuantTable(1, &quant)
	w.SOF0(64, 48)
	w.HuffmanTable(huffman.ClassDC<<4|0, &huffman.StdDCLuminance)
	w.HuffmanTable(huffman.ClassAC<<4|0, &huffman.StdACLuminance)
	w.HuffmanTable(huffman.ClassDC<<4|1, &huffman.StdDCChrominance)
	w.HuffmanTable(huffman.ClassAC<<4|1, &huffman.StdACChrominance)
	return &buf
}

func TestWriterParserRoundTrip(t *testing.T) {
	cfg := config.Default()
	buf := writeTestHeaders(t, cfg, "hunter2", 1234)
	NewWriter(buf).SOS()

	p := NewParser(buf.Bytes(), cfg)
	ok, err := p.NextScan()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 64, p.Width)
	assert.Equal(t, 48, p.Height)
	assert.Equal(t, 8, p.MCUCols)
	assert.Equal(t, 6, p.MCURows)
	assert.Equal(t, 1234, p.MessageLength)
	assert.True(t, p.HasPassword)
	assert.Equal(t, "hunter2", p.StoredPassword)

	require.Len(t, p.Components, 3)
	for i, c := range p.Components {
		assert.Equal(t, i+1, c.ID)
		assert.Equal(t, 1, c.H)
		assert.Equal(t, 1, c.V)
	}
	assert.Equal(t, 0, p.Components[0].QuantID)
	assert.Equal(t, 1, p.Components[1].QuantID)
	assert.Equal(t, 1, p.Components[2].QuantID)

	require.Len(t, p.ScanOrder, 3)
	assert.Equal(t, 0, p.ScanOrder[0].DCTable)
	assert.Equal(t, 0, p.ScanOrder[0].ACTable)
	assert.Equal(t, 1, p.ScanOrder[1].DCTable)
	assert.Equal(t, 1, p.ScanOrder[1].ACTable)

	for class := 0; class < 2; class++ {
		for id := 0; id < 2; id++ {
			assert.NotNil(t, p.HuffTable(class, id), "class %d id %d", class, id)
		}
	}

	// The quant tables arrive as written, truncated to bytes.
	assert.Equal(t, byte(1), p.QuantTable(0)[0])
	assert.Equal(t, byte(64), p.QuantTable(1)[63])
}

func TestParserRestartInterval(t *testing.T) {
	cfg := config.Default()
	buf := writeTestHeaders(t, cfg, "pw", 0)
	w := NewWriter(buf)
	w.RestartInterval(16)
	w.SOS()

	p := NewParser(buf.Bytes(), cfg)
	ok, err := p.NextScan()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 16, p.RestartInterval)
}

func TestParserRejectsProgressive(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SOI()
	// A minimal SOF2 frame header.
	w.segment(SOF2, []byte{8, 0, 64, 0, 64, 1, 1, 0x11, 0})

	p := NewParser(buf.Bytes(), config.Default())
	_, err := p.NextScan()
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParserMissingSOI(t *testing.T) {
	p := NewParser([]byte("plainly not a jpeg"), config.Default())
	_, err := p.NextScan()
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParserTruncated(t *testing.T) {
	p := NewParser([]byte{0xFF, SOI, 0xFF, DQT, 0x00}, config.Default())
	_, err := p.NextScan()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestParserBadPasswordBlob(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SOI()
	w.Comment(config.CommentTypePassword, []byte("not base64 at all!"))

	p := NewParser(buf.Bytes(), config.Default())
	_, err := p.NextScan()
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParserSkipsUnknownCommentTypes(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SOI()
	w.Comment(0x7F, []byte("future metadata"))
	buf2 := writeTestHeaders(t, cfg, "pw", 7)
	buf.Write(buf2.Bytes()[2:]) // splice past its SOI
	NewWriter(&buf).SOS()

	p := NewParser(buf.Bytes(), cfg)
	ok, err := p.NextScan()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, p.MessageLength)
}

func TestParserNoScanReturnsFalse(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SOI()
	// Headers but no SOS before EOI.
	buf2 := writeTestHeaders(t, config.Default(), "pw", 0)
	buf.Write(buf2.Bytes()[2:])
	w.EOI()

	p := NewParser(buf.Bytes(), config.Default())
	ok, err := p.NextScan()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadByteSynthesisesEOIWhenIgnoringTruncation(t *testing.T) {
	p := NewParser(nil, config.Default())
	p.IgnoreTruncation = true
	for i := 0; i < 3; i++ {
		b, err := p.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte(0xFF), b)
		b, err = p.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte(EOI), b)
	}

	p = NewParser(nil, config.Default())
	_, err := p.ReadByte()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestWriterRestartMarker(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Restart(3)
	w.Restart(9) // wraps modulo 8
	assert.Equal(t, []byte{0xFF, 0xD3, 0xFF, 0xD1}, buf.Bytes())
}
