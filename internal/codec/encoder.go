package codec

import (
	"bytes"
	"fmt"
	"math"

	"github.com/mkrautz/jpegstego/config"
	"github.com/mkrautz/jpegstego/internal/bitstream"
	"github.com/mkrautz/jpegstego/internal/dct"
	"github.com/mkrautz/jpegstego/internal/embed"
	"github.com/mkrautz/jpegstego/internal/huffman"
	"github.com/mkrautz/jpegstego/internal/obfuscate"
	"github.com/mkrautz/jpegstego/internal/quant"
	"github.com/mkrautz/jpegstego/internal/segment"
	"github.com/mkrautz/jpegstego/internal/zigzag"
)

// Encoder compresses one RGB raster into a stego JPEG. It is built per
// call and holds all request-scoped state: the coefficient planes, the
// quantisation values and the obfuscated payload.
type Encoder struct {
	cfg      config.Config
	quality  int
	width    int
	height   int
	mcuCols  int
	mcuRows  int
	rgb      []byte
	payload  []byte
	password string

	quantZigzag [64]int
	planes      [config.NumComponents][]int16
}

// NewEncoder prepares an encoder. rgb is a tightly packed width*height*3
// raster whose dimensions must already be multiples of the block size;
// payload is the obfuscated message.
func NewEncoder(cfg config.Config, quality int, rgb []byte, width, height int, payload []byte, password string) *Encoder {
	e := &Encoder{
		cfg:      cfg,
		quality:  quality,
		width:    width,
		height:   height,
		mcuCols:  width / config.BlockSize,
		mcuRows:  height / config.BlockSize,
		rgb:      rgb,
		payload:  payload,
		password: password,
	}
	table := quant.Table(quality)
	zigzag.ScanInts(&table, &e.quantZigzag)
	return e
}

// Encode runs the full pipeline and returns the JPEG byte stream:
// colour conversion, DCT, quantisation, embedding, then segment
// assembly and entropy coding.
func (e *Encoder) Encode() ([]byte, error) {
	ycbcr := e.convertToYCbCr()
	e.transform(ycbcr)

	if err := embed.Embed(e.planes[config.StegoChannel], e.payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMessageTooLong, err)
	}

	var buf bytes.Buffer
	if err := e.writeHeaders(&buf); err != nil {
		return nil, err
	}
	e.writeScan(&buf)
	segment.NewWriter(&buf).EOI()
	return buf.Bytes(), nil
}

// convertToYCbCr splits the packed RGB raster into three full-resolution
// planes, clamped to [0, 255].
func (e *Encoder) convertToYCbCr() [config.NumComponents][]byte {
	n := e.width * e.height
	var planes [config.NumComponents][]byte
	for i := range planes {
		planes[i] = make([]byte, n)
	}
	for i := 0; i < n; i++ {
		r := float64(e.rgb[3*i])
		g := float64(e.rgb[3*i+1])
		b := float64(e.rgb[3*i+2])
		planes[0][i] = clamp(int(0.299*r + 0.587*g + 0.114*b))
		planes[1][i] = clamp(int(-0.1687*r - 0.3313*g + 0.5*b + 128))
		planes[2][i] = clamp(int(0.5*r - 0.4187*g - 0.0813*b + 128))
	}
	return planes
}

func clamp(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// transform level-shifts each 8x8 block, applies the forward DCT,
// quantises against the zigzag-ordered table and stores the resulting
// zigzag blocks per plane.
func (e *Encoder) transform(ycbcr [config.NumComponents][]byte) {
	fdct := dct.NewTransformer()
	var block, scanned [64]int16

	for ci := range ycbcr {
		e.planes[ci] = make([]int16, e.width*e.height)
		pos := 0
		for mcuRow := 0; mcuRow < e.mcuRows; mcuRow++ {
			for mcuCol := 0; mcuCol < e.mcuCols; mcuCol++ {
				baseY := mcuRow * config.BlockSize
				baseX := mcuCol * config.BlockSize
				for row := 0; row < config.BlockSize; row++ {
					for col := 0; col < config.BlockSize; col++ {
						pixel := ycbcr[ci][(baseY+row)*e.width+baseX+col]
						block[row*config.BlockSize+col] = int16(pixel) - 128
					}
				}

				coeffs := fdct.Transform(&block)
				zigzag.Scan(&coeffs, &scanned)
				out := e.planes[ci][pos : pos+config.BlockPixels]
				for i := range scanned {
					out[i] = int16(math.Round(float64(scanned[i]) / float64(e.quantZigzag[i])))
				}
				pos += config.BlockPixels
			}
		}
	}
}

// writeHeaders emits every segment ahead of the entropy-coded data in
// the fixed order: JFIF, the three typed comments, two identical
// quantisation tables under IDs 0 and 1, the frame header, the four
// standard Huffman tables and the scan header.
func (e *Encoder) writeHeaders(buf *bytes.Buffer) error {
	w := segment.NewWriter(buf)
	w.SOI()
	w.App0JFIF()
	w.Comment(config.CommentTypeGeneric, []byte(config.Attribution))

	length := len(e.payload)
	w.Comment(config.CommentTypeMsgLen, []byte{
		byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length),
	})

	encrypted, err := obfuscate.AESEncrypt(e.cfg.AESKey, e.cfg.AESIV, e.password)
	if err != nil {
		return fmt.Errorf("%w: encrypt password: %v", ErrInvalidImage, err)
	}
	w.Comment(config.CommentTypePassword, []byte(encrypted))

	w.QuantTable(0, &e.quantZigzag)
	w.QuantTable(1, &e.quantZigzag)
	w.SOF0(e.width, e.height)
	w.HuffmanTable(huffman.ClassDC<<4|0, &huffman.StdDCLuminance)
	w.HuffmanTable(huffman.ClassAC<<4|0, &huffman.StdACLuminance)
	w.HuffmanTable(huffman.ClassDC<<4|1, &huffman.StdDCChrominance)
	w.HuffmanTable(huffman.ClassAC<<4|1, &huffman.StdACChrominance)
	w.SOS()
	return nil
}

// writeScan entropy-codes the planes MCU-interleaved Y, Cb, Cr with
// per-component DC prediction, then flushes the bit buffer.
func (e *Encoder) writeScan(buf *bytes.Buffer) {
	dcLuma := huffman.NewEncTable(&huffman.StdDCLuminance)
	acLuma := huffman.NewEncTable(&huffman.StdACLuminance)
	dcChroma := huffman.NewEncTable(&huffman.StdDCChrominance)
	acChroma := huffman.NewEncTable(&huffman.StdACChrominance)

	dcTables := [config.NumComponents]*huffman.EncTable{dcLuma, dcChroma, dcChroma}
	acTables := [config.NumComponents]*huffman.EncTable{acLuma, acChroma, acChroma}

	bw := bitstream.NewWriter(buf)
	var dcPred [config.NumComponents]int16
	total := e.mcuCols * e.mcuRows
	for mcu := 0; mcu < total; mcu++ {
		for ci := 0; ci < config.NumComponents; ci++ {
			block := e.planes[ci][mcu*config.BlockPixels : (mcu+1)*config.BlockPixels]
			dcPred[ci] = huffman.EncodeBlock(bw, block, dcPred[ci], dcTables[ci], acTables[ci])
		}
	}
	bw.Flush()
}
