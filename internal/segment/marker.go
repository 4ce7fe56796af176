// Package segment implements the JPEG segment layer: a writer that
// assembles the marker sequence of a stego JPEG and a parser that walks
// a foreign or self-produced stream up to and through its scan data.
package segment

// Marker identifier bytes. On the wire every marker is 0xFF followed by
// one of these.
const (
	SOI  = 0xD8
	EOI  = 0xD9
	SOF0 = 0xC0
	SOF1 = 0xC1
	SOF2 = 0xC2
	DHT  = 0xC4
	DQT  = 0xDB
	DRI  = 0xDD
	SOS  = 0xDA
	COM  = 0xFE
	APP0 = 0xE0
	APPF = 0xEF
	RST0 = 0xD0
	RST7 = 0xD7
)
