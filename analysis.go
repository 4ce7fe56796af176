package jpegstego

import "fmt"

// Analysis describes a stego JPEG's layout and embedded metadata, as
// needed to render block overlays and capacity statistics. No password
// is required to produce one.
type Analysis struct {
	Width  int
	Height int

	MCUCols int
	MCURows int

	// MessageLength is the embedded payload size in bytes, 0 when no
	// length record is present.
	MessageLength int
	HasPassword   bool

	// UsedMCUs is the number of MCUs carrying payload bits.
	UsedMCUs int
	// TotalCapacity is the maximum payload size in bytes.
	TotalCapacity int
}

// TotalMCUs returns the number of 8x8 blocks in the image.
func (a Analysis) TotalMCUs() int {
	return a.MCUCols * a.MCURows
}

// HasEmbeddedData reports whether any message data is embedded.
func (a Analysis) HasEmbeddedData() bool {
	return a.MessageLength > 0
}

// CapacityUsedPercent returns the share of MCUs carrying payload, 0-100.
func (a Analysis) CapacityUsedPercent() float64 {
	if a.TotalMCUs() == 0 {
		return 0
	}
	return 100 * float64(a.UsedMCUs) / float64(a.TotalMCUs())
}

// Dimensions returns a display string such as "640 × 480".
func (a Analysis) Dimensions() string {
	return fmt.Sprintf("%d × %d", a.Width, a.Height)
}
