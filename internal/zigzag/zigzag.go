// Package zigzag implements the JPEG diagonal scan order for 8x8 blocks.
package zigzag

// Order maps each zigzag position to its row-major position within an
// 8x8 block. Order[0] is the DC coefficient; Order[63] is the highest
// frequency.
var Order = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// Scan reorders a row-major block into zigzag order.
func Scan(src, dst *[64]int16) {
	for i, j := range Order {
		dst[i] = src[j]
	}
}

// Unscan is the inverse of Scan: it restores row-major order from a
// zigzag-ordered block.
func Unscan(src, dst *[64]int16) {
	for i, j := range Order {
		dst[j] = src[i]
	}
}

// ScanInts reorders a row-major block of ints, as used for quantisation
// matrices.
func ScanInts(src, dst *[64]int) {
	for i, j := range Order {
		dst[i] = src[j]
	}
}
