// Package quant produces the quality-scaled JPEG quantisation matrix.
package quant

// base is the ITU-T T.81 Annex K, Table K.1 luminance matrix, row-major.
// The same scaled matrix serves all three planes.
var base = [64]int{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// Table returns the row-major 8x8 quantisation matrix for a quality
// level, which is clamped to [1, 100]. At quality 100 every entry is 1;
// otherwise each entry is max(1, (scale*base+50)/100) with
// scale = 5000/q for q < 50 and 200-2q above. Entries are not clamped to
// 255: very low qualities produce values that overflow a DQT byte and are
// truncated on write, which the decode path never consults.
func Table(quality int) [64]int {
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}

	var m [64]int
	if quality == 100 {
		for i := range m {
			m[i] = 1
		}
		return m
	}

	scale := 200 - 2*quality
	if quality < 50 {
		scale = 5000 / quality
	}
	for i, b := range base {
		v := (scale*b + 50) / 100
		if v < 1 {
			v = 1
		}
		m[i] = v
	}
	return m
}
