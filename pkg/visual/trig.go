package visual

import "math"

// LUTSize is the number of entries in the sin/cos lookup tables; angle
// normalization is (angle * LUTSize/2pi) mod LUTSize.
const LUTSize = 256

var sinLUT [LUTSize]float64
var cosLUT [LUTSize]float64

func init() {
	for i := 0; i < LUTSize; i++ {
		angle := float64(i) / LUTSize * 2 * math.Pi
		sinLUT[i] = math.Sin(angle)
		cosLUT[i] = math.Cos(angle)
	}
}

// angleIndex normalizes a radian angle into [0, LUTSize).
func angleIndex(angle float64) int {
	idx := int(math.Floor(angle * LUTSize / (2 * math.Pi)))
	idx %= LUTSize
	if idx < 0 {
		idx += LUTSize
	}
	return idx
}

// Sin returns the LUT-quantized sine of angle (radians).
func Sin(angle float64) float64 {
	return sinLUT[angleIndex(angle)]
}

// Cos returns the LUT-quantized cosine of angle (radians).
func Cos(angle float64) float64 {
	return cosLUT[angleIndex(angle)]
}

// SinIndex and CosIndex look up by a precomputed LUT index directly,
// bypassing angle normalization for hot loops that already track an index
// (e.g. boss rotation advancing one LUT step per frame).
func SinIndex(idx int) float64 {
	idx %= LUTSize
	if idx < 0 {
		idx += LUTSize
	}
	return sinLUT[idx]
}

func CosIndex(idx int) float64 {
	idx %= LUTSize
	if idx < 0 {
		idx += LUTSize
	}
	return cosLUT[idx]
}

// Rotate2D rotates (x,y) by the angle at LUT index idx, using the 2x2
// rotation matrix built from the sin/cos LUTs.
func Rotate2D(x, y float64, idx int) (rx, ry float64) {
	s, c := SinIndex(idx), CosIndex(idx)
	rx = x*c - y*s
	ry = x*s + y*c
	return rx, ry
}
