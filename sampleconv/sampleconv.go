// Package sampleconv converts audio samples between 16-bit linear PCM and
// the float32 range [-1, 1] used internally by the audiobuffer package.
package sampleconv

import (
	"github.com/tphakala/simd/f32"
)

const (
	int16ToFloat = 1.0 / 32768.0
	floatToInt16 = 32768.0
	outputMin    = -0x7FFF
	outputMax    = 0x7FFF
)

// Int16ToFloat32 converts a single int16 sample to its float32 equivalent
// in [-1, 1].
func Int16ToFloat32(sample int16) float32 {
	return float32(sample) * int16ToFloat
}

// Float32ToInt16 converts a single float32 sample to int16, saturating
// to [-0x7FFF, 0x7FFF] rather than wrapping.
func Float32ToInt16(sample float32) int16 {
	scaled := sample * floatToInt16
	switch {
	case scaled >= outputMax:
		return outputMax
	case scaled <= outputMin:
		return outputMin
	default:
		return int16(scaled)
	}
}

// PlanarInt16ToFloat32 converts a channel of int16 samples into dst, which
// must already be sized to len(src).
func PlanarInt16ToFloat32(dst []float32, src []int16) {
	for i, s := range src {
		dst[i] = float32(s)
	}
	f32.Scale(dst, dst, int16ToFloat)
}

// PlanarFloat32ToInt16 converts a channel of float32 samples in [-1, 1]
// into dst, which must already be sized to len(src), saturating
// out-of-range values.
func PlanarFloat32ToInt16(dst []int16, src []float32) {
	for i, s := range src {
		dst[i] = Float32ToInt16(s)
	}
}
