// Package sphericalharmonics provides the associated Legendre polynomial
// recurrence, SN3D-normalized real spherical harmonic evaluation, and the
// ACN channel arithmetic shared by the encoder and rotator.
package sphericalharmonics

import "math"

// ACN returns the Ambisonic Channel Number for a periphonic spherical
// harmonic of the given degree (0-based, also called "order" in some
// ambisonics literature) and order m in [-degree, degree].
func ACN(degree, order int) int {
	return degree*(degree+1) + order
}

// DegreeOrderForACN inverts ACN, returning the (degree, order) pair that
// produced the given Ambisonic Channel Number.
func DegreeOrderForACN(acn int) (degree, order int) {
	degree = isqrt(acn)
	order = acn - degree*(degree+1)
	return degree, order
}

// isqrt returns floor(sqrt(n)) for n >= 0 using integer-only arithmetic to
// avoid the rounding pitfalls of float64 sqrt near perfect squares.
func isqrt(n int) int {
	if n < 0 {
		return 0
	}
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// IsValidAmbisonicOrder reports whether numChannels is a perfect square,
// i.e. equals (order+1)^2 for some non-negative integer ambisonic order.
func IsValidAmbisonicOrder(numChannels int) bool {
	if numChannels <= 0 {
		return false
	}
	r := isqrt(numChannels)
	return r*r == numChannels
}

// sn3dNormalization returns the SN3D normalization factor for the real
// spherical harmonic of the given degree and signed order.
func sn3dNormalization(degree, order int) float64 {
	m := order
	if m < 0 {
		m = -m
	}
	delta := 0.0
	if order == 0 {
		delta = 1.0
	}
	num := factorial(degree - m)
	den := factorial(degree + m)
	return math.Sqrt((2.0 - delta) * num / den)
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
