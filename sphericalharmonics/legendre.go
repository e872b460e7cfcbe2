package sphericalharmonics

import "math"

// LegendreGenerator computes associated Legendre polynomials (ALP) up to a
// fixed maximum degree for a given abscissa x. It is configured once with
// non-negative order only and without the Condon-Shortley phase, matching
// the construction the encoder uses for its spherical harmonic table.
type LegendreGenerator struct {
	maxDegree int
}

// NewLegendreGenerator constructs a generator producing ALPs of degree
// 0..maxDegree and order 0..degree (no negative orders, no Condon-Shortley
// phase).
func NewLegendreGenerator(maxDegree int) *LegendreGenerator {
	if maxDegree < 0 {
		panic("sphericalharmonics: maxDegree must be non-negative")
	}
	return &LegendreGenerator{maxDegree: maxDegree}
}

// GetNumValues returns the number of ALP values this generator produces.
func (g *LegendreGenerator) GetNumValues() int {
	return (g.maxDegree + 1) * (g.maxDegree + 2) / 2
}

// GetIndex returns the index into a Generate output slice for the given
// (degree, order) pair. Order must be non-negative.
func (g *LegendreGenerator) GetIndex(degree, order int) int {
	return degree*(degree+1)/2 + order
}

// Generate computes every ALP this generator is configured to produce for
// abscissa x, using the same recurrence structure as the degree-raising
// relations employed by ambisonics implementations with no Condon-Shortley
// phase: P_0^0 = 1, the sectoral recurrence P_m^m = (2m-1)*sqrt(1-x^2)*P_{m-1}^{m-1},
// the one-step-up relation P_{m+1}^m = (2m+1)*x*P_m^m, and the general
// three-term recurrence for l > m+1.
func (g *LegendreGenerator) Generate(x float64) []float64 {
	values := make([]float64, g.GetNumValues())
	values[g.GetIndex(0, 0)] = 1.0
	if g.maxDegree == 0 {
		return values
	}

	sqrtOneMinusX2 := math.Sqrt(math.Max(0, 1.0-x*x))

	// Sectoral terms P_m^m, m = 1..maxDegree.
	for m := 1; m <= g.maxDegree; m++ {
		prevSectoral := values[g.GetIndex(m-1, m-1)]
		values[g.GetIndex(m, m)] = float64(2*m-1) * sqrtOneMinusX2 * prevSectoral
	}

	// One-step-up terms P_{m+1}^m, m = 0..maxDegree-1.
	for m := 0; m <= g.maxDegree-1; m++ {
		values[g.GetIndex(m+1, m)] = float64(2*m+1) * x * values[g.GetIndex(m, m)]
	}

	// General recurrence for l >= m+2.
	for m := 0; m <= g.maxDegree; m++ {
		for l := m + 2; l <= g.maxDegree; l++ {
			num := float64(2*l-1)*x*values[g.GetIndex(l-1, m)] -
				float64(l+m-1)*values[g.GetIndex(l-2, m)]
			values[g.GetIndex(l, m)] = num / float64(l-m)
		}
	}

	return values
}

// RealSH evaluates the SN3D-normalized real spherical harmonic of the given
// degree and signed order at the direction (azimuthRad, elevationRad). alp
// must have been produced by a LegendreGenerator with max degree >= degree,
// evaluated at x = sin(elevationRad); idx maps (degree, |order|) to an index
// into alp, matching LegendreGenerator.GetIndex.
func RealSH(degree, order int, azimuthRad, elevationRad float64, alp []float64, idx func(int, int) int) float64 {
	absOrder := order
	if absOrder < 0 {
		absOrder = -absOrder
	}

	var azimuthTerm float64
	if order >= 0 {
		azimuthTerm = math.Cos(float64(order) * azimuthRad)
	} else {
		azimuthTerm = math.Sin(float64(absOrder) * azimuthRad)
	}

	return sn3dNormalization(degree, order) * alp[idx(degree, absOrder)] * azimuthTerm
}
