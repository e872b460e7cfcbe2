package rotator

import "math"

// band holds the (2l+1) x (2l+1) spherical harmonic rotation matrix for a
// single Ambisonic degree l, indexed by centered row/column in [-l, l].
type band struct {
	degree int
	size   int
	data   []float64
}

func newBand(degree int) *band {
	size := 2*degree + 1
	return &band{degree: degree, size: size, data: make([]float64, size*size)}
}

func (b *band) at(row, col int) float64 {
	return b.data[(row+b.degree)*b.size+(col+b.degree)]
}

func (b *band) set(row, col int, v float64) {
	b.data[(row+b.degree)*b.size+(col+b.degree)] = v
}

// centered reads bands[l].at(row, col), with the trivial degree-0 band
// (a single entry equal to 1, since Y_0^0 is invariant under rotation)
// handled without needing an actual allocation.
func centered(bands map[int]*band, l, row, col int) float64 {
	if l == 0 {
		return 1
	}
	return bands[l].at(row, col)
}

// degreeOneBand builds the degree-1 rotation band directly from the 3x3
// Cartesian rotation matrix r. The real degree-1 spherical harmonics
// (SN3D-normalized, ACN order -1, 0, 1) equal the direction cosines y, z, x
// respectively, so the band is r's entries permuted into that basis.
func degreeOneBand(r [3][3]float64) *band {
	b := newBand(1)
	b.set(-1, -1, r[1][1])
	b.set(-1, 0, r[1][2])
	b.set(-1, 1, r[1][0])
	b.set(0, -1, r[2][1])
	b.set(0, 0, r[2][2])
	b.set(0, 1, r[2][0])
	b.set(1, -1, r[0][1])
	b.set(1, 0, r[0][2])
	b.set(1, 1, r[0][0])
	return b
}

// p, u, v, w implement the Ivanic-Ruedenberg recursion for determining the
// rotation matrix of SH band l from the degree-1 band and the band of
// degree l-1.
func p(i, l, a, b int, bands map[int]*band) float64 {
	switch b {
	case -l:
		return centered(bands, 1, i, 1)*centered(bands, l-1, a, -(l-1)) +
			centered(bands, 1, i, -1)*centered(bands, l-1, a, l-1)
	case l:
		return centered(bands, 1, i, 1)*centered(bands, l-1, a, l-1) -
			centered(bands, 1, i, -1)*centered(bands, l-1, a, -(l-1))
	default:
		return centered(bands, 1, i, 0) * centered(bands, l-1, a, b)
	}
}

func u(l, m, n int, bands map[int]*band) float64 {
	return p(0, l, m, n, bands)
}

func v(l, m, n int, bands map[int]*band) float64 {
	switch {
	case m == 0:
		return p(1, l, 1, n, bands) + p(-1, l, -1, n, bands)
	case m > 0:
		d := 0.0
		if m == 1 {
			d = 1
		}
		return p(1, l, m-1, n, bands)*math.Sqrt(1+d) - p(-1, l, -(m-1), n, bands)*(1-d)
	default:
		d := 0.0
		if m == -1 {
			d = 1
		}
		return p(1, l, m+1, n, bands)*(1-d) + p(-1, l, -(m+1), n, bands)*math.Sqrt(1+d)
	}
}

func w(l, m, n int, bands map[int]*band) float64 {
	switch {
	case m > 0:
		return p(1, l, m+1, n, bands) + p(-1, l, -(m+1), n, bands)
	case m < 0:
		return p(1, l, m-1, n, bands) - p(-1, l, -(m-1), n, bands)
	default:
		return 0
	}
}

// uvwCoefficients returns the recursion's combining coefficients for
// (l, m, n), per Ivanic & Ruedenberg's closed-form expressions.
func uvwCoefficients(l, m, n int) (cu, cv, cw float64) {
	d := 0.0
	if m == 0 {
		d = 1
	}
	absM := m
	if absM < 0 {
		absM = -absM
	}
	absN := n
	if absN < 0 {
		absN = -absN
	}

	var denom float64
	if absN == l {
		denom = float64(2 * l * (2*l - 1))
	} else {
		denom = float64((l + n) * (l - n))
	}

	cu = math.Sqrt(float64((l+m)*(l-m)) / denom)
	cv = 0.5 * math.Sqrt((1+d)*float64((l+absM-1)*(l+absM))/denom) * (1 - 2*d)
	cw = -0.5 * math.Sqrt(float64((l-absM-1)*(l-absM))/denom) * (1 - d)
	return cu, cv, cw
}

// buildBand computes the rotation band of degree l >= 2 from the already
// computed degree-1 and degree-(l-1) bands.
func buildBand(l int, bands map[int]*band) *band {
	b := newBand(l)
	for m := -l; m <= l; m++ {
		for n := -l; n <= l; n++ {
			cu, cv, cw := uvwCoefficients(l, m, n)
			var result float64
			if cu != 0 {
				result += cu * u(l, m, n, bands)
			}
			if cv != 0 {
				result += cv * v(l, m, n, bands)
			}
			if cw != 0 {
				result += cw * w(l, m, n, bands)
			}
			b.set(m, n, result)
		}
	}
	return b
}

// buildBands computes every rotation band of degree 0..maxDegree for the
// 3x3 Cartesian rotation r.
func buildBands(maxDegree int, r [3][3]float64) map[int]*band {
	bands := make(map[int]*band, maxDegree+1)
	if maxDegree == 0 {
		return bands
	}
	bands[1] = degreeOneBand(r)
	for l := 2; l <= maxDegree; l++ {
		bands[l] = buildBand(l, bands)
	}
	return bands
}
