package sphericalharmonics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegendreGeneratorClosedForms(t *testing.T) {
	x := 0.3
	s := math.Sqrt(1 - x*x)
	g := NewLegendreGenerator(2)
	values := g.Generate(x)

	assert.InDelta(t, 1.0, values[g.GetIndex(0, 0)], 1e-9)
	assert.InDelta(t, x, values[g.GetIndex(1, 0)], 1e-9)
	assert.InDelta(t, s, values[g.GetIndex(1, 1)], 1e-9)
	assert.InDelta(t, (3*x*x-1)/2, values[g.GetIndex(2, 0)], 1e-9)
	assert.InDelta(t, 3*x*s, values[g.GetIndex(2, 1)], 1e-9)
	assert.InDelta(t, 3*(1-x*x), values[g.GetIndex(2, 2)], 1e-9)
}

func TestLegendreGeneratorZeroDegree(t *testing.T) {
	g := NewLegendreGenerator(0)
	values := g.Generate(0.5)
	assert.Len(t, values, 1)
	assert.InDelta(t, 1.0, values[0], 1e-9)
}

func TestRealSHZerothOrderIsConstant(t *testing.T) {
	g := NewLegendreGenerator(1)
	for _, el := range []float64{0, 0.4, -0.9} {
		alp := g.Generate(math.Sin(el))
		v := RealSH(0, 0, 0.7, el, alp, g.GetIndex)
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}

func TestRealSHFirstOrderMatchesDirectionCosines(t *testing.T) {
	g := NewLegendreGenerator(1)
	azimuth := 0.5
	elevation := 0.2
	alp := g.Generate(math.Sin(elevation))

	w := RealSH(0, 0, azimuth, elevation, alp, g.GetIndex)
	y := RealSH(1, -1, azimuth, elevation, alp, g.GetIndex)
	z := RealSH(1, 0, azimuth, elevation, alp, g.GetIndex)
	x := RealSH(1, 1, azimuth, elevation, alp, g.GetIndex)

	assert.InDelta(t, 1.0, w, 1e-9)
	assert.InDelta(t, math.Cos(elevation)*math.Sin(azimuth), y, 1e-9)
	assert.InDelta(t, math.Sin(elevation), z, 1e-9)
	assert.InDelta(t, math.Cos(elevation)*math.Cos(azimuth), x, 1e-9)
}
