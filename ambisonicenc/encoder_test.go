package ambisonicenc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trsonic/obr/audiobuffer"
)

func TestSetSourceZerothOrderCoefficientIsGain(t *testing.T) {
	e := New(1, 1)
	e.SetSource(0, 1.0, 0, 0, 1.0)

	in := audiobuffer.New(1, 4)
	for i := 0; i < 4; i++ {
		in.Channel(0).Set(i, 1.0)
	}
	out := audiobuffer.New(4, 4)
	e.ProcessPlanarAudioData(in, out)

	for i := 0; i < 4; i++ {
		assert.InDelta(t, 1.0, out.Channel(0).At(i), 1e-5, "W channel should carry full signal")
	}
}

func TestSetSourceMutesBelowNegative120dB(t *testing.T) {
	e := New(1, 1)
	e.SetSource(0, 1e-7, 0, 0, 1.0)

	in := audiobuffer.New(1, 2)
	in.Channel(0).Set(0, 1.0)
	in.Channel(0).Set(1, 1.0)
	out := audiobuffer.New(4, 2)
	e.ProcessPlanarAudioData(in, out)

	for c := 0; c < 4; c++ {
		for f := 0; f < 2; f++ {
			assert.Equal(t, float32(0), out.Channel(c).At(f))
		}
	}
}

func TestSetSourceIdempotentSkipsRecompute(t *testing.T) {
	e := New(1, 1)
	e.SetSource(0, 1.0, 45, 10, 2.0)
	before := mustCopyMatrix(e)
	e.SetSource(0, 1.0, 45, 10, 2.0)
	after := mustCopyMatrix(e)
	assert.Equal(t, before, after)
}

func mustCopyMatrix(e *Encoder) []float64 {
	rows, cols := e.encodingMatrix.Dims()
	out := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, e.encodingMatrix.At(r, c))
		}
	}
	return out
}

func TestSetSourceDistanceClampedAtHalfMetre(t *testing.T) {
	e := New(1, 1)
	e.SetSource(0, 1.0, 0, 0, 0.1)
	w := e.encodingMatrix.At(0, 0)
	assert.InDelta(t, 2.0, w, 1e-9, "gain should clamp distance to 0.5 m -> gain/0.5 = 2")
}

func TestRemoveSourceZeroesColumn(t *testing.T) {
	e := New(1, 1)
	e.SetSource(0, 1.0, 30, 0, 1.0)
	e.RemoveSource(0)
	rows, _ := e.encodingMatrix.Dims()
	for r := 0; r < rows; r++ {
		assert.Equal(t, 0.0, e.encodingMatrix.At(r, 0))
	}
}

func TestShCoeffsDegreeOneMatchesDirectionCosines(t *testing.T) {
	e := New(1, 1)
	coeffs := e.shCoeffs(90, 0)
	// ACN order: 0=W, 1=Y, 2=Z, 3=X.
	assert.InDelta(t, 1.0, coeffs[0], 1e-6)
	assert.InDelta(t, math.Sin(90*radiansFromDegrees), coeffs[1], 1e-6)
	assert.InDelta(t, 0.0, coeffs[2], 1e-6)
	assert.InDelta(t, math.Cos(90*radiansFromDegrees), coeffs[3], 1e-6)
}
