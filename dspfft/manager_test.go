package dspfft

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewManagerChoosesPowerOfTwoFftSize(t *testing.T) {
	cases := []struct {
		framesPerBuffer int
		wantFftSize     int
	}{
		{1, MinFftSize},
		{8, MinFftSize},
		{16, MinFftSize},
		{17, 64},
		{64, 128},
		{100, 256},
	}
	for _, c := range cases {
		m := NewManager(c.framesPerBuffer)
		assert.Equal(t, c.wantFftSize, m.FftSize(), "framesPerBuffer=%d", c.framesPerBuffer)
	}
}

func TestForwardInverseRoundTripRecoversZeroPaddedSignal(t *testing.T) {
	m := NewManager(16)
	time := make([]float32, 16)
	for i := range time {
		time[i] = float32(math.Sin(2 * math.Pi * float64(i) / 16))
	}

	freq := m.FreqFromTimeDomain(time)
	recovered := m.TimeFromFreqDomain(freq, m.FftSize())
	m.ApplyReverseFftScaling(recovered)

	for i, v := range time {
		assert.InDelta(t, float64(v), float64(recovered[i]), 1e-4, "sample %d", i)
	}
	for i := len(time); i < m.FftSize(); i++ {
		assert.InDelta(t, 0, float64(recovered[i]), 1e-4, "zero-padded tail sample %d", i)
	}
}

func TestMultiplyAccumulateMatchesDirectCircularConvolution(t *testing.T) {
	m := NewManager(8)
	n := m.FftSize()

	a := make([]float32, n)
	b := make([]float32, n)
	a[0], a[1], a[2] = 1, 2, 3
	b[0], b[1] = 1, 0.5

	freqA := m.FreqFromTimeDomain(a)
	freqB := m.FreqFromTimeDomain(b)

	accum := make([]float32, n)
	m.MultiplyAccumulate(accum, freqA, freqB)

	got := m.TimeFromFreqDomain(accum, n)

	want := directCircularConvolution(a, b)
	for i := range want {
		assert.InDelta(t, float64(want[i]), float64(got[i]), 1e-3, "sample %d", i)
	}
}

func TestMultiplyAccumulateSumsIntoExistingContent(t *testing.T) {
	m := NewManager(8)
	n := m.FftSize()

	a := make([]float32, n)
	b := make([]float32, n)
	a[0] = 1
	b[0] = 1

	freqA := m.FreqFromTimeDomain(a)
	freqB := m.FreqFromTimeDomain(b)

	accum := make([]float32, n)
	m.MultiplyAccumulate(accum, freqA, freqB)
	m.MultiplyAccumulate(accum, freqA, freqB)

	got := m.TimeFromFreqDomain(accum, n)
	assert.InDelta(t, 2.0, float64(got[0]), 1e-3)
}

func directCircularConvolution(a, b []float32) []float64 {
	n := len(a)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for k := 0; k < n; k++ {
			j := (i - k + n) % n
			sum += float64(a[k]) * float64(b[j])
		}
		out[i] = sum
	}
	return out
}
