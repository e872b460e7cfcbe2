// Package dspfft wraps a fixed-size real FFT for use as the shared
// frequency-domain scratch of the partitioned convolution filter and the
// binaural decoder.
package dspfft

import (
	"fmt"

	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f32"
	"gonum.org/v1/gonum/dsp/fourier"
)

// MinFftSize is the smallest FFT size a Manager will ever use, regardless
// of how small framesPerBuffer is.
const MinFftSize = 32

// Manager performs real FFT/IFFT transforms of a fixed size and reorders
// between gonum's native Hermitian-packed complex128 output and a
// canonical real-valued layout: slot 0 holds the real-valued DC
// coefficient, slot 1 holds the real-valued Nyquist coefficient, and the
// remaining fftSize-2 slots hold alternating (real, imaginary) pairs for
// bins 1..fftSize/2-1. A canonical buffer is fftSize samples long in this
// layout, matching the frequency-domain buffer length used throughout the
// rest of the renderer.
//
// A Manager is shared scratch, not safe for concurrent use.
type Manager struct {
	fft             *fourier.FFT
	fftSize         int
	framesPerBuffer int
	inverseScale    float32

	timeScratch  []float64
	nativeA      []complex128
	nativeB      []complex128
	nativeResult []complex128
}

// NewManager constructs a Manager sized for framesPerBuffer-length blocks.
// The FFT size is max(MinFftSize, 2*nextPow2(framesPerBuffer)), giving at
// least framesPerBuffer-1 samples of linear-convolution headroom before
// circular wraparound.
func NewManager(framesPerBuffer int) *Manager {
	if framesPerBuffer <= 0 {
		panic("dspfft: framesPerBuffer must be positive")
	}
	fftSize := MinFftSize
	for fftSize < 2*nextPow2(framesPerBuffer) {
		fftSize *= 2
	}
	nativeLen := fftSize/2 + 1
	return &Manager{
		fft:             fourier.NewFFT(fftSize),
		fftSize:         fftSize,
		framesPerBuffer: framesPerBuffer,
		inverseScale:    1.0 / float32(fftSize),
		timeScratch:     make([]float64, fftSize),
		nativeA:         make([]complex128, nativeLen),
		nativeB:         make([]complex128, nativeLen),
		nativeResult:    make([]complex128, nativeLen),
	}
}

// FftSize returns the number of points in the FFT.
func (m *Manager) FftSize() int { return m.fftSize }

// FreqFromTimeDomain transforms timeChannel into a newly allocated
// canonical-format frequency domain buffer, fftSize samples long. If
// timeChannel is shorter than fftSize, it is zero-padded; it must not be
// longer.
func (m *Manager) FreqFromTimeDomain(timeChannel []float32) []float32 {
	if len(timeChannel) > m.fftSize {
		panic("dspfft: time_channel longer than fft size")
	}
	for i := range m.timeScratch {
		m.timeScratch[i] = 0
	}
	for i, v := range timeChannel {
		m.timeScratch[i] = float64(v)
	}
	m.nativeResult = m.fft.Coefficients(m.nativeResult, m.timeScratch)

	canonical := make([]float32, m.fftSize)
	canonicalFromNative(canonical, m.nativeResult, m.fftSize)
	return canonical
}

// TimeFromFreqDomain transforms a canonical-format frequency domain
// buffer back into the time domain, writing outLen samples (either
// framesPerBuffer or fftSize) into a newly allocated slice. The result is
// unnormalized: callers performing a pure forward/inverse round trip must
// call ApplyReverseFftScaling themselves, while callers consuming the
// output of MultiplyAccumulate must not, since the 1/fftSize scaling has
// already been folded into the frequency-domain product.
func (m *Manager) TimeFromFreqDomain(freqChannel []float32, outLen int) []float32 {
	if outLen != m.framesPerBuffer && outLen != m.fftSize {
		panic("dspfft: outLen must be framesPerBuffer or fftSize")
	}
	nativeFromCanonical(m.nativeResult, freqChannel, m.fftSize)
	m.timeScratch = m.fft.Sequence(m.timeScratch, m.nativeResult)

	out := make([]float32, outLen)
	for i := range out {
		out[i] = float32(m.timeScratch[i])
	}
	return out
}

// ApplyReverseFftScaling applies the 1/fftSize scaling gonum's inverse
// transform omits. Not needed after MultiplyAccumulate, whose own scaling
// already accounts for it.
func (m *Manager) ApplyReverseFftScaling(timeChannel []float32) {
	f32.Scale(timeChannel, timeChannel, m.inverseScale)
}

// MultiplyAccumulate computes accum += (a .* b) / fftSize, where a, b, and
// accum are canonical-format frequency domain buffers and .* is pointwise
// complex multiplication. This is the frequency-domain equivalent of a
// scaled circular convolution of a and b's time-domain signals; summing
// MultiplyAccumulate across a ring of delayed input spectra and
// pre-transformed kernel partitions is how the partitioned filter
// assembles a linear convolution from per-partition circular ones.
func (m *Manager) MultiplyAccumulate(accum, a, b []float32) {
	if len(accum) != m.fftSize || len(a) != m.fftSize || len(b) != m.fftSize {
		panic(fmt.Sprintf("dspfft: buffers must be %d samples long", m.fftSize))
	}
	nativeFromCanonical(m.nativeA, a, m.fftSize)
	nativeFromCanonical(m.nativeB, b, m.fftSize)
	c128.Mul(m.nativeResult, m.nativeA, m.nativeB)

	scale := complex(float64(m.inverseScale), 0)
	nativeFromCanonical(m.nativeA, accum, m.fftSize) // reuse nativeA as the running accumulator
	for i, v := range m.nativeResult {
		m.nativeA[i] += v * scale
	}
	canonicalFromNative(accum, m.nativeA, m.fftSize)
}

// canonicalFromNative reorders gonum's native Hermitian-packed FFT output
// (length fftSize/2+1) into the canonical layout described on Manager.
func canonicalFromNative(canonical []float32, native []complex128, fftSize int) {
	half := fftSize / 2
	canonical[0] = float32(real(native[0]))
	canonical[1] = float32(real(native[half]))
	for k := 1; k < half; k++ {
		canonical[2*k] = float32(real(native[k]))
		canonical[2*k+1] = float32(imag(native[k]))
	}
}

// nativeFromCanonical is canonicalFromNative's inverse.
func nativeFromCanonical(native []complex128, canonical []float32, fftSize int) {
	half := fftSize / 2
	native[0] = complex(float64(canonical[0]), 0)
	native[half] = complex(float64(canonical[1]), 0)
	for k := 1; k < half; k++ {
		native[k] = complex(float64(canonical[2*k]), float64(canonical[2*k+1]))
	}
}

// nextPow2 returns the smallest power of 2 that is >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
