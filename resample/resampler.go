// Package resample implements a rational up/down polyphase resampler
// used only to bring HRIR assets to the engine's operating sample rate
// at load time, never on the live audio stream.
package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/trsonic/obr/audiobuffer"
)

// ErrUnsupportedRates is returned by SetRateAndChannels when the
// requested source/destination pair is not in the supported table.
var ErrUnsupportedRates = errors.New("resample: unsupported sample rate pair")

// coeffsPerPhase is the number of taps in each polyphase branch of the
// anti-aliasing filter.
const coeffsPerPhase = 32

// cutoffSafetyMargin pulls the anti-aliasing cutoff in slightly from the
// Nyquist limit to leave headroom for the transition band.
const cutoffSafetyMargin = 0.9

type ratePair struct{ src, dst int }

var supportedRatePairs = map[ratePair]bool{
	{44100, 48000}: true,
	{48000, 44100}: true,
	{48000, 48000}: true,
}

// AreRatesSupported reports whether resampling from srcHz to dstHz is in
// the table of tested rate pairs this package carries a filter design
// for.
func AreRatesSupported(srcHz, dstHz int) bool {
	return supportedRatePairs[ratePair{srcHz, dstHz}]
}

// Resampler converts a fixed number of channels between a source and
// destination sample rate using a Hann-windowed sinc anti-aliasing
// filter arranged in up polyphase branches, one per distinct fractional
// delay of the up/down = dst/src ratio.
type Resampler struct {
	upRate, downRate int
	numChannels      int
	phases           [][]float64 // upRate branches, coeffsPerPhase taps each
}

// New constructs an unconfigured Resampler. SetRateAndChannels must be
// called before Process.
func New() *Resampler {
	return &Resampler{}
}

// SetRateAndChannels configures the resampler for srcHz -> dstHz
// conversion of numChannels-channel audio and regenerates the
// anti-aliasing filter. up and down are computed as dst/g and src/g for
// g = gcd(src, dst). Returns ErrUnsupportedRates, leaving any previous
// configuration untouched, if the pair is not supported.
func (r *Resampler) SetRateAndChannels(srcHz, dstHz, numChannels int) error {
	if !AreRatesSupported(srcHz, dstHz) {
		return fmt.Errorf("%w: %d -> %d", ErrUnsupportedRates, srcHz, dstHz)
	}
	g := gcd(srcHz, dstHz)
	r.upRate = dstHz / g
	r.downRate = srcHz / g
	r.numChannels = numChannels
	if r.upRate == 1 && r.downRate == 1 {
		// No resampling at all is needed; an anti-aliasing filter would
		// only introduce unnecessary ripple and delay.
		r.phases = [][]float64{{1}}
	} else {
		r.phases = designPolyphaseFilter(r.upRate, r.downRate)
	}
	return nil
}

// NextOutputLength returns the number of output frames Process will
// write for an input of inputFrames frames at the currently configured
// rates.
func (r *Resampler) NextOutputLength(inputFrames int) int {
	if inputFrames <= 0 {
		return 0
	}
	return (inputFrames * r.upRate) / r.downRate
}

// Process resamples input into output, writing exactly
// NextOutputLength(input.NumFrames()) frames to each of output's
// channels. Calling Process before SetRateAndChannels, with mismatched
// channel counts, or with an output buffer shorter than
// NextOutputLength, is a programmer error and panics.
func (r *Resampler) Process(input, output *audiobuffer.Buffer) {
	if r.phases == nil {
		panic("resample: Process called before SetRateAndChannels")
	}
	if input.NumChannels() != r.numChannels || output.NumChannels() != r.numChannels {
		panic("resample: channel count mismatch")
	}
	outFrames := r.NextOutputLength(input.NumFrames())
	if output.NumFrames() < outFrames {
		panic("resample: output buffer too short")
	}

	for c := 0; c < r.numChannels; c++ {
		in := input.Channel(c).Samples()
		out := output.Channel(c)
		for m := 0; m < outFrames; m++ {
			t := m * r.downRate
			phase := t % r.upRate
			centerIdx := t / r.upRate
			coeffs := r.phases[phase]

			var acc float64
			for k, coeff := range coeffs {
				idx := centerIdx - k
				if idx >= 0 && idx < len(in) {
					acc += coeff * float64(in[idx])
				}
			}
			out.Set(m, float32(acc))
		}
	}
}

// designPolyphaseFilter builds a Hann-windowed sinc anti-aliasing filter
// of coeffsPerPhase*up taps for rational resampling by up/down, scaled by
// up to compensate for the amplitude loss of conceptual zero-stuffing
// during upsampling, then decomposes it into up polyphase branches: phase
// p holds the prototype's samples at indices p, p+up, p+2*up, ....
func designPolyphaseFilter(up, down int) [][]float64 {
	taps := coeffsPerPhase * up
	cutoff := cutoffSafetyMargin * 0.5 / float64(maxInt(up, down))
	center := float64(taps-1) / 2

	prototype := make([]float64, taps)
	for n := 0; n < taps; n++ {
		x := float64(n) - center
		var sinc float64
		if math.Abs(x) < 1e-9 {
			sinc = 2 * cutoff
		} else {
			sinc = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
		}
		hann := 0.5 - 0.5*math.Cos(2*math.Pi*float64(n)/float64(taps-1))
		prototype[n] = float64(up) * sinc * hann
	}

	phases := make([][]float64, up)
	for p := 0; p < up; p++ {
		branch := make([]float64, coeffsPerPhase)
		for k := 0; k < coeffsPerPhase; k++ {
			if idx := p + k*up; idx < taps {
				branch[k] = prototype[idx]
			}
		}
		phases[p] = branch
	}
	return phases
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
