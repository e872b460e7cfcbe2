// Package limiter implements a release-only feed-forward peak limiter:
// an attack-instant, release-smoothed envelope follower that scales every
// channel uniformly so the loudest channel at each frame never exceeds a
// fixed ceiling.
package limiter

import (
	"math"

	"github.com/trsonic/obr/audiobuffer"
)

// Limiter tracks a single shared envelope across every Process call,
// attacking instantly and releasing with a fixed time constant.
type Limiter struct {
	ceiling             float64
	releaseTimeConstant float64
	env                 float64
}

// New constructs a Limiter for the given sampling rate, release time in
// milliseconds, and ceiling level in decibels. The envelope starts at
// 1.0 (no gain reduction).
func New(samplingRate int, releaseMs, ceilingDb float64) *Limiter {
	return &Limiter{
		ceiling:             math.Pow(10, ceilingDb/20),
		releaseTimeConstant: math.Exp(-3 / (float64(samplingRate) * releaseMs / 1000)),
		env:                 1.0,
	}
}

// Process scales every channel of input by a shared gain envelope
// derived from the per-frame maximum absolute sample across all
// channels, writing the result to output. input and output must have
// the same channel count and frame count.
func (l *Limiter) Process(input, output *audiobuffer.Buffer) {
	input.CheckSameShape(output)
	numChannels := input.NumChannels()
	numFrames := input.NumFrames()

	maxSamples := make([]float32, numFrames)
	for c := 0; c < numChannels; c++ {
		in := input.Channel(c).Samples()
		for frame := 0; frame < numFrames; frame++ {
			if abs := float32(math.Abs(float64(in[frame]))); abs > maxSamples[frame] {
				maxSamples[frame] = abs
			}
		}
	}

	env := make([]float32, numFrames)
	for frame := 0; frame < numFrames; frame++ {
		maxReqGain := l.maximumRequiredGain(float64(maxSamples[frame]))
		if maxReqGain < l.env {
			l.env = maxReqGain
		} else {
			l.env = l.releaseTimeConstant*(l.env-maxReqGain) + maxReqGain
		}
		env[frame] = float32(l.env)
	}

	for c := 0; c < numChannels; c++ {
		in := input.Channel(c).Samples()
		out := output.Channel(c).Samples()
		for frame := 0; frame < numFrames; frame++ {
			out[frame] = in[frame] * env[frame]
		}
	}
}

// maximumRequiredGain returns the gain needed to bring sample's absolute
// value down to the ceiling, or 1 if it's already within the ceiling.
func (l *Limiter) maximumRequiredGain(sample float64) float64 {
	sample = math.Abs(sample)
	if sample > l.ceiling {
		return l.ceiling / sample
	}
	return 1
}
