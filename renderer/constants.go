package renderer

import "math"

// MinSupportedAmbisonicOrder and MaxSupportedAmbisonicOrder bound the
// periphonic Ambisonic orders this renderer can operate at, matching the
// order 1-7 range the binaural filter sets are provided for.
const (
	MinSupportedAmbisonicOrder = 1
	MaxSupportedAmbisonicOrder = 7
)

// MaxSupportedNumInputChannels bounds the total number of input channels
// across every configured audio element. The original implementation draws
// this from a build-time constant not present in this retrieval; 128 is
// chosen as generous headroom for several 9.1.6 layouts or many
// simultaneous objects while still catching runaway configuration.
const MaxSupportedNumInputChannels = 128

// NumBinauralChannels is the renderer's fixed output channel count.
const NumBinauralChannels = 2

// negative120dBInAmplitude is -120 dBFS expressed as a linear amplitude
// ratio, 10^(-120/20). Sources whose overall gain falls below this are
// muted outright rather than encoded.
const negative120dBInAmplitude = 1e-6

const radiansFromDegrees = math.Pi / 180.0
