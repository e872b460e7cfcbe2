// Package ambisonicenc implements the dense-matrix Ambisonic encoder that
// turns loudspeaker and object input channels into higher-order Ambisonic
// channels via a per-source spherical harmonic gain column.
package ambisonicenc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/trsonic/obr/audiobuffer"
	"github.com/trsonic/obr/sphericalharmonics"
)

// Negative120dBInAmplitude is -120 dBFS expressed as a linear amplitude
// ratio. A source whose overall gain (gain / max(distance, 0.5)) falls
// below this threshold is muted outright rather than encoded.
const Negative120dBInAmplitude = 1e-6

const radiansFromDegrees = math.Pi / 180.0

type sourceEntry struct {
	gain, azimuth, elevation, distance float64
}

// Encoder holds a dense (order+1)^2 x numberOfInputChannels encoding matrix
// whose column c holds source c's SH coefficients scaled by its overall
// gain. ProcessPlanarAudioData multiplies this matrix against a block of
// input channels to produce Ambisonic channels in a single pass.
type Encoder struct {
	numberOfInputChannels  int
	numberOfOutputChannels int
	ambisonicOrder         int

	legendre *sphericalharmonics.LegendreGenerator

	encodingMatrix *mat.Dense
	sources        map[int]sourceEntry
}

// New constructs an Encoder for numberOfInputChannels input channels
// encoding to the given Ambisonic order. Both arguments must be positive.
func New(numberOfInputChannels, ambisonicOrder int) *Encoder {
	if numberOfInputChannels <= 0 {
		panic("ambisonicenc: numberOfInputChannels must be positive")
	}
	if ambisonicOrder <= 0 {
		panic("ambisonicenc: ambisonicOrder must be positive")
	}
	numberOfOutputChannels := (ambisonicOrder + 1) * (ambisonicOrder + 1)
	return &Encoder{
		numberOfInputChannels:  numberOfInputChannels,
		numberOfOutputChannels: numberOfOutputChannels,
		ambisonicOrder:         ambisonicOrder,
		legendre:               sphericalharmonics.NewLegendreGenerator(ambisonicOrder),
		encodingMatrix:         mat.NewDense(numberOfOutputChannels, numberOfInputChannels, nil),
		sources:                make(map[int]sourceEntry),
	}
}

// SetSource places or updates a source's gain and position. azimuth and
// elevation are in degrees, matching the metadata convention used at the
// renderer's configuration boundary; distance is in metres and is clamped
// to a 0.5 m minimum to prevent runaway gain from near-field sources. A
// call with identical parameters to the source's current state is a no-op
// (idempotence), avoiding redundant SH recomputation when the renderer
// re-applies every source's unchanged position on a configuration change.
func (e *Encoder) SetSource(inputChannel int, gain, azimuth, elevation, distance float64) {
	if inputChannel < 0 || inputChannel >= e.numberOfInputChannels {
		panic(fmt.Sprintf("ambisonicenc: input channel %d out of range [0, %d)", inputChannel, e.numberOfInputChannels))
	}

	current, exists := e.sources[inputChannel]
	next := sourceEntry{gain: gain, azimuth: azimuth, elevation: elevation, distance: distance}
	if exists && current == next {
		return
	}
	e.sources[inputChannel] = next

	overallGain := gain / math.Max(distance, 0.5)
	if overallGain < Negative120dBInAmplitude {
		for row := 0; row < e.numberOfOutputChannels; row++ {
			e.encodingMatrix.Set(row, inputChannel, 0)
		}
		return
	}

	coeffs := e.shCoeffs(azimuth, elevation)
	for row := 0; row < e.numberOfOutputChannels; row++ {
		e.encodingMatrix.Set(row, inputChannel, coeffs[row]*overallGain)
	}
}

// RemoveSource clears an input channel's column, muting it until SetSource
// is called again.
func (e *Encoder) RemoveSource(inputChannel int) {
	delete(e.sources, inputChannel)
	for row := 0; row < e.numberOfOutputChannels; row++ {
		e.encodingMatrix.Set(row, inputChannel, 0)
	}
}

// shCoeffs evaluates the SN3D-normalized real spherical harmonics up to
// e.ambisonicOrder for a source at (azimuth, elevation) in degrees,
// returning one coefficient per output channel in ACN order.
func (e *Encoder) shCoeffs(azimuth, elevation float64) []float64 {
	azimuthRad := azimuth * radiansFromDegrees
	elevationRad := elevation * radiansFromDegrees

	alp := e.legendre.Generate(math.Sin(elevationRad))

	coeffs := make([]float64, e.numberOfOutputChannels)
	for degree := 0; degree <= e.ambisonicOrder; degree++ {
		for order := -degree; order <= degree; order++ {
			acn := sphericalharmonics.ACN(degree, order)
			coeffs[acn] = sphericalharmonics.RealSH(degree, order, azimuthRad, elevationRad, alp, e.legendre.GetIndex)
		}
	}
	return coeffs
}

// ProcessPlanarAudioData multiplies the encoding matrix against input,
// writing numberOfOutputChannels channels of output. input must have
// exactly numberOfInputChannels channels, output exactly
// numberOfOutputChannels channels, and both must have the same frame count.
func (e *Encoder) ProcessPlanarAudioData(input, output *audiobuffer.Buffer) {
	if input.NumChannels() != e.numberOfInputChannels {
		panic(fmt.Sprintf("ambisonicenc: input has %d channels, want %d", input.NumChannels(), e.numberOfInputChannels))
	}
	if output.NumChannels() != e.numberOfOutputChannels {
		panic(fmt.Sprintf("ambisonicenc: output has %d channels, want %d", output.NumChannels(), e.numberOfOutputChannels))
	}
	if input.NumFrames() != output.NumFrames() {
		panic("ambisonicenc: input/output frame count mismatch")
	}

	numFrames := input.NumFrames()
	unencoded := mat.NewDense(e.numberOfInputChannels, numFrames, nil)
	for c := 0; c < e.numberOfInputChannels; c++ {
		samples := input.Channel(c).Samples()
		for f := 0; f < numFrames; f++ {
			unencoded.Set(c, f, float64(samples[f]))
		}
	}

	var encoded mat.Dense
	encoded.Mul(e.encodingMatrix, unencoded)

	for c := 0; c < e.numberOfOutputChannels; c++ {
		out := output.Channel(c)
		for f := 0; f < numFrames; f++ {
			out.Set(f, float32(encoded.At(c, f)))
		}
	}
}

// NumberOfInputChannels returns the encoder's configured input width.
func (e *Encoder) NumberOfInputChannels() int { return e.numberOfInputChannels }

// NumberOfOutputChannels returns (ambisonicOrder+1)^2.
func (e *Encoder) NumberOfOutputChannels() int { return e.numberOfOutputChannels }
