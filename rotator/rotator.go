package rotator

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/trsonic/obr/audiobuffer"
	"github.com/trsonic/obr/sphericalharmonics"
)

// SlerpFrameInterval is the sub-window size, in frames, used to
// interpolate between the previously applied orientation and the target
// orientation across a block.
const SlerpFrameInterval = 32

// RotationQuantizationThreshold bounds the squared Euclidean distance
// between consecutive orientation quaternions below which Process is a
// no-op. Chosen to match a small perturbation of a few thousandths in each
// component being ignored while a rotation of a few tenths of a radian's
// worth of quaternion component is applied.
const RotationQuantizationThreshold = 1e-3

// Rotator rotates a higher-order Ambisonic sound field in the spherical
// harmonic domain, given a target orientation quaternion, by building a
// block-diagonal rotation matrix and interpolating across sub-block
// windows to avoid audible steps.
type Rotator struct {
	order       int
	numChannels int
	last        Quaternion
}

// New constructs a Rotator for the given Ambisonic order. The rotator
// starts at the identity orientation.
func New(order int) *Rotator {
	if order <= 0 {
		panic("rotator: order must be positive")
	}
	return &Rotator{
		order:       order,
		numChannels: (order + 1) * (order + 1),
		last:        Identity,
	}
}

// Reset sets the rotator's internally tracked last-applied orientation to
// q without rotating anything, used when head tracking is re-enabled so
// that the next Process call does not slerp a large step from whatever
// orientation was current before tracking was disabled.
func (r *Rotator) Reset(q Quaternion) {
	r.last = q.Normalized()
}

// Process rotates input by orientation q, writing the result to output.
// input and output may alias the same buffer. It reports whether a
// rotation was actually applied: if q is within RotationQuantizationThreshold
// of the last applied orientation, Process leaves output untouched (when
// output does not already alias input, callers must copy input to output
// themselves) and returns false.
func (r *Rotator) Process(q Quaternion, input, output *audiobuffer.Buffer) bool {
	if input.NumChannels() != r.numChannels || output.NumChannels() != r.numChannels {
		panic(fmt.Sprintf("rotator: buffers must have %d channels", r.numChannels))
	}
	if input.NumFrames() != output.NumFrames() {
		panic("rotator: input/output frame count mismatch")
	}

	q = q.Normalized()
	if q.SquaredDistance(r.last) < RotationQuantizationThreshold {
		return false
	}

	frames := input.NumFrames()
	if frames < SlerpFrameInterval {
		r.applyMatrix(r.matrixFor(q), input, output, 0, frames)
		r.last = q
		return true
	}

	numWindows := (frames + SlerpFrameInterval - 1) / SlerpFrameInterval
	start := r.last
	pos := 0
	for k := 0; k < numWindows; k++ {
		end := pos + SlerpFrameInterval
		if end > frames {
			end = frames
		}
		frac := float64(k+1) / float64(numWindows)
		interpolated := Slerp(start, q, frac)
		r.applyMatrix(r.matrixFor(interpolated), input, output, pos, end)
		pos = end
	}
	r.last = q
	return true
}

// matrixFor builds the full (order+1)^2 x (order+1)^2 block-diagonal SH
// rotation matrix for orientation q.
func (r *Rotator) matrixFor(q Quaternion) *mat.Dense {
	bands := buildBands(r.order, q.rotationMatrix3x3())
	m := mat.NewDense(r.numChannels, r.numChannels, nil)
	for degree := 0; degree <= r.order; degree++ {
		if degree == 0 {
			m.Set(0, 0, 1)
			continue
		}
		b := bands[degree]
		for row := -degree; row <= degree; row++ {
			for col := -degree; col <= degree; col++ {
				acnRow := sphericalharmonics.ACN(degree, row)
				acnCol := sphericalharmonics.ACN(degree, col)
				m.Set(acnRow, acnCol, b.at(row, col))
			}
		}
	}
	return m
}

// applyMatrix multiplies m against input's [start, end) frame range,
// writing the rotated result into the same range of output.
func (r *Rotator) applyMatrix(m *mat.Dense, input, output *audiobuffer.Buffer, start, end int) {
	winLen := end - start
	if winLen <= 0 {
		return
	}

	in := mat.NewDense(r.numChannels, winLen, nil)
	for c := 0; c < r.numChannels; c++ {
		samples := input.Channel(c).Samples()
		for f := 0; f < winLen; f++ {
			in.Set(c, f, float64(samples[start+f]))
		}
	}

	var out mat.Dense
	out.Mul(m, in)

	for c := 0; c < r.numChannels; c++ {
		dst := output.Channel(c)
		for f := 0; f < winLen; f++ {
			dst.Set(start+f, float32(out.At(c, f)))
		}
	}
}
