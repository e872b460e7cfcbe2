// Package audiobuffer provides planar, SIMD-aligned multichannel float
// storage shared by every DSP stage in the renderer.
package audiobuffer

import (
	"fmt"
)

// AlignmentBytes is the SIMD alignment quantum channel bases are rounded up
// to. 16 bytes is sufficient for SSE; this buffer tolerates AVX-512's 64.
const AlignmentBytes = 64

// alignmentSamples is AlignmentBytes expressed in float32 samples.
const alignmentSamples = AlignmentBytes / 4

// alignStride rounds frames up to the next multiple of alignmentSamples.
func alignStride(frames int) int {
	if frames <= 0 {
		return alignmentSamples
	}
	rem := frames % alignmentSamples
	if rem == 0 {
		return frames
	}
	return frames + (alignmentSamples - rem)
}

// Buffer owns a single allocation of numChannels*stride float32s and hands
// out a Channel view per channel. No reallocation happens after
// construction; callers that need a different shape build a new Buffer.
type Buffer struct {
	data      []float32
	numFrames int
	stride    int
	channels  []Channel
}

// New allocates a Buffer with numChannels channels of numFrames frames each.
// Allocated memory is not zero-initialized beyond what Go's runtime already
// guarantees (which is to say: it is zeroed, matching make([]float32, n)).
func New(numChannels, numFrames int) *Buffer {
	if numChannels < 0 || numFrames < 0 {
		panic(fmt.Sprintf("audiobuffer: invalid shape (%d, %d)", numChannels, numFrames))
	}
	stride := alignStride(numFrames)
	b := &Buffer{
		data:      make([]float32, numChannels*stride),
		numFrames: numFrames,
		stride:    stride,
		channels:  make([]Channel, numChannels),
	}
	for c := range b.channels {
		base := c * stride
		b.channels[c] = Channel{data: b.data[base : base+numFrames : base+stride], enabled: true}
	}
	return b
}

// NumChannels returns the number of channels.
func (b *Buffer) NumChannels() int { return len(b.channels) }

// NumFrames returns the number of frames per channel.
func (b *Buffer) NumFrames() int { return b.numFrames }

// Stride returns the allocated frames per channel, which may exceed
// NumFrames to preserve channel-base alignment.
func (b *Buffer) Stride() int { return b.stride }

// Channel returns a pointer to the view of channel i. The returned pointer
// is valid for the lifetime of the Buffer.
func (b *Buffer) Channel(i int) *Channel { return &b.channels[i] }

// Clear zeroes every channel and re-enables it, matching AudioBuffer::Clear.
func (b *Buffer) Clear() {
	for i := range b.channels {
		b.channels[i].enabled = true
		b.channels[i].Clear()
	}
}

// CheckSameShape panics if other does not have the same channel/frame count.
// This is a programmer-error precondition per the renderer's failure
// semantics: shape mismatches abort rather than return an error.
func (b *Buffer) CheckSameShape(other *Buffer) {
	if b.NumChannels() != other.NumChannels() || b.NumFrames() != other.NumFrames() {
		panic(fmt.Sprintf("audiobuffer: shape mismatch (%d,%d) vs (%d,%d)",
			b.NumChannels(), b.NumFrames(), other.NumChannels(), other.NumFrames()))
	}
}

// Add performs b += other channel-by-channel.
func (b *Buffer) Add(other *Buffer) {
	b.CheckSameShape(other)
	for i := range b.channels {
		b.channels[i].Add(&other.channels[i])
	}
}

// Sub performs b -= other channel-by-channel.
func (b *Buffer) Sub(other *Buffer) {
	b.CheckSameShape(other)
	for i := range b.channels {
		b.channels[i].Sub(&other.channels[i])
	}
}

// Mul performs b *= other channel-by-channel.
func (b *Buffer) Mul(other *Buffer) {
	b.CheckSameShape(other)
	for i := range b.channels {
		b.channels[i].Mul(&other.channels[i])
	}
}

// CopyFrom copies other's channel contents into b, preserving b's own
// enabled flags (b must already have the same shape).
func (b *Buffer) CopyFrom(other *Buffer) {
	b.CheckSameShape(other)
	for i := range b.channels {
		b.channels[i].CopyFrom(&other.channels[i])
	}
}

// Scale multiplies every sample in every channel by s.
func (b *Buffer) Scale(s float32) {
	for i := range b.channels {
		b.channels[i].Scale(s)
	}
}
