package audiobuffer

import "github.com/tphakala/simd/f32"

// Channel is a view over one channel's samples within the owning Buffer's
// backing array. A disabled channel still reports Len but participates in
// no pointwise operation, matching AudioBuffer's per-channel disable flag.
type Channel struct {
	data    []float32
	enabled bool
}

// Len returns the number of frames in the channel, independent of whether
// the channel is enabled.
func (c *Channel) Len() int { return len(c.data) }

// Enabled reports whether the channel currently participates in pointwise
// operations.
func (c *Channel) Enabled() bool { return c.enabled }

// SetEnabled toggles whether the channel participates in pointwise
// operations.
func (c *Channel) SetEnabled(enabled bool) { c.enabled = enabled }

// Samples exposes the raw backing slice for callers (FFT transforms, matrix
// views) that need direct access. Mutating it mutates the channel.
func (c *Channel) Samples() []float32 { return c.data }

// At returns the sample at frame i.
func (c *Channel) At(i int) float32 { return c.data[i] }

// Set writes the sample at frame i.
func (c *Channel) Set(i int, v float32) { c.data[i] = v }

// Clear zeroes the channel's samples, a no-op when the channel is disabled.
func (c *Channel) Clear() {
	if !c.enabled {
		return
	}
	for i := range c.data {
		c.data[i] = 0
	}
}

// Add performs c += other, a no-op when either channel is disabled.
func (c *Channel) Add(other *Channel) {
	if !c.enabled || !other.enabled {
		return
	}
	for i, v := range other.data {
		c.data[i] += v
	}
}

// Sub performs c -= other, a no-op when either channel is disabled.
func (c *Channel) Sub(other *Channel) {
	if !c.enabled || !other.enabled {
		return
	}
	for i, v := range other.data {
		c.data[i] -= v
	}
}

// Mul performs c *= other, a no-op when either channel is disabled.
func (c *Channel) Mul(other *Channel) {
	if !c.enabled || !other.enabled {
		return
	}
	for i, v := range other.data {
		c.data[i] *= v
	}
}

// CopyFrom overwrites c's samples with other's, a no-op when either
// channel is disabled.
func (c *Channel) CopyFrom(other *Channel) {
	if !c.enabled || !other.enabled {
		return
	}
	copy(c.data, other.data)
}

// Scale multiplies every sample by s using the SIMD-accelerated kernel the
// teacher's resampler already depends on for buffer scaling.
func (c *Channel) Scale(s float32) {
	if !c.enabled {
		return
	}
	f32.Scale(c.data, c.data, s)
}

// Sum returns the sum of all samples in the channel via the SIMD-accelerated
// reduction the teacher's pipeline stages use for gain/energy bookkeeping.
func (c *Channel) Sum() float32 {
	return f32.Sum(c.data)
}

// DotProduct returns the dot product of c and other using the SIMD kernel
// the teacher's polyphase filter uses for its per-phase convolution sum.
// Both channels must have equal length; lengths are not checked, matching
// the teacher's DotProductUnsafe contract.
func (c *Channel) DotProduct(other *Channel) float32 {
	return f32.DotProductUnsafe(c.data, other.data)
}
