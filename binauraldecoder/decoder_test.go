package binauraldecoder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trsonic/obr/audiobuffer"
	"github.com/trsonic/obr/dspfft"
)

func TestNewRejectsLeftRightChannelMismatch(t *testing.T) {
	fft := dspfft.NewManager(16)
	l := audiobuffer.New(4, 8)
	r := audiobuffer.New(3, 8)
	_, err := New(l, r, 16, fft)
	assert.ErrorIs(t, err, ErrChannelMismatch)
}

func TestNewRejectsEmptyHrirSet(t *testing.T) {
	fft := dspfft.NewManager(16)
	l := audiobuffer.New(0, 8)
	r := audiobuffer.New(0, 8)
	_, err := New(l, r, 16, fft)
	assert.ErrorIs(t, err, ErrChannelMismatch)
}

func TestProcessPanicsOnChannelCountMismatch(t *testing.T) {
	fft := dspfft.NewManager(16)
	l := audiobuffer.New(4, 8)
	r := audiobuffer.New(4, 8)
	d, err := New(l, r, 16, fft)
	require.NoError(t, err)

	in := audiobuffer.New(3, 16)
	out := audiobuffer.New(2, 16)
	assert.Panics(t, func() { d.Process(in, out) })
}

// TestSingleChannelIdentityKernelPassesThroughToBothEars verifies a
// single-channel decoder whose left and right HRIRs are both identity
// kernels reproduces the mono input on both output channels.
func TestSingleChannelIdentityKernelPassesThroughToBothEars(t *testing.T) {
	blockSize := 16
	fft := dspfft.NewManager(blockSize)

	l := audiobuffer.New(1, blockSize)
	r := audiobuffer.New(1, blockSize)
	l.Channel(0).Set(0, 1)
	r.Channel(0).Set(0, 1)

	d, err := New(l, r, blockSize, fft)
	require.NoError(t, err)
	assert.Equal(t, 1, d.NumChannels())

	rng := rand.New(rand.NewSource(3))
	in := audiobuffer.New(1, blockSize)
	for i := 0; i < blockSize; i++ {
		in.Channel(0).Set(i, rng.Float32()*2-1)
	}
	out := audiobuffer.New(2, blockSize)
	d.Process(in, out)

	for i := 0; i < blockSize; i++ {
		want := in.Channel(0).At(i)
		assert.InDelta(t, float64(want), float64(out.Channel(0).At(i)), 1e-4, "left sample %d", i)
		assert.InDelta(t, float64(want), float64(out.Channel(1).At(i)), 1e-4, "right sample %d", i)
	}
}

// TestProcessMatchesDirectConvolutionAcrossMultipleBlocks drives a
// two-channel decoder through several blocks with HRIRs that span more
// than one partition, and checks the streamed output against each
// channel's independently computed direct convolution summed across both
// ears' contributions. A decoder that re-derives its input spectrum from
// a zero-padded single block, rather than a history spanning prior
// blocks, would diverge starting at the second block.
func TestProcessMatchesDirectConvolutionAcrossMultipleBlocks(t *testing.T) {
	blockSize := 16
	fft := dspfft.NewManager(blockSize)

	kernelLen := blockSize*2 + 5 // 3 partitions, crosses block boundaries
	numChannels := 2
	l := audiobuffer.New(numChannels, kernelLen)
	r := audiobuffer.New(numChannels, kernelLen)

	rng := rand.New(rand.NewSource(7))
	kernelsL := make([][]float32, numChannels)
	kernelsR := make([][]float32, numChannels)
	for c := 0; c < numChannels; c++ {
		kernelsL[c] = make([]float32, kernelLen)
		kernelsR[c] = make([]float32, kernelLen)
		for i := 0; i < kernelLen; i++ {
			kernelsL[c][i] = rng.Float32()*2 - 1
			kernelsR[c][i] = rng.Float32()*2 - 1
			l.Channel(c).Set(i, kernelsL[c][i])
			r.Channel(c).Set(i, kernelsR[c][i])
		}
	}

	d, err := New(l, r, blockSize, fft)
	require.NoError(t, err)

	numBlocks := 5
	signals := make([][]float32, numChannels)
	for c := range signals {
		signals[c] = make([]float32, blockSize*numBlocks)
		for i := range signals[c] {
			signals[c][i] = rng.Float32()*2 - 1
		}
	}

	gotLeft := make([]float32, 0, blockSize*numBlocks)
	gotRight := make([]float32, 0, blockSize*numBlocks)
	for block := 0; block < numBlocks; block++ {
		in := audiobuffer.New(numChannels, blockSize)
		for c := 0; c < numChannels; c++ {
			for i := 0; i < blockSize; i++ {
				in.Channel(c).Set(i, signals[c][block*blockSize+i])
			}
		}
		out := audiobuffer.New(2, blockSize)
		d.Process(in, out)
		for i := 0; i < blockSize; i++ {
			gotLeft = append(gotLeft, out.Channel(0).At(i))
			gotRight = append(gotRight, out.Channel(1).At(i))
		}
	}

	wantLeft := make([]float64, blockSize*numBlocks)
	wantRight := make([]float64, blockSize*numBlocks)
	for c := 0; c < numChannels; c++ {
		left := directConvolution(signals[c], kernelsL[c])
		right := directConvolution(signals[c], kernelsR[c])
		for i := range wantLeft {
			wantLeft[i] += left[i]
			wantRight[i] += right[i]
		}
	}

	for i := range gotLeft {
		assert.InDelta(t, wantLeft[i], float64(gotLeft[i]), 1e-2, "left sample %d", i)
		assert.InDelta(t, wantRight[i], float64(gotRight[i]), 1e-2, "right sample %d", i)
	}
}

// directConvolution computes the first len(signal) samples of the causal
// linear convolution y[n] = sum_k kernel[k] * signal[n-k], used as an
// independent reference for the FFT-based decoder.
func directConvolution(signal, kernel []float32) []float64 {
	out := make([]float64, len(signal))
	for n := range out {
		var sum float64
		for k := 0; k < len(kernel) && k <= n; k++ {
			sum += float64(kernel[k]) * float64(signal[n-k])
		}
		out[n] = sum
	}
	return out
}

// TestTwoChannelsSumIntoEachEar verifies that contributions from
// multiple Ambisonic channels are summed, not overwritten, in each ear.
func TestTwoChannelsSumIntoEachEar(t *testing.T) {
	blockSize := 16
	fft := dspfft.NewManager(blockSize)

	l := audiobuffer.New(2, blockSize)
	r := audiobuffer.New(2, blockSize)
	l.Channel(0).Set(0, 1)
	l.Channel(1).Set(0, 1)
	r.Channel(0).Set(0, 1)
	r.Channel(1).Set(0, 1)

	d, err := New(l, r, blockSize, fft)
	require.NoError(t, err)

	in := audiobuffer.New(2, blockSize)
	for i := 0; i < blockSize; i++ {
		in.Channel(0).Set(i, 0.25)
		in.Channel(1).Set(i, 0.5)
	}
	out := audiobuffer.New(2, blockSize)
	d.Process(in, out)

	for i := 0; i < blockSize; i++ {
		assert.InDelta(t, 0.75, float64(out.Channel(0).At(i)), 1e-4, "left sample %d", i)
		assert.InDelta(t, 0.75, float64(out.Channel(1).At(i)), 1e-4, "right sample %d", i)
	}
}
