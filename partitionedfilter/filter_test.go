package partitionedfilter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trsonic/obr/dspfft"
)

func TestSetKernelRejectsEmptyKernel(t *testing.T) {
	fft := dspfft.NewManager(8)
	f := New(fft, 8)
	err := f.SetKernel(nil)
	assert.ErrorIs(t, err, ErrInvalidKernel)
	assert.Equal(t, FreshlyConstructed, f.State())
}

func TestAccumulatePanicsBeforeKernelSet(t *testing.T) {
	fft := dspfft.NewManager(8)
	f := New(fft, 8)
	history := NewInputHistory(fft, 8, 1)
	history.Advance(make([]float32, 8))
	out := make([]float32, 8)
	assert.Panics(t, func() { f.Accumulate(history, out) })
}

func TestProcessPassesThroughImpulseKernelWithoutLatency(t *testing.T) {
	blockSize := 16
	fft := dspfft.NewManager(blockSize)
	f := New(fft, blockSize)

	kernel := make([]float32, blockSize)
	kernel[0] = 1 // identity kernel: y[n] = x[n]
	assert.NoError(t, f.SetKernel(kernel))
	assert.Equal(t, KernelSet, f.State())

	history := NewInputHistory(fft, blockSize, f.NumPartitions())

	rng := rand.New(rand.NewSource(1))
	for block := 0; block < 4; block++ {
		in := make([]float32, blockSize)
		for i := range in {
			in[i] = rng.Float32()*2 - 1
		}
		history.Advance(in)
		out := make([]float32, blockSize)
		f.Accumulate(history, out)
		assert.Equal(t, Streaming, f.State())
		for i := range in {
			assert.InDelta(t, float64(in[i]), float64(out[i]), 1e-4, "block %d sample %d", block, i)
		}
	}
}

func TestProcessMatchesDirectConvolutionAcrossMultiplePartitions(t *testing.T) {
	blockSize := 16
	fft := dspfft.NewManager(blockSize)
	f := New(fft, blockSize)

	kernelLen := blockSize*3 + 5 // 4 partitions, last one zero-padded
	kernel := make([]float32, kernelLen)
	rng := rand.New(rand.NewSource(2))
	for i := range kernel {
		kernel[i] = rng.Float32()*2 - 1
	}
	assert.NoError(t, f.SetKernel(kernel))
	assert.Equal(t, 4, f.NumPartitions())

	history := NewInputHistory(fft, blockSize, f.NumPartitions())

	numBlocks := 6
	signal := make([]float32, blockSize*numBlocks)
	for i := range signal {
		signal[i] = rng.Float32()*2 - 1
	}

	got := make([]float32, 0, len(signal))
	for block := 0; block < numBlocks; block++ {
		in := signal[block*blockSize : (block+1)*blockSize]
		history.Advance(in)
		out := make([]float32, blockSize)
		f.Accumulate(history, out)
		got = append(got, out...)
	}

	want := directConvolution(signal, kernel)
	for i := range got {
		assert.InDelta(t, float64(want[i]), float64(got[i]), 1e-2, "sample %d", i)
	}
}

func TestAccumulateSharesOneHistoryAcrossTwoKernels(t *testing.T) {
	blockSize := 16
	fft := dspfft.NewManager(blockSize)

	kernelLen := blockSize*2 + 3
	rng := rand.New(rand.NewSource(3))
	kernelA := make([]float32, kernelLen)
	kernelB := make([]float32, kernelLen)
	for i := range kernelA {
		kernelA[i] = rng.Float32()*2 - 1
		kernelB[i] = rng.Float32()*2 - 1
	}

	fA := New(fft, blockSize)
	assert.NoError(t, fA.SetKernel(kernelA))
	fB := New(fft, blockSize)
	assert.NoError(t, fB.SetKernel(kernelB))
	assert.Equal(t, fA.NumPartitions(), fB.NumPartitions())

	history := NewInputHistory(fft, blockSize, fA.NumPartitions())

	numBlocks := 5
	signal := make([]float32, blockSize*numBlocks)
	for i := range signal {
		signal[i] = rng.Float32()*2 - 1
	}

	gotA := make([]float32, 0, len(signal))
	gotB := make([]float32, 0, len(signal))
	for block := 0; block < numBlocks; block++ {
		in := signal[block*blockSize : (block+1)*blockSize]
		history.Advance(in)

		outA := make([]float32, blockSize)
		fA.Accumulate(history, outA)
		gotA = append(gotA, outA...)

		outB := make([]float32, blockSize)
		fB.Accumulate(history, outB)
		gotB = append(gotB, outB...)
	}

	wantA := directConvolution(signal, kernelA)
	wantB := directConvolution(signal, kernelB)
	for i := range gotA {
		assert.InDelta(t, float64(wantA[i]), float64(gotA[i]), 1e-2, "A sample %d", i)
		assert.InDelta(t, float64(wantB[i]), float64(gotB[i]), 1e-2, "B sample %d", i)
	}
}

// directConvolution computes the first len(signal) samples of the causal
// linear convolution y[n] = sum_k kernel[k] * signal[n-k], used as an
// independent reference for the FFT-based filter.
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
