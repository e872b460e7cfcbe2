// Package partitionedfilter implements uniformly partitioned overlap-save
// FFT convolution: a time-domain kernel of arbitrary length streamed
// against a block input, one fixed-size block at a time.
package partitionedfilter

import (
	"errors"
	"fmt"

	"github.com/trsonic/obr/dspfft"
)

// ErrInvalidKernel is returned by SetKernel when the kernel is empty.
var ErrInvalidKernel = errors.New("partitionedfilter: invalid kernel")

// State is the filter's lifecycle stage.
type State int

const (
	// FreshlyConstructed filters have no kernel and cannot Accumulate.
	FreshlyConstructed State = iota
	// KernelSet filters have a kernel but have not yet processed a block.
	KernelSet
	// Streaming filters have processed at least one block. There is no
	// terminal state; a filter only leaves Streaming by way of SetKernel
	// resetting it back to KernelSet.
	Streaming
)

// Filter convolves an InputHistory's streamed block input against a fixed
// kernel using the shared fft Manager's transform. A Filter owns no input
// state of its own: Accumulate reads the delayed spectra an InputHistory
// already computed, so several Filters (e.g. one per ear) can share one
// InputHistory and forward-transform their common input only once per
// block.
type Filter struct {
	fft       *dspfft.Manager
	blockSize int
	fftSize   int

	kernelSpectra [][]float32 // P canonical freq buffers, one per partition
	accum         []float32   // fftSize canonical freq scratch, reused per block

	state State
}

// New constructs a Filter sharing fft for its transforms. fft must be
// sized for blockSize-length blocks (see dspfft.NewManager); blockSize
// must match the block length Accumulate will be called with, and the
// blockSize of any InputHistory passed to it.
func New(fft *dspfft.Manager, blockSize int) *Filter {
	if blockSize <= 0 {
		panic("partitionedfilter: blockSize must be positive")
	}
	return &Filter{
		fft:       fft,
		blockSize: blockSize,
		fftSize:   fft.FftSize(),
		accum:     make([]float32, fft.FftSize()),
		state:     FreshlyConstructed,
	}
}

// State reports the filter's current lifecycle stage.
func (f *Filter) State() State { return f.state }

// NumPartitions reports the number of kernel partitions, valid once a
// kernel has been set.
func (f *Filter) NumPartitions() int { return len(f.kernelSpectra) }

// SetKernel splits kernel into P = ceil(len(kernel)/blockSize) partitions
// of blockSize samples each (the last zero-padded), forward-transforms
// each partition, and resets the filter to KernelSet.
func (f *Filter) SetKernel(kernel []float32) error {
	if len(kernel) == 0 {
		return fmt.Errorf("%w: empty kernel", ErrInvalidKernel)
	}

	numPartitions := (len(kernel) + f.blockSize - 1) / f.blockSize
	kernelSpectra := make([][]float32, numPartitions)
	padded := make([]float32, f.fftSize)
	for p := 0; p < numPartitions; p++ {
		start := p * f.blockSize
		end := start + f.blockSize
		if end > len(kernel) {
			end = len(kernel)
		}

		// Each partition's taps go at the head of the fftSize buffer
		// (trailing zeros). An InputHistory's window holds the last
		// fftSize samples of input ending at the current block, so the
		// ring entry delayed by p partitions is a window ending p blocks
		// back. With taps at the head, the only nonzero terms of the
		// resulting circular convolution in the window's last blockSize
		// samples come from that partition's own two most recent blocks,
		// never from anything older, regardless of how much extra
		// history fftSize carries beyond 2*blockSize.
		for i := range padded {
			padded[i] = 0
		}
		copy(padded[:end-start], kernel[start:end])
		kernelSpectra[p] = f.fft.FreqFromTimeDomain(padded)
	}

	f.kernelSpectra = kernelSpectra
	f.state = KernelSet
	return nil
}

// Accumulate convolves history's current block against f's kernel and
// writes blockSize samples of filtered output. history must already have
// been advanced for this block (via InputHistory.Advance) and must share
// this Filter's blockSize and partition count. Calling Accumulate before
// a kernel has been set, with a mismatched history, or with output not
// blockSize samples long, is a programmer error and panics.
func (f *Filter) Accumulate(history *InputHistory, output []float32) {
	if f.state == FreshlyConstructed {
		panic("partitionedfilter: Accumulate called before SetKernel")
	}
	if len(output) != f.blockSize {
		panic(fmt.Sprintf("partitionedfilter: output must be %d samples long", f.blockSize))
	}
	P := len(f.kernelSpectra)
	if history.blockSize != f.blockSize || history.fftSize != f.fftSize || history.numPartitions != P {
		panic("partitionedfilter: history is not compatible with this filter")
	}

	for i := range f.accum {
		f.accum[i] = 0
	}
	for p := 0; p < P; p++ {
		f.fft.MultiplyAccumulate(f.accum, history.spectrumDelayedBy(p), f.kernelSpectra[p])
	}

	timeDomain := f.fft.TimeFromFreqDomain(f.accum, f.fftSize)
	copy(output, timeDomain[f.fftSize-f.blockSize:])

	f.state = Streaming
}
