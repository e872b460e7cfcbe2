package partitionedfilter

import (
	"fmt"

	"github.com/trsonic/obr/dspfft"
)

// InputHistory maintains the forward-transformed ring of the last
// numPartitions fftSize-sample overlapping windows of one input channel's
// block stream. Advance must be called once per block before any Filter
// sharing this history calls Accumulate for that block. Sharing one
// InputHistory between several Filters (e.g. a channel's left- and
// right-ear binaural filters) forward-transforms that channel's input
// exactly once per block no matter how many kernels consume it.
type InputHistory struct {
	fft           *dspfft.Manager
	blockSize     int
	fftSize       int
	numPartitions int

	window []float32 // fftSize time-domain scratch, the last fftSize samples of input seen so far
	ring   [][]float32
	next   int // index Advance will write to next
	latest int // index Advance most recently wrote to
}

// NewInputHistory constructs an InputHistory for blockSize-sample blocks,
// sized to hold numPartitions delayed spectra. fft must be sized for
// blockSize-length blocks (see dspfft.NewManager).
func NewInputHistory(fft *dspfft.Manager, blockSize, numPartitions int) *InputHistory {
	if blockSize <= 0 {
		panic("partitionedfilter: blockSize must be positive")
	}
	if numPartitions <= 0 {
		panic("partitionedfilter: numPartitions must be positive")
	}
	fftSize := fft.FftSize()
	ring := make([][]float32, numPartitions)
	for p := range ring {
		ring[p] = make([]float32, fftSize)
	}
	return &InputHistory{
		fft:           fft,
		blockSize:     blockSize,
		fftSize:       fftSize,
		numPartitions: numPartitions,
		window:        make([]float32, fftSize),
		ring:          ring,
	}
}

// Advance slides the window by blockSize samples, discarding the oldest
// blockSize samples and appending input, then forward-transforms the
// result into the ring. input must be blockSize samples long.
func (h *InputHistory) Advance(input []float32) {
	if len(input) != h.blockSize {
		panic(fmt.Sprintf("partitionedfilter: input must be %d samples long", h.blockSize))
	}
	copy(h.window, h.window[h.blockSize:])
	copy(h.window[h.fftSize-h.blockSize:], input)

	h.ring[h.next] = h.fft.FreqFromTimeDomain(h.window)
	h.latest = h.next
	h.next = (h.next + 1) % h.numPartitions
}

// spectrumDelayedBy returns the spectrum from p blocks before the one
// most recently passed to Advance.
func (h *InputHistory) spectrumDelayedBy(p int) []float32 {
	idx := ((h.latest-p)%h.numPartitions + h.numPartitions) % h.numPartitions
	return h.ring[idx]
}
