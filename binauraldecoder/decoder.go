// Package binauraldecoder decodes an Ambisonic sound field of arbitrary
// order to two-channel binaural audio by convolving each input channel
// with its spherical-harmonic-encoded HRIR pair and summing the results.
package binauraldecoder

import (
	"errors"
	"fmt"

	"github.com/trsonic/obr/audiobuffer"
	"github.com/trsonic/obr/dspfft"
	"github.com/trsonic/obr/partitionedfilter"
)

// ErrChannelMismatch is returned by New when the left HRIR buffer has no
// channels, or the left/right HRIR buffers disagree on channel count or
// length. A Process input whose channel count differs from the HRIRs'
// panics instead.
var ErrChannelMismatch = errors.New("binauraldecoder: channel count mismatch")

// Decoder owns one shared input spectrum history and one left/right pair
// of partitioned FFT filters per Ambisonic channel, and accumulates their
// outputs into a two-channel buffer. Each channel's input is
// forward-transformed once per block and shared between its left- and
// right-ear filters, matching the single shared freq_input scratch the
// original decoder uses.
type Decoder struct {
	histories          []*partitionedfilter.InputHistory
	filtersL, filtersR []*partitionedfilter.Filter
	framesPerBuffer    int
	scratch            []float32 // reused per-channel filter output
}

// New builds a Decoder from time-domain spherical-harmonic-encoded HRIRs
// for the left and right ear. shHrirsL and shHrirsR must have the same
// number of channels, one per Ambisonic channel the Decoder will accept,
// and the same filter length. fft must be sized for framesPerBuffer (see
// dspfft.NewManager) and is shared across every one of the decoder's
// filters.
func New(shHrirsL, shHrirsR *audiobuffer.Buffer, framesPerBuffer int, fft *dspfft.Manager) (*Decoder, error) {
	if shHrirsL.NumChannels() == 0 {
		return nil, fmt.Errorf("%w: no spherical harmonic HRIR channels", ErrChannelMismatch)
	}
	if shHrirsL.NumChannels() != shHrirsR.NumChannels() {
		return nil, fmt.Errorf("%w: left has %d channels, right has %d",
			ErrChannelMismatch, shHrirsL.NumChannels(), shHrirsR.NumChannels())
	}
	if shHrirsL.NumFrames() != shHrirsR.NumFrames() {
		return nil, fmt.Errorf("%w: left HRIR length %d, right HRIR length %d",
			ErrChannelMismatch, shHrirsL.NumFrames(), shHrirsR.NumFrames())
	}

	numChannels := shHrirsL.NumChannels()
	numPartitions := (shHrirsL.NumFrames() + framesPerBuffer - 1) / framesPerBuffer
	d := &Decoder{
		histories:       make([]*partitionedfilter.InputHistory, numChannels),
		filtersL:        make([]*partitionedfilter.Filter, numChannels),
		filtersR:        make([]*partitionedfilter.Filter, numChannels),
		framesPerBuffer: framesPerBuffer,
		scratch:         make([]float32, framesPerBuffer),
	}

	for c := 0; c < numChannels; c++ {
		d.histories[c] = partitionedfilter.NewInputHistory(fft, framesPerBuffer, numPartitions)

		fL := partitionedfilter.New(fft, framesPerBuffer)
		if err := fL.SetKernel(shHrirsL.Channel(c).Samples()); err != nil {
			return nil, fmt.Errorf("binauraldecoder: left ear channel %d: %w", c, err)
		}
		d.filtersL[c] = fL

		fR := partitionedfilter.New(fft, framesPerBuffer)
		if err := fR.SetKernel(shHrirsR.Channel(c).Samples()); err != nil {
			return nil, fmt.Errorf("binauraldecoder: right ear channel %d: %w", c, err)
		}
		d.filtersR[c] = fR
	}
	return d, nil
}

// NumChannels reports the number of Ambisonic channels this Decoder
// expects Process's input to carry.
func (d *Decoder) NumChannels() int { return len(d.filtersL) }

// Process convolves each channel of input against its left/right HRIR
// filter and sums the results into output's two channels. input must
// carry NumChannels() channels of framesPerBuffer samples; output must
// have exactly 2 channels of framesPerBuffer samples. Mismatches panic.
func (d *Decoder) Process(input, output *audiobuffer.Buffer) {
	if input.NumChannels() != len(d.filtersL) {
		panic(fmt.Sprintf("binauraldecoder: Process expects %d input channels, got %d",
			len(d.filtersL), input.NumChannels()))
	}
	if output.NumChannels() != 2 {
		panic(fmt.Sprintf("binauraldecoder: Process output must have 2 channels, got %d",
			output.NumChannels()))
	}
	if input.NumFrames() != d.framesPerBuffer || output.NumFrames() != d.framesPerBuffer {
		panic("binauraldecoder: input/output must be framesPerBuffer frames long")
	}

	output.Clear()
	left := output.Channel(0).Samples()
	right := output.Channel(1).Samples()

	for c := 0; c < len(d.filtersL); c++ {
		in := input.Channel(c).Samples()
		d.histories[c].Advance(in)

		d.filtersL[c].Accumulate(d.histories[c], d.scratch)
		for i, v := range d.scratch {
			left[i] += v
		}

		d.filtersR[c].Accumulate(d.histories[c], d.scratch)
		for i, v := range d.scratch {
			right[i] += v
		}
	}
}
