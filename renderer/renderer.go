package renderer

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"sync"
	"text/tabwriter"

	"github.com/trsonic/obr/ambisonicenc"
	"github.com/trsonic/obr/audiobuffer"
	"github.com/trsonic/obr/binauraldecoder"
	"github.com/trsonic/obr/dspfft"
	"github.com/trsonic/obr/hrir"
	"github.com/trsonic/obr/limiter"
	"github.com/trsonic/obr/rotator"
)

// peakLimiterReleaseMs and peakLimiterCeilingDb are the operating-point
// constants the DSP chain is (re)built with on every InitializeDsp call.
const (
	peakLimiterReleaseMs = 50
	peakLimiterCeilingDb = -0.5
)

// Renderer accumulates a list of audio elements, each owning a window of
// input channels, and renders their mix down to two-channel binaural
// audio: loudspeaker and object channels are first encoded to a shared
// Ambisonic mix bed, full Ambisonics elements are summed directly into it,
// the mix bed is optionally rotated for head tracking, and the result is
// decoded through a pair of spherical-harmonic HRIR filter sets and peak
// limited.
//
// mu guards every field touched by Process and the DSP (re)initialization
// it depends on. Audio element list mutation (AddAudioElement,
// RemoveLastAudioElement, UpdateObjectPosition) is not itself covered by
// mu, configuration calls are expected to happen between render passes,
// not concurrently with them.
type Renderer struct {
	bufferSizePerChannel int
	samplingRate         int
	assets               hrir.AssetProvider

	audioElements []*AudioElementConfig

	headTrackingEnabled bool
	worldRotation       rotator.Quaternion

	mu sync.Mutex

	fft                         *dspfft.Manager
	ambisonicMixBed             *audiobuffer.Buffer
	ambisonicEncoder            *ambisonicenc.Encoder
	ambisonicEncoderInputBuffer *audiobuffer.Buffer
	ambisonicRotator            *rotator.Rotator
	binauralDecoder             *binauraldecoder.Decoder
	peakLimiter                 *limiter.Limiter
}

// New constructs a Renderer operating at bufferSizePerChannel frames per
// Process call and samplingRate Hz, resolving HRIR assets through assets.
// It starts with no audio elements configured; Process cannot be called
// until at least one has been added via AddAudioElement.
func New(bufferSizePerChannel, samplingRate int, assets hrir.AssetProvider) *Renderer {
	if bufferSizePerChannel <= 0 {
		panic("renderer: bufferSizePerChannel must be positive")
	}
	if samplingRate <= 0 {
		panic("renderer: samplingRate must be positive")
	}
	return &Renderer{
		bufferSizePerChannel: bufferSizePerChannel,
		samplingRate:         samplingRate,
		assets:               assets,
		worldRotation:        rotator.Identity,
		fft:                  dspfft.NewManager(bufferSizePerChannel),
	}
}

// resetDsp releases the DSP objects built by initializeDsp, in preparation
// for rebuilding them against a changed audio element configuration.
func (r *Renderer) resetDsp() {
	log.Print("renderer: resetting DSP")

	r.mu.Lock()
	defer r.mu.Unlock()

	r.binauralDecoder = nil
	r.ambisonicEncoder = nil
	r.ambisonicEncoderInputBuffer = nil
	r.peakLimiter = nil
	r.ambisonicRotator = nil
	if r.ambisonicMixBed != nil {
		r.ambisonicMixBed.Clear()
	}
}

// initializeDsp (re)builds every DSP object from the current audio element
// list. Rendering of multiple differently-typed audio elements at once is
// not supported, so the Ambisonic order used throughout is the first
// element's binaural filter order.
func (r *Renderer) initializeDsp() error {
	if len(r.audioElements) == 0 {
		return fmt.Errorf("%w: no audio elements configured, can't initialize DSP", ErrPrecondition)
	}
	order := r.audioElements[0].BinauralFiltersAmbisonicOrder()
	numInputChannels := r.NumberOfInputChannels()
	if numInputChannels == 0 {
		return fmt.Errorf("%w: no input channels configured, can't initialize DSP", ErrPrecondition)
	}

	r.resetDsp()

	r.mu.Lock()
	defer r.mu.Unlock()

	numMixBedChannels := (order + 1) * (order + 1)
	r.ambisonicMixBed = audiobuffer.New(numMixBedChannels, r.bufferSizePerChannel)

	log.Printf("renderer: initializing DSP: input channels=%d order=%d mix bed channels=%d",
		numInputChannels, order, numMixBedChannels)

	indices := r.ambisonicEncoderSourceChannelIndices()
	if len(indices) > 0 {
		r.ambisonicEncoderInputBuffer = audiobuffer.New(len(indices), r.bufferSizePerChannel)
		r.ambisonicEncoder = ambisonicenc.New(len(indices), order)
		if err := r.updateAmbisonicEncoder(); err != nil {
			return err
		}
	}

	r.ambisonicRotator = rotator.New(order)

	orderStr := strconv.Itoa(order)
	hrirL, err := hrir.LoadShHrirs(r.assets, orderStr+"OA_L", r.samplingRate)
	if err != nil {
		return fmt.Errorf("renderer: loading left HRIR set: %w", err)
	}
	hrirR, err := hrir.LoadShHrirs(r.assets, orderStr+"OA_R", r.samplingRate)
	if err != nil {
		return fmt.Errorf("renderer: loading right HRIR set: %w", err)
	}
	if hrirL.NumChannels() != hrirR.NumChannels() || hrirL.NumFrames() != hrirR.NumFrames() {
		return fmt.Errorf("%w: mismatched left/right HRIR sets for order %d", ErrInvalidConfig, order)
	}

	decoder, err := binauraldecoder.New(hrirL, hrirR, r.bufferSizePerChannel, r.fft)
	if err != nil {
		return fmt.Errorf("renderer: building binaural decoder: %w", err)
	}
	r.binauralDecoder = decoder

	r.peakLimiter = limiter.New(r.samplingRate, peakLimiterReleaseMs, peakLimiterCeilingDb)

	return nil
}

// Process renders one block of input into output. input must have exactly
// NumberOfInputChannels() channels and output exactly
// NumberOfOutputChannels() channels; both must have BufferSizePerChannel()
// frames. DSP must have been initialized by a prior successful
// AddAudioElement call.
func (r *Renderer) Process(input, output *audiobuffer.Buffer) {
	if input.NumChannels() != r.NumberOfInputChannels() {
		panic(fmt.Sprintf("renderer: input has %d channels, want %d", input.NumChannels(), r.NumberOfInputChannels()))
	}
	if input.NumFrames() != r.bufferSizePerChannel {
		panic(fmt.Sprintf("renderer: input has %d frames, want %d", input.NumFrames(), r.bufferSizePerChannel))
	}
	if output.NumChannels() != NumBinauralChannels {
		panic(fmt.Sprintf("renderer: output has %d channels, want %d", output.NumChannels(), NumBinauralChannels))
	}
	if output.NumFrames() != r.bufferSizePerChannel {
		panic(fmt.Sprintf("renderer: output has %d frames, want %d", output.NumFrames(), r.bufferSizePerChannel))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	indices := r.ambisonicEncoderSourceChannelIndices()
	if len(indices) > 0 {
		for i, sourceIndex := range indices {
			r.ambisonicEncoderInputBuffer.Channel(i).CopyFrom(input.Channel(sourceIndex))
		}
		r.ambisonicEncoder.ProcessPlanarAudioData(r.ambisonicEncoderInputBuffer, r.ambisonicMixBed)
	} else {
		r.ambisonicMixBed.Clear()
	}

	for _, element := range r.audioElements {
		if IsAmbisonicsType(element.Type()) {
			for channel := 0; channel < element.NumberOfInputChannels(); channel++ {
				r.ambisonicMixBed.Channel(channel).Add(input.Channel(element.FirstChannelIndex() + channel))
			}
		}
	}

	if r.headTrackingEnabled {
		r.ambisonicRotator.Process(r.worldRotation, r.ambisonicMixBed, r.ambisonicMixBed)
	}

	r.binauralDecoder.Process(r.ambisonicMixBed, output)
	r.peakLimiter.Process(output, output)
}

// ambisonicEncoderSourceChannelIndices returns, in flat input-channel
// order, the indices of every channel belonging to a loudspeaker or object
// audio element; these are the channels that need to pass through the
// Ambisonic encoder before joining the mix bed.
func (r *Renderer) ambisonicEncoderSourceChannelIndices() []int {
	var indices []int
	for _, element := range r.audioElements {
		if IsLoudspeakerLayoutType(element.Type()) || IsObjectType(element.Type()) {
			for i := 0; i < element.NumberOfInputChannels(); i++ {
				indices = append(indices, element.FirstChannelIndex()+i)
			}
		}
	}
	return indices
}

// updateAmbisonicEncoder re-applies every loudspeaker and object channel's
// current position to the Ambisonic encoder, in the same flat order
// ambisonicEncoderSourceChannelIndices produces.
func (r *Renderer) updateAmbisonicEncoder() error {
	if r.ambisonicEncoder == nil {
		return fmt.Errorf("%w: ambisonic encoder not initialized", ErrPrecondition)
	}
	index := 0
	for _, element := range r.audioElements {
		for _, ch := range element.loudspeakerChannels {
			r.ambisonicEncoder.SetSource(index, 1.0, ch.azimuth, ch.elevation, ch.distance)
			index++
		}
		for _, ch := range element.objectChannels {
			r.ambisonicEncoder.SetSource(index, ch.gain, ch.azimuth, ch.elevation, ch.distance)
			index++
		}
	}
	return nil
}

// AddAudioElement appends a new audio element of type t and rebuilds the
// DSP chain around the updated element list. Every configured audio
// element must currently be the same type; remove the existing element
// before adding a differently typed one.
func (r *Renderer) AddAudioElement(t AudioElementType) error {
	if len(r.audioElements) > 0 && r.audioElements[len(r.audioElements)-1].Type() != t {
		return fmt.Errorf("%w: only same-typed audio elements are supported, remove the existing element first", ErrInvalidConfig)
	}

	config, err := newAudioElementConfig(t)
	if err != nil {
		return err
	}

	if len(r.audioElements) > 0 {
		last := r.audioElements[len(r.audioElements)-1]
		config.setFirstChannelIndex(last.FirstChannelIndex() + last.NumberOfInputChannels())
	}

	if r.NumberOfInputChannels()+config.NumberOfInputChannels() > MaxSupportedNumInputChannels {
		return fmt.Errorf("%w: more input channels requested than the %d supported",
			ErrExhausted, MaxSupportedNumInputChannels)
	}

	r.audioElements = append(r.audioElements, config)
	log.Printf("renderer: added audio element %s", t)

	return r.initializeDsp()
}

// RemoveLastAudioElement removes the most recently added audio element. If
// elements remain, the DSP chain is rebuilt and the Ambisonic encoder's
// remaining sources are re-applied.
func (r *Renderer) RemoveLastAudioElement() error {
	if len(r.audioElements) == 0 {
		return fmt.Errorf("%w: no audio elements to remove", ErrPrecondition)
	}

	removed := r.audioElements[len(r.audioElements)-1]
	r.audioElements = r.audioElements[:len(r.audioElements)-1]
	log.Printf("renderer: removed audio element %s", removed.Type())

	if len(r.audioElements) == 0 {
		log.Print("renderer: no audio elements left")
		return nil
	}

	if err := r.initializeDsp(); err != nil {
		return err
	}
	return r.updateAmbisonicEncoder()
}

// UpdateObjectPosition repositions every object channel of the audio
// element at audioElementIndex.
func (r *Renderer) UpdateObjectPosition(audioElementIndex int, azimuth, elevation, distance float64) error {
	if audioElementIndex < 0 || audioElementIndex >= len(r.audioElements) {
		return fmt.Errorf("%w: invalid audio element index %d", ErrInvalidConfig, audioElementIndex)
	}

	element := r.audioElements[audioElementIndex]
	if len(element.objectChannels) == 0 {
		return fmt.Errorf("%w: audio element %d has no object channels", ErrPrecondition, audioElementIndex)
	}

	for i := range element.objectChannels {
		element.objectChannels[i].azimuth = azimuth
		element.objectChannels[i].elevation = elevation
		element.objectChannels[i].distance = distance
	}

	return r.updateAmbisonicEncoder()
}

// EnableHeadTracking turns head-tracked rotation of the Ambisonic mix bed
// on or off. Re-enabling after being off resets the rotator's tracked
// orientation to the current world rotation, so Process does not slerp a
// large step across whatever orientation changed while tracking was off.
func (r *Renderer) EnableHeadTracking(enable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if enable && !r.headTrackingEnabled && r.ambisonicRotator != nil {
		r.ambisonicRotator.Reset(r.worldRotation)
	}
	r.headTrackingEnabled = enable
}

// SetHeadRotation sets the world orientation quaternion applied to the
// Ambisonic mix bed when head tracking is enabled.
func (r *Renderer) SetHeadRotation(q rotator.Quaternion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.worldRotation = q
}

// BufferSizePerChannel returns the number of frames Process expects per
// call.
func (r *Renderer) BufferSizePerChannel() int { return r.bufferSizePerChannel }

// SamplingRate returns the renderer's configured sampling rate in Hz.
func (r *Renderer) SamplingRate() int { return r.samplingRate }

// NumberOfOutputChannels returns the renderer's fixed output channel
// count, NumBinauralChannels.
func (r *Renderer) NumberOfOutputChannels() int { return NumBinauralChannels }

// NumberOfInputChannels returns the sum of every configured audio
// element's input channel count.
func (r *Renderer) NumberOfInputChannels() int {
	total := 0
	for _, e := range r.audioElements {
		total += e.NumberOfInputChannels()
	}
	return total
}

// NumberOfAudioElements returns how many audio elements are configured.
func (r *Renderer) NumberOfAudioElements() int { return len(r.audioElements) }

// AudioElementConfigLogMessage renders a table describing every configured
// audio element and its channels, for startup diagnostics.
func (r *Renderer) AudioElementConfigLogMessage() string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 1, ' ', tabwriter.Debug)
	fmt.Fprintln(w, "AE ID\tType\tBinFlt xOA\tCh ID\tCh Label\tAzimuth\tElevation\tDistance\tLFE")

	for elementIndex, element := range r.audioElements {
		for _, ch := range element.ambisonicChannels {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\tN/A\tN/A\tN/A\tN/A\n",
				elementIndex, element.Type(), element.BinauralFiltersAmbisonicOrder(),
				ch.channelIndex, ch.id)
		}
		for _, ch := range element.loudspeakerChannels {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%.2f\t%.2f\t%.2f\t%s\n",
				elementIndex, element.Type(), element.BinauralFiltersAmbisonicOrder(),
				ch.channelIndex, ch.id, ch.azimuth, ch.elevation, ch.distance, boolToYesNo(ch.isLFE))
		}
		for _, ch := range element.objectChannels {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%.2f\t%.2f\t%.2f\tN/A\n",
				elementIndex, element.Type(), element.BinauralFiltersAmbisonicOrder(),
				ch.channelIndex, ch.id, ch.azimuth, ch.elevation, ch.distance)
		}
	}

	w.Flush()
	return buf.String()
}

func boolToYesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
