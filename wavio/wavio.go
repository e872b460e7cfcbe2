// Package wavio reads and writes 16-bit linear PCM WAV files into and out
// of planar audiobuffer.Buffers, converting samples with sampleconv at the
// file boundary.
package wavio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/trsonic/obr/audiobuffer"
	"github.com/trsonic/obr/sampleconv"
)

// ErrNotPCM16 is returned when the source WAV is not 16-bit linear PCM.
var ErrNotPCM16 = errors.New("wavio: only 16-bit PCM WAV files are supported")

// readChunkFrames bounds how many frames are pulled from the decoder per
// PCMBuffer call while assembling the full file in memory.
const readChunkFrames = 4096

// ReadFile decodes path into a planar float32 buffer in [-1, 1] and
// returns the file's sample rate alongside it.
func ReadFile(path string) (*audiobuffer.Buffer, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: opening %s: %w", path, err)
	}
	defer f.Close()

	buf, rate, err := decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: %s: %w", path, err)
	}
	return buf, rate, nil
}

// DecodeBytes decodes an in-memory 16-bit PCM WAV file, the same way
// ReadFile decodes one from disk. Used to load WAV-format assets that
// are embedded or fetched rather than read from the filesystem.
func DecodeBytes(data []byte) (*audiobuffer.Buffer, int, error) {
	buf, rate, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: %w", err)
	}
	return buf, rate, nil
}

func decode(r io.ReadSeeker) (*audiobuffer.Buffer, int, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, 0, errors.New("not a valid WAV file")
	}
	format := decoder.Format()
	if decoder.BitDepth != 16 {
		return nil, 0, fmt.Errorf("%w: got %d-bit", ErrNotPCM16, decoder.BitDepth)
	}
	numChannels := format.NumChannels

	interleaved := make([]int, 0, readChunkFrames*numChannels)
	chunk := &goaudio.IntBuffer{
		Data:   make([]int, readChunkFrames*numChannels),
		Format: format,
	}
	for {
		n, err := decoder.PCMBuffer(chunk)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("reading samples: %w", err)
		}
		if n == 0 {
			break
		}
		interleaved = append(interleaved, chunk.Data[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
	}

	numFrames := len(interleaved) / numChannels
	buf := audiobuffer.New(numChannels, numFrames)
	for c := 0; c < numChannels; c++ {
		dst := buf.Channel(c)
		for frame := 0; frame < numFrames; frame++ {
			dst.Set(frame, sampleconv.Int16ToFloat32(int16(interleaved[frame*numChannels+c])))
		}
	}
	return buf, format.SampleRate, nil
}

// WriteFile encodes buf as a 16-bit PCM WAV file at path, sampled at
// sampleRate.
func WriteFile(path string, buf *audiobuffer.Buffer, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: creating %s: %w", path, err)
	}
	defer f.Close()

	numChannels := buf.NumChannels()
	numFrames := buf.NumFrames()
	encoder := wav.NewEncoder(f, sampleRate, 16, numChannels, 1)

	interleaved := make([]int, numFrames*numChannels)
	for c := 0; c < numChannels; c++ {
		src := buf.Channel(c)
		for frame := 0; frame < numFrames; frame++ {
			interleaved[frame*numChannels+c] = int(sampleconv.Float32ToInt16(src.At(frame)))
		}
	}

	intBuffer := &goaudio.IntBuffer{
		Data: interleaved,
		Format: &goaudio.Format{
			NumChannels: numChannels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: 16,
	}
	if err := encoder.Write(intBuffer); err != nil {
		return fmt.Errorf("wavio: writing %s: %w", path, err)
	}
	return encoder.Close()
}
