// Command obr renders a WAV file of Ambisonic, loudspeaker-layout, or
// object-based audio to two-channel binaural audio.
//
// Usage:
//
//	obr -input_type k3OA -input_file scene.wav -output_file binaural.wav
//	obr -input_type kObjectMono -oba_metadata_file scene.textproto \
//	    -input_file objects.wav -output_file binaural.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/trsonic/obr/audiobuffer"
	"github.com/trsonic/obr/hrir"
	"github.com/trsonic/obr/obametadata"
	"github.com/trsonic/obr/renderer"
	"github.com/trsonic/obr/wavio"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	inputType := flag.String("input_type", "", fmt.Sprintf(
		"Type of input audio element. One of: %s.", availableTypesUsage()))
	obaMetadataFile := flag.String("oba_metadata_file", "",
		"Full path to the textproto file containing object metadata, required if -input_type is kObjectMono.")
	inputFile := flag.String("input_file", "", "Full path to the input WAV file.")
	outputFile := flag.String("output_file", "/tmp/output.wav", "Full path to the output WAV file.")
	assetsDir := flag.String("assets_dir", "assets", "Directory containing the <order>OA_L.wav/<order>OA_R.wav spherical-harmonic HRIR sets.")
	bufferSize := flag.Int("buffer_size", 256, "Processing buffer size, in samples per channel per frame.")
	flag.Parse()

	if *inputFile == "" {
		return fmt.Errorf("obr: -input_file is required")
	}
	if *bufferSize <= 0 {
		return fmt.Errorf("obr: -buffer_size must be positive")
	}

	elementType, err := renderer.ParseAudioElementType(*inputType)
	if err != nil {
		return fmt.Errorf("obr: %w", err)
	}

	var sources []obametadata.Source
	if renderer.IsObjectType(elementType) {
		if *obaMetadataFile == "" {
			return fmt.Errorf("obr: -oba_metadata_file is required for input type %s", elementType)
		}
		f, err := os.Open(*obaMetadataFile)
		if err != nil {
			return fmt.Errorf("obr: opening OBA metadata file: %w", err)
		}
		defer f.Close()

		list, err := obametadata.Parse(f)
		if err != nil {
			return fmt.Errorf("obr: parsing OBA metadata file: %w", err)
		}
		sources = list.Sources
		log.Printf("obr: read %d object sources from %s", len(sources), *obaMetadataFile)
	}

	input, sampleRate, err := wavio.ReadFile(*inputFile)
	if err != nil {
		return fmt.Errorf("obr: reading input file: %w", err)
	}
	log.Printf("obr: input WAV: %d channels, %d Hz, %d frames", input.NumChannels(), sampleRate, input.NumFrames())

	r := renderer.New(*bufferSize, sampleRate, hrir.DirAssetProvider(*assetsDir))

	if renderer.IsObjectType(elementType) {
		for _, source := range sources {
			log.Printf("obr: object source ch=%d azimuth=%.2f elevation=%.2f distance=%.2f gain=%.2f",
				source.InputChannel, source.Azimuth, source.Elevation, source.Distance, source.Gain)
			if err := r.AddAudioElement(elementType); err != nil {
				return fmt.Errorf("obr: adding audio element: %w", err)
			}
			elementIndex := r.NumberOfAudioElements() - 1
			if err := r.UpdateObjectPosition(elementIndex, source.Azimuth, source.Elevation, source.Distance); err != nil {
				return fmt.Errorf("obr: updating object position: %w", err)
			}
		}
	} else {
		if err := r.AddAudioElement(elementType); err != nil {
			return fmt.Errorf("obr: adding audio element: %w", err)
		}
	}

	if input.NumChannels() != r.NumberOfInputChannels() {
		return fmt.Errorf("obr: input WAV has %d channels, audio element configuration expects %d",
			input.NumChannels(), r.NumberOfInputChannels())
	}

	log.Print("obr: audio element configuration:\n" + r.AudioElementConfigLogMessage())

	output := render(r, input, *bufferSize)

	if err := wavio.WriteFile(*outputFile, output, sampleRate); err != nil {
		return fmt.Errorf("obr: writing output file: %w", err)
	}
	log.Printf("obr: wrote %s", *outputFile)

	return nil
}

// render feeds input through r one bufferSize-frame block at a time,
// zero-padding the final partial block, and returns the full rendered
// output trimmed back to input's frame count.
func render(r *renderer.Renderer, input *audiobuffer.Buffer, bufferSize int) *audiobuffer.Buffer {
	numFrames := input.NumFrames()
	numInputChannels := input.NumChannels()
	output := audiobuffer.New(renderer.NumBinauralChannels, numFrames)

	inChunk := audiobuffer.New(numInputChannels, bufferSize)
	outChunk := audiobuffer.New(renderer.NumBinauralChannels, bufferSize)

	for start := 0; start < numFrames; start += bufferSize {
		end := start + bufferSize
		if end > numFrames {
			end = numFrames
		}
		chunkLen := end - start

		inChunk.Clear()
		for c := 0; c < numInputChannels; c++ {
			src := input.Channel(c)
			dst := inChunk.Channel(c)
			for f := 0; f < chunkLen; f++ {
				dst.Set(f, src.At(start+f))
			}
		}

		r.Process(inChunk, outChunk)

		for c := 0; c < renderer.NumBinauralChannels; c++ {
			src := outChunk.Channel(c)
			dst := output.Channel(c)
			for f := 0; f < chunkLen; f++ {
				dst.Set(start+f, src.At(f))
			}
		}
	}

	return output
}

func availableTypesUsage() string {
	types := renderer.AvailableAudioElementTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
