package wavio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trsonic/obr/audiobuffer"
)

func TestWriteThenReadRoundTripsWithinOneLsb(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.wav")

	const sampleRate = 48000
	const numFrames = 256
	buf := audiobuffer.New(2, numFrames)
	for i := 0; i < numFrames; i++ {
		buf.Channel(0).Set(i, 0.5)
		buf.Channel(1).Set(i, -0.25)
	}

	require.NoError(t, WriteFile(path, buf, sampleRate))

	got, gotRate, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRate, gotRate)
	require.Equal(t, 2, got.NumChannels())
	require.Equal(t, numFrames, got.NumFrames())

	for i := 0; i < numFrames; i++ {
		assert.InDelta(t, 0.5, float64(got.Channel(0).At(i)), 1.0/32768)
		assert.InDelta(t, -0.25, float64(got.Channel(1).At(i)), 1.0/32768)
	}
}

func TestReadFileRejectsMissingFile(t *testing.T) {
	_, _, err := ReadFile("/nonexistent/path/does-not-exist.wav")
	assert.Error(t, err)
}

func TestDecodeBytesMatchesReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decodebytes.wav")

	buf := audiobuffer.New(1, 8)
	for i := 0; i < 8; i++ {
		buf.Channel(0).Set(i, 0.1)
	}
	require.NoError(t, WriteFile(path, buf, 44100))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	got, rate, err := DecodeBytes(data)
	require.NoError(t, err)
	assert.Equal(t, 44100, rate)
	for i := 0; i < 8; i++ {
		assert.InDelta(t, 0.1, float64(got.Channel(0).At(i)), 1.0/32768)
	}
}
