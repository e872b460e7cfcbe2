package hrir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trsonic/obr/audiobuffer"
	"github.com/trsonic/obr/wavio"
)

func wavBytes(t *testing.T, numChannels, numFrames, sampleRate int) []byte {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "asset.wav")

	buf := audiobuffer.New(numChannels, numFrames)
	for c := 0; c < numChannels; c++ {
		for i := 0; i < numFrames; i++ {
			buf.Channel(c).Set(i, 0.1)
		}
	}
	require.NoError(t, wavio.WriteFile(path, buf, sampleRate))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestLoadShHrirsReturnsErrorWhenAssetMissing(t *testing.T) {
	provider := MapAssetProvider{}
	_, err := LoadShHrirs(provider, "1OA_L", 48000)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestLoadShHrirsRejectsInvalidChannelCount(t *testing.T) {
	data := wavBytes(t, 5, 32, 48000)
	provider := MapAssetProvider{"bad": data}

	_, err := LoadShHrirs(provider, "bad", 48000)
	assert.ErrorIs(t, err, ErrInvalidChannelCount)
}

func TestLoadShHrirsSkipsResamplingWhenRateAlreadyMatches(t *testing.T) {
	data := wavBytes(t, 4, 64, 48000)
	provider := MapAssetProvider{"2OA_L": data}

	got, err := LoadShHrirs(provider, "2OA_L", 48000)
	require.NoError(t, err)
	assert.Equal(t, 4, got.NumChannels())
	assert.Equal(t, 64, got.NumFrames())
	assert.InDelta(t, 0.1, float64(got.Channel(0).At(0)), 1.0/32768)
}

func TestDirAssetProviderReadsWavFileByName(t *testing.T) {
	dir := t.TempDir()
	buf := audiobuffer.New(1, 4)
	require.NoError(t, wavio.WriteFile(filepath.Join(dir, "0OA_L.wav"), buf, 48000))

	provider := DirAssetProvider(dir)
	_, ok := provider.GetFile("0OA_L")
	assert.True(t, ok)

	_, ok = provider.GetFile("missing")
	assert.False(t, ok)
}

func TestLoadShHrirsResamplesWhenRateDiffers(t *testing.T) {
	data := wavBytes(t, 1, 64, 44100)
	provider := MapAssetProvider{"0OA_L": data}

	got, err := LoadShHrirs(provider, "0OA_L", 48000)
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumChannels())
	assert.NotEqual(t, 64, got.NumFrames())
}
