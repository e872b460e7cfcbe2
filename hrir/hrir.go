// Package hrir loads spherical-harmonic-encoded Head Related Impulse
// Response sets from WAV-format assets and resamples them to the
// engine's operating sample rate if needed.
package hrir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trsonic/obr/audiobuffer"
	"github.com/trsonic/obr/resample"
	"github.com/trsonic/obr/sphericalharmonics"
	"github.com/trsonic/obr/wavio"
)

// ErrAssetNotFound is returned by LoadShHrirs when the asset provider has
// no file registered under the requested name.
var ErrAssetNotFound = errors.New("hrir: asset not found")

// ErrInvalidChannelCount is returned by LoadShHrirs when the decoded WAV's
// channel count is not a valid Ambisonic channel count, (order+1)^2.
var ErrInvalidChannelCount = errors.New("hrir: invalid spherical harmonic HRIR channel count")

// AssetProvider resolves a named HRIR asset to its raw WAV file bytes.
type AssetProvider interface {
	GetFile(name string) ([]byte, bool)
}

// MapAssetProvider is an AssetProvider backed by an in-memory map, used to
// serve embedded binaural filter sets the way the original's generated
// per-order C++ byte arrays do.
type MapAssetProvider map[string][]byte

// GetFile implements AssetProvider.
func (m MapAssetProvider) GetFile(name string) ([]byte, bool) {
	data, ok := m[name]
	return data, ok
}

// DirAssetProvider is an AssetProvider backed by a directory on disk,
// reading "<name>.wav" on every GetFile call rather than holding the
// whole binaural filter set in memory up front.
type DirAssetProvider string

// GetFile implements AssetProvider by reading <dir>/<name>.wav.
func (dir DirAssetProvider) GetFile(name string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(string(dir), name+".wav"))
	if err != nil {
		return nil, false
	}
	return data, true
}

// LoadShHrirs decodes the named WAV asset into a planar spherical
// harmonic HRIR buffer and resamples it to targetSampleRateHz if its
// native rate differs. Each channel of the returned buffer is one ACN
// channel's impulse response.
func LoadShHrirs(provider AssetProvider, name string, targetSampleRateHz int) (*audiobuffer.Buffer, error) {
	data, ok := provider.GetFile(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}

	buf, sourceRateHz, err := wavio.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("hrir: decoding asset %q: %w", name, err)
	}

	if !sphericalharmonics.IsValidAmbisonicOrder(buf.NumChannels()) {
		return nil, fmt.Errorf("%w: asset %q has %d channels", ErrInvalidChannelCount, name, buf.NumChannels())
	}

	if sourceRateHz == targetSampleRateHz {
		return buf, nil
	}

	if !resample.AreRatesSupported(sourceRateHz, targetSampleRateHz) {
		return nil, fmt.Errorf("hrir: unsupported rate conversion for asset %q: %d -> %d",
			name, sourceRateHz, targetSampleRateHz)
	}

	r := resample.New()
	if err := r.SetRateAndChannels(sourceRateHz, targetSampleRateHz, buf.NumChannels()); err != nil {
		return nil, fmt.Errorf("hrir: configuring resampler for asset %q: %w", name, err)
	}

	outFrames := r.NextOutputLength(buf.NumFrames())
	resampled := audiobuffer.New(buf.NumChannels(), outFrames)
	r.Process(buf, resampled)
	return resampled, nil
}
