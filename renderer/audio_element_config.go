package renderer

import "fmt"

// AudioElementConfig describes one configured audio element: its type, its
// window of input channel indices within the renderer's flat input buffer,
// and the per-channel source descriptions the encoder needs.
type AudioElementConfig struct {
	elementType               AudioElementType
	firstChannelIndex         int
	numberOfInputChannels     int
	binauralFiltersAmbisonicOrder int

	ambisonicChannels  []ambisonicSceneInputChannel
	loudspeakerChannels []loudspeakerChannel
	objectChannels     []objectChannel
}

// newAudioElementConfig builds the configuration for an audio element of the
// given type. Loudspeaker and object elements always use the maximum
// supported Ambisonic order for their binaural filters; Ambisonics elements
// use exactly their own order (no up/downscaling of Ambisonic scenes).
func newAudioElementConfig(t AudioElementType) (*AudioElementConfig, error) {
	c := &AudioElementConfig{elementType: t}

	switch {
	case IsAmbisonicsType(t):
		order, err := AmbisonicOrder(t)
		if err != nil {
			return nil, err
		}
		if order < MinSupportedAmbisonicOrder || order > MaxSupportedAmbisonicOrder {
			return nil, fmt.Errorf("%w: Ambisonic order %d out of range [%d, %d]",
				ErrInvalidConfig, order, MinSupportedAmbisonicOrder, MaxSupportedAmbisonicOrder)
		}
		c.binauralFiltersAmbisonicOrder = order
		c.numberOfInputChannels = (order + 1) * (order + 1)
		c.ambisonicChannels = make([]ambisonicSceneInputChannel, c.numberOfInputChannels)
		for i := range c.ambisonicChannels {
			c.ambisonicChannels[i] = ambisonicSceneInputChannel{
				inputChannel: inputChannel{id: fmt.Sprintf("kACN%d", i)},
			}
		}

	case IsLoudspeakerLayoutType(t):
		layout := loudspeakerLayout(t)
		if layout == nil {
			return nil, fmt.Errorf("%w: unknown loudspeaker layout %q", ErrInvalidConfig, t)
		}
		c.binauralFiltersAmbisonicOrder = MaxSupportedAmbisonicOrder
		c.loudspeakerChannels = make([]loudspeakerChannel, len(layout))
		for i, v := range layout {
			c.loudspeakerChannels[i] = loudspeakerChannel{
				inputChannel: inputChannel{id: v.id},
				azimuth:      v.azimuth,
				elevation:    v.elevation,
				distance:     v.distance,
				isLFE:        v.isLFE,
			}
		}
		c.numberOfInputChannels = len(c.loudspeakerChannels)

	case IsObjectType(t):
		if t != TypeObjectMono {
			return nil, fmt.Errorf("%w: unsupported object type %q", ErrInvalidConfig, t)
		}
		c.binauralFiltersAmbisonicOrder = MaxSupportedAmbisonicOrder
		c.objectChannels = []objectChannel{
			{inputChannel: inputChannel{id: "kMono"}, gain: 1.0, distance: 1.0},
		}
		c.numberOfInputChannels = len(c.objectChannels)

	default:
		return nil, fmt.Errorf("%w: unknown audio element type %q", ErrInvalidConfig, t)
	}

	c.setFirstChannelIndex(0)
	return c, nil
}

// setFirstChannelIndex places this element's channels starting at
// firstChannel within the renderer's flat input channel list, updating
// every owned channel's absolute index.
func (c *AudioElementConfig) setFirstChannelIndex(firstChannel int) {
	c.firstChannelIndex = firstChannel
	for i := range c.ambisonicChannels {
		c.ambisonicChannels[i].channelIndex = firstChannel + i
	}
	for i := range c.loudspeakerChannels {
		c.loudspeakerChannels[i].channelIndex = firstChannel + i
	}
	for i := range c.objectChannels {
		c.objectChannels[i].channelIndex = firstChannel + i
	}
}

// Type returns the element's type.
func (c *AudioElementConfig) Type() AudioElementType { return c.elementType }

// FirstChannelIndex returns the index, within the renderer's flat input
// channel list, of this element's first channel.
func (c *AudioElementConfig) FirstChannelIndex() int { return c.firstChannelIndex }

// NumberOfInputChannels returns how many input channels this element owns.
func (c *AudioElementConfig) NumberOfInputChannels() int { return c.numberOfInputChannels }

// BinauralFiltersAmbisonicOrder returns the Ambisonic order whose binaural
// filter set this element's channels should be rendered through.
func (c *AudioElementConfig) BinauralFiltersAmbisonicOrder() int {
	return c.binauralFiltersAmbisonicOrder
}
