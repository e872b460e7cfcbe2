package renderer

// inputChannel is the information every input channel of an audio element
// carries regardless of kind, plus its absolute index into the renderer's
// input channel list once placed by AudioElementConfig.setFirstChannelIndex.
type inputChannel struct {
	id           string
	channelIndex int
}

// ambisonicSceneInputChannel is one ACN channel of an Ambisonics element; it
// carries no position since it already describes a full sound field.
type ambisonicSceneInputChannel struct {
	inputChannel
}

// loudspeakerChannel is one loudspeaker feed of a channel-based layout
// element, fixed at the layout's nominal position.
type loudspeakerChannel struct {
	inputChannel
	azimuth, elevation, distance float64
	isLFE                        bool
}

// objectChannel is one point-source object channel; gain and position are
// mutable via UpdateObjectPosition.
type objectChannel struct {
	inputChannel
	gain, azimuth, elevation, distance float64
}
