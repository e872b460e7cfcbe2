package renderer

import "fmt"

// AudioElementType identifies the kind and, for Ambisonics and loudspeaker
// layouts, the specific variant of an audio element that can be added to a
// Renderer. The string values match the element's configuration name, used
// both for the Go API and for parsing the CLI's -input_type flag.
type AudioElementType string

const (
	Type1OA AudioElementType = "k1OA"
	Type2OA AudioElementType = "k2OA"
	Type3OA AudioElementType = "k3OA"
	Type4OA AudioElementType = "k4OA"
	Type5OA AudioElementType = "k5OA"
	Type6OA AudioElementType = "k6OA"
	Type7OA AudioElementType = "k7OA"

	TypeLayoutMono     AudioElementType = "kLayoutMono"
	TypeLayoutStereo   AudioElementType = "kLayoutStereo"
	TypeLayout3_1_2_ch AudioElementType = "kLayout3_1_2_ch"
	TypeLayout5_1_0_ch AudioElementType = "kLayout5_1_0_ch"
	TypeLayout5_1_2_ch AudioElementType = "kLayout5_1_2_ch"
	TypeLayout5_1_4_ch AudioElementType = "kLayout5_1_4_ch"
	TypeLayout7_1_0_ch AudioElementType = "kLayout7_1_0_ch"
	TypeLayout7_1_2_ch AudioElementType = "kLayout7_1_2_ch"
	TypeLayout7_1_4_ch AudioElementType = "kLayout7_1_4_ch"
	TypeLayout9_1_0_ch AudioElementType = "kLayout9_1_0_ch"
	TypeLayout9_1_2_ch AudioElementType = "kLayout9_1_2_ch"
	TypeLayout9_1_4_ch AudioElementType = "kLayout9_1_4_ch"
	TypeLayout9_1_6_ch AudioElementType = "kLayout9_1_6_ch"

	TypeObjectMono AudioElementType = "kObjectMono"
)

// availableAudioElementTypes lists every supported type in declaration
// order, used both to validate a parsed type string and to render the CLI's
// usage text.
var availableAudioElementTypes = []AudioElementType{
	Type1OA, Type2OA, Type3OA, Type4OA, Type5OA, Type6OA, Type7OA,
	TypeLayoutMono, TypeLayoutStereo,
	TypeLayout3_1_2_ch,
	TypeLayout5_1_0_ch, TypeLayout5_1_2_ch, TypeLayout5_1_4_ch,
	TypeLayout7_1_0_ch, TypeLayout7_1_2_ch, TypeLayout7_1_4_ch,
	TypeLayout9_1_0_ch, TypeLayout9_1_2_ch, TypeLayout9_1_4_ch, TypeLayout9_1_6_ch,
	TypeObjectMono,
}

// AvailableAudioElementTypes returns every supported audio element type.
func AvailableAudioElementTypes() []AudioElementType {
	out := make([]AudioElementType, len(availableAudioElementTypes))
	copy(out, availableAudioElementTypes)
	return out
}

var ambisonicOrderByType = map[AudioElementType]int{
	Type1OA: 1, Type2OA: 2, Type3OA: 3, Type4OA: 4, Type5OA: 5, Type6OA: 6, Type7OA: 7,
}

var loudspeakerLayoutTypes = map[AudioElementType]bool{
	TypeLayoutMono: true, TypeLayoutStereo: true,
	TypeLayout3_1_2_ch: true,
	TypeLayout5_1_0_ch: true, TypeLayout5_1_2_ch: true, TypeLayout5_1_4_ch: true,
	TypeLayout7_1_0_ch: true, TypeLayout7_1_2_ch: true, TypeLayout7_1_4_ch: true,
	TypeLayout9_1_0_ch: true, TypeLayout9_1_2_ch: true, TypeLayout9_1_4_ch: true,
	TypeLayout9_1_6_ch: true,
}

// IsAmbisonicsType reports whether t is one of the Ambisonic order types.
func IsAmbisonicsType(t AudioElementType) bool {
	_, ok := ambisonicOrderByType[t]
	return ok
}

// IsLoudspeakerLayoutType reports whether t is one of the channel-based
// loudspeaker layout types.
func IsLoudspeakerLayoutType(t AudioElementType) bool {
	return loudspeakerLayoutTypes[t]
}

// IsObjectType reports whether t is a point-source object type.
func IsObjectType(t AudioElementType) bool {
	return t == TypeObjectMono
}

// AmbisonicOrder returns the Ambisonic order encoded by an Ambisonics type.
// It returns ErrInvalidConfig if t is not an Ambisonics type.
func AmbisonicOrder(t AudioElementType) (int, error) {
	order, ok := ambisonicOrderByType[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an Ambisonics type", ErrInvalidConfig, t)
	}
	return order, nil
}

// ParseAudioElementType looks up the AudioElementType named by s. It returns
// ErrInvalidConfig if s does not name a supported type.
func ParseAudioElementType(s string) (AudioElementType, error) {
	for _, t := range availableAudioElementTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown audio element type %q", ErrInvalidConfig, s)
}
