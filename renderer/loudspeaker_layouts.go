package renderer

// virtualLoudspeaker is one of the 24 fixed virtual loudspeaker positions
// that loudspeaker layouts are assembled from.
type virtualLoudspeaker struct {
	id        string
	azimuth   float64 // degrees
	elevation float64 // degrees
	distance  float64 // metres
	isLFE     bool
}

const (
	vC = iota
	vLFE
	vL30
	vR30
	vL45
	vR45
	vL60
	vR60
	vL90
	vR90
	vL110
	vR110
	vL135
	vR135
	vTL30
	vTR30
	vTL45
	vTR45
	vTL90
	vTR90
	vTL135
	vTR135
	vTL150
	vTR150
)

var virtualLoudspeakers = map[int]virtualLoudspeaker{
	vC:     {"kC", 0, 0, 1, false},
	vLFE:   {"kLFE", 0, -30, 1, true},
	vL30:   {"kL30", 30, 0, 1, false},
	vR30:   {"kR30", -30, 0, 1, false},
	vL45:   {"kL45", 45, 0, 1, false},
	vR45:   {"kR45", -45, 0, 1, false},
	vL60:   {"kL60", 60, 0, 1, false},
	vR60:   {"kR60", -60, 0, 1, false},
	vL90:   {"kL90", 90, 0, 1, false},
	vR90:   {"kR90", -90, 0, 1, false},
	vL110:  {"kL110", 110, 0, 1, false},
	vR110:  {"kR110", -110, 0, 1, false},
	vL135:  {"kL135", 135, 0, 1, false},
	vR135:  {"kR135", -135, 0, 1, false},
	vTL30:  {"kTL30", 30, 45, 1, false},
	vTR30:  {"kTR30", -30, 45, 1, false},
	vTL45:  {"kTL45", 45, 45, 1, false},
	vTR45:  {"kTR45", -45, 45, 1, false},
	vTL90:  {"kTL90", 90, 45, 1, false},
	vTR90:  {"kTR90", -90, 45, 1, false},
	vTL135: {"kTL135", 135, 45, 1, false},
	vTR135: {"kTR135", -135, 45, 1, false},
	vTL150: {"kTL150", 150, 45, 1, false},
	vTR150: {"kTR150", -150, 45, 1, false},
}

var loudspeakerLayoutMembers = map[AudioElementType][]int{
	TypeLayoutMono:     {vC},
	TypeLayoutStereo:   {vL30, vR30},
	TypeLayout3_1_2_ch: {vL45, vR45, vC, vLFE, vTL30, vTR30},
	TypeLayout5_1_0_ch: {vL30, vR30, vC, vLFE, vL110, vR110},
	TypeLayout5_1_2_ch: {vL30, vR30, vC, vLFE, vL110, vR110, vTL90, vTR90},
	TypeLayout5_1_4_ch: {vL30, vR30, vC, vLFE, vL110, vR110, vTL45, vTR45, vTL135, vTR135},
	TypeLayout7_1_0_ch: {vL30, vR30, vC, vLFE, vL90, vR90, vL135, vR135},
	TypeLayout7_1_2_ch: {vL30, vR30, vC, vLFE, vL90, vR90, vL135, vR135, vTL90, vTR90},
	TypeLayout7_1_4_ch: {vL30, vR30, vC, vLFE, vL90, vR90, vL135, vR135, vTL45, vTR45, vTL135, vTR135},
	TypeLayout9_1_0_ch: {vL30, vR30, vC, vLFE, vL60, vR60, vL90, vR90, vL135, vR135},
	TypeLayout9_1_2_ch: {vL30, vR30, vC, vLFE, vL60, vR60, vL90, vR90, vL135, vR135, vTL90, vTR90},
	TypeLayout9_1_4_ch: {vL30, vR30, vC, vLFE, vL60, vR60, vL90, vR90, vL135, vR135, vTL45, vTR45, vTL135, vTR135},
	TypeLayout9_1_6_ch: {vL30, vR30, vC, vLFE, vL60, vR60, vL90, vR90, vL135, vR135, vTL30, vTR30, vTL90, vTR90, vTL150, vTR150},
}

// loudspeakerLayout returns the ordered list of virtual loudspeaker
// positions for a loudspeaker layout type, or nil if t is not a
// loudspeaker layout type.
func loudspeakerLayout(t AudioElementType) []virtualLoudspeaker {
	members, ok := loudspeakerLayoutMembers[t]
	if !ok {
		return nil
	}
	out := make([]virtualLoudspeaker, len(members))
	for i, m := range members {
		out[i] = virtualLoudspeakers[m]
	}
	return out
}
