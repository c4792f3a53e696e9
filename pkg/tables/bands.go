package tables

import "fmt"

// FrequencyLimits is an inclusive range in Hz
type FrequencyLimits struct {
	Min uint64
	Max uint64
}

// Contains reports whether hz lies within the limits
func (l FrequencyLimits) Contains(hz uint64) bool {
	return hz >= l.Min && hz <= l.Max
}

// String formats the limits in MHz
func (l FrequencyLimits) String() string {
	return fmt.Sprintf("%.3f-%.3f MHz", float64(l.Min)/1e6, float64(l.Max)/1e6)
}

var sideLimits = map[Side]FrequencyLimits{
	SideA: {Min: 118000000, Max: 524000000},
	SideB: {Min: 136000000, Max: 1300000000},
}

// Limits returns the VFO frequency range of a side
func Limits(s Side) FrequencyLimits {
	l, ok := sideLimits[s]
	if !ok {
		panic(fmt.Sprintf("tables: no frequency limits for %v", s))
	}
	return l
}

// Bands used to decide whether two frequencies are in the same band.
// Upper bounds are exclusive.
var Bands = []struct {
	Name string
	Min  uint64
	Max  uint64
}{
	{"118", 118000000, 136000000},
	{"144", 136000000, 200000000},
	{"220", 200000000, 300000000},
	{"440", 400000000, 524000000},
	{"1200", 800000000, 1300000000},
}

// SameBand reports whether both frequencies fall in the same band
func SameBand(f1, f2 uint64) bool {
	for _, b := range Bands {
		if f1 >= b.Min && f1 < b.Max && f2 >= b.Min && f2 < b.Max {
			return true
		}
	}
	return false
}

type repeaterSegment struct {
	min, max uint64
	shift    Shift
	offset   uint64
}

// US band plan repeater segments
var repeaterSegments = []repeaterSegment{
	{145100000, 145499900, ShiftDown, 600000},
	{146000000, 146399000, ShiftUp, 600000},
	{146600000, 146999000, ShiftDown, 600000},
	{147000000, 147399000, ShiftUp, 600000},
	{147600000, 147999000, ShiftDown, 600000},
	{442000000, 444999000, ShiftUp, 5000000},
	{447000000, 449999000, ShiftDown, 5000000},
}

// RepeaterShift returns the standard shift direction and offset for a
// frequency. Frequencies outside repeater segments are simplex.
func RepeaterShift(hz uint64) (Shift, uint64) {
	for _, seg := range repeaterSegments {
		if hz >= seg.min && hz <= seg.max {
			return seg.shift, seg.offset
		}
	}
	return ShiftSimplex, 0
}
