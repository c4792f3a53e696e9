package tables

import (
	"fmt"
	"strings"
)

// Side identifies one of the radio's two receive/transmit chains
type Side int

const (
	SideA Side = iota
	SideB
)

// Sides lists both sides in protocol order
var Sides = []Side{SideA, SideB}

// String returns "A" or "B"
func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Code returns the protocol index as sent on the wire
func (s Side) Code() string {
	return fmt.Sprintf("%d", int(s))
}

// Other returns the opposite side
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// ParseSide accepts "A", "B", "0" or "1" (case-insensitive)
func ParseSide(token string) (Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "A", "0":
		return SideA, true
	case "B", "1":
		return SideB, true
	}
	return 0, false
}

// SideFromCode decodes the wire side index
func SideFromCode(code string) (Side, bool) {
	switch code {
	case "0":
		return SideA, true
	case "1":
		return SideB, true
	}
	return 0, false
}

// Mode is the per-side operating mode
type Mode int

const (
	ModeVFO Mode = iota
	ModeMemory
	ModeCall
	ModeWX
)

// String returns the label shown on the radio display
func (m Mode) String() string {
	if label, ok := Modes.Lookup(int(m)); ok {
		return label
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the display labels plus a few spelled-out aliases
func ParseMode(token string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "vfo", "0":
		return ModeVFO, true
	case "mr", "mem", "memory", "1":
		return ModeMemory, true
	case "call", "2":
		return ModeCall, true
	case "wx", "weather", "3":
		return ModeWX, true
	}
	return 0, false
}

// Power is the transmit power level
type Power int

const (
	PowerHigh Power = iota
	PowerMedium
	PowerLow
)

func (p Power) String() string {
	if label, ok := PowerLevels.Lookup(int(p)); ok {
		return label
	}
	return fmt.Sprintf("Power(%d)", int(p))
}

// ParsePower accepts high/medium/low or h/m/l
func ParsePower(token string) (Power, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "high", "h", "hi":
		return PowerHigh, true
	case "medium", "m", "mid", "med":
		return PowerMedium, true
	case "low", "l", "lo":
		return PowerLow, true
	}
	return 0, false
}

// Shift is the repeater shift direction
type Shift int

const (
	ShiftSimplex Shift = iota
	ShiftUp
	ShiftDown
	ShiftSplit
)

func (s Shift) String() string {
	if label, ok := Shifts.Lookup(int(s)); ok {
		return label
	}
	return fmt.Sprintf("Shift(%d)", int(s))
}

// ParseShift accepts the table labels and the radio's display symbols
func ParseShift(token string) (Shift, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "simplex", "s", "0":
		return ShiftSimplex, true
	case "up", "+", "plus":
		return ShiftUp, true
	case "down", "-", "minus":
		return ShiftDown, true
	case "split":
		return ShiftSplit, true
	}
	return 0, false
}

// ModulationOrder selects how the radio's modulation index is interpreted.
// Firmware revisions disagree on whether index 1 is NFM or AM.
type ModulationOrder string

const (
	ModulationFMNFMAM ModulationOrder = "fm-nfm-am"
	ModulationFMAMNFM ModulationOrder = "fm-am-nfm"
)

// ModulationTable returns the modulation table for the given ordering.
// An empty ordering selects fm-nfm-am.
func ModulationTable(order ModulationOrder) (Table, error) {
	switch ModulationOrder(strings.ToLower(string(order))) {
	case ModulationFMNFMAM, "":
		return NewTable("modulation", "FM", "NFM", "AM"), nil
	case ModulationFMAMNFM:
		return NewTable("modulation", "FM", "AM", "NFM"), nil
	}
	return Table{}, fmt.Errorf("unknown modulation order %q (valid: %s, %s)",
		order, ModulationFMNFMAM, ModulationFMAMNFM)
}

// MemoryEditPolicy decides what a channel edit does while a side is in
// memory mode
type MemoryEditPolicy string

const (
	MemoryEditRefuse    MemoryEditPolicy = "refuse"
	MemoryEditWrite     MemoryEditPolicy = "write"
	MemoryEditCopyToVFO MemoryEditPolicy = "copy-to-vfo"
)

// ParseMemoryEditPolicy accepts refuse, write or copy-to-vfo. An empty
// policy is refuse.
func ParseMemoryEditPolicy(s string) (MemoryEditPolicy, error) {
	switch p := MemoryEditPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return MemoryEditRefuse, nil
	case MemoryEditRefuse, MemoryEditWrite, MemoryEditCopyToVFO:
		return p, nil
	}
	return "", fmt.Errorf("unknown memory edit policy %q (valid: %s, %s, %s)",
		s, MemoryEditRefuse, MemoryEditWrite, MemoryEditCopyToVFO)
}
