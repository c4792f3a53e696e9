package cat

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dougsko/tm710/pkg/tables"
)

// Ranges of user-supplied numeric values
const (
	MinChannel = 0
	MaxChannel = 999
	MinSquelch = 0
	MaxSquelch = 31
)

// ParseFrequency accepts MHz ("146.520", "446") or Hz ("146520000") and
// returns Hz. Values below 10000 are taken as MHz.
func ParseFrequency(token string) (uint64, error) {
	token = strings.TrimSpace(token)
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, &ValidationError{Field: "frequency", Value: token, Valid: "a frequency in MHz, e.g. 146.520"}
	}
	if strings.Contains(token, ".") || v < 10000 {
		v *= 1e6
	}
	return uint64(math.Round(v)), nil
}

// ValidateFrequency rejects hz outside the VFO range of side
func ValidateFrequency(side tables.Side, hz uint64) error {
	limits := tables.Limits(side)
	if !limits.Contains(hz) {
		return &ValidationError{
			Field: fmt.Sprintf("frequency for side %s", side),
			Value: FormatMHz(hz),
			Valid: "between " + strings.Replace(limits.String(), "-", " and ", 1),
		}
	}
	return nil
}

// ParseSide accepts A or B
func ParseSide(token string) (tables.Side, error) {
	side, ok := tables.ParseSide(token)
	if !ok {
		return 0, &ValidationError{Field: "side", Value: token, Valid: "A or B"}
	}
	return side, nil
}

// ParseSquelch accepts a decimal squelch level 0-31
func ParseSquelch(token string) (int, error) {
	return parseRange("squelch", token, MinSquelch, MaxSquelch)
}

// ParseChannel accepts a memory channel number 0-999
func ParseChannel(token string) (int, error) {
	return parseRange("memory channel", token, MinChannel, MaxChannel)
}

// ParseChannelRange accepts "C1-C2" with C1 < C2, both valid channels.
// A single channel yields first == last.
func ParseChannelRange(token string) (int, int, error) {
	token = strings.TrimSpace(token)
	parts := strings.SplitN(token, "-", 2)
	if len(parts) == 1 {
		ch, err := ParseChannel(token)
		return ch, ch, err
	}

	first, err := ParseChannel(parts[0])
	if err != nil {
		return 0, 0, err
	}
	last, err := ParseChannel(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if first >= last {
		return 0, 0, &ValidationError{Field: "memory range", Value: token, Valid: "C1-C2 with C1 < C2"}
	}
	return first, last, nil
}

func parseRange(field, token string, min, max int) (int, error) {
	token = strings.TrimSpace(token)
	v, err := strconv.Atoi(token)
	if err != nil || v < min || v > max {
		return 0, &ValidationError{Field: field, Value: token, Valid: fmt.Sprintf("%d-%d", min, max)}
	}
	return v, nil
}

// ParseTableValue returns the protocol index of token in table
func ParseTableValue(table tables.Table, token string) (int, error) {
	i, ok := table.Index(token)
	if !ok {
		return 0, &ValidationError{Field: table.Name(), Value: token, Valid: "one of " + table.String()}
	}
	return i, nil
}

// ParseToneValue matches a tone frequency ("67", "67.0") or a DCS code
// ("23", "023") numerically against table labels.
func ParseToneValue(table tables.Table, token string) (int, error) {
	want, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err == nil {
		for i, label := range table.Labels() {
			if have, err := strconv.ParseFloat(label, 64); err == nil && have == want {
				return i, nil
			}
		}
	}
	return 0, &ValidationError{Field: table.Name(), Value: token, Valid: "one of " + table.String()}
}

// ParseStep accepts a step size in kHz
func ParseStep(token string) (int, error) {
	return ParseToneValue(tables.Steps, token)
}

// ParseMode accepts vfo, mr, call or wx
func ParseMode(token string) (tables.Mode, error) {
	m, ok := tables.ParseMode(token)
	if !ok {
		return 0, &ValidationError{Field: "mode", Value: token, Valid: "one of " + tables.Modes.String()}
	}
	return m, nil
}

// ParsePower accepts high, medium or low
func ParsePower(token string) (tables.Power, error) {
	p, ok := tables.ParsePower(token)
	if !ok {
		return 0, &ValidationError{Field: "power", Value: token, Valid: "one of " + tables.PowerLevels.String()}
	}
	return p, nil
}

// ParseShift accepts simplex, up, down, split or the display symbols
func ParseShift(token string) (tables.Shift, error) {
	s, ok := tables.ParseShift(token)
	if !ok {
		return 0, &ValidationError{Field: "shift", Value: token, Valid: "one of " + tables.Shifts.String()}
	}
	return s, nil
}

// ParseOnOff accepts on or off
func ParseOnOff(token string) (bool, error) {
	i, err := ParseTableValue(tables.OnOff, token)
	return i == 1, err
}
