package cat

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dougsko/tm710/pkg/tables"
)

// TuneDirection is the direction of an UP/DW step
type TuneDirection int

const (
	TuneUp   TuneDirection = 1
	TuneDown TuneDirection = -1
)

func (d TuneDirection) String() string {
	if d == TuneDown {
		return "down"
	}
	return "up"
}

func (d TuneDirection) opcode() string {
	if d == TuneDown {
		return "DW"
	}
	return "UP"
}

// StepHz returns the size of a step table entry in Hz
func StepHz(stepIndex int) (uint64, error) {
	label, ok := tables.Steps.Lookup(stepIndex)
	if !ok {
		return 0, &ValidationError{Field: "step", Value: strconv.Itoa(stepIndex), Valid: "one of " + tables.Steps.String()}
	}
	khz, err := strconv.ParseFloat(label, 64)
	if err != nil {
		return 0, err
	}
	return uint64(math.Round(khz * 1000)), nil
}

// Tune moves side one step in dir.
//
// In VFO mode the frequency moves by the VFO's own step size and must stay
// inside the side's limits. Reverse is cleared and, with
// AutoRepeaterOffset, the band plan shift is applied to the new frequency.
//
// In memory mode the radio moves to the next programmed channel with UP or
// DW. Those act on the CTRL side only, so CTRL is moved to side for the
// step and put back afterwards.
func (r *Radio) Tune(side tables.Side, dir TuneDirection) (ActiveChannel, error) {
	mode, err := r.GetMode(side)
	if err != nil {
		return ActiveChannel{}, step("read mode", err)
	}

	switch mode {
	case tables.ModeVFO:
		rec, err := r.tuneVFO(side, dir)
		if err != nil {
			return ActiveChannel{}, err
		}
		return ActiveChannel{Side: side, Mode: mode, Record: rec}, nil
	case tables.ModeMemory:
		if err := r.tuneMemory(side, dir); err != nil {
			return ActiveChannel{}, err
		}
		return r.GetActive(side)
	}

	return ActiveChannel{}, &ValidationError{
		Field: "tune " + dir.String(),
		Value: fmt.Sprintf("side %s is in %s mode", side, mode),
		Valid: "made in VFO or memory mode",
	}
}

func (r *Radio) tuneVFO(side tables.Side, dir TuneDirection) (FrequencyRecord, error) {
	rec, err := r.GetVFO(side)
	if err != nil {
		return FrequencyRecord{}, step("read VFO", err)
	}
	stepSize, err := StepHz(rec.Step)
	if err != nil {
		return FrequencyRecord{}, err
	}

	next := rec.FrequencyHz + stepSize
	if dir == TuneDown {
		next = 0
		if rec.FrequencyHz > stepSize {
			next = rec.FrequencyHz - stepSize
		}
	}
	if err := ValidateFrequency(side, next); err != nil {
		return FrequencyRecord{}, err
	}

	rec.FrequencyHz = next
	rec.Reverse = false
	if r.options.AutoRepeaterOffset {
		rec.Shift, rec.OffsetHz = tables.RepeaterShift(next)
	}
	rec, err = r.writeRecord("FO", rec)
	return rec, step("write VFO", err)
}

func (r *Radio) tuneMemory(side tables.Side, dir TuneDirection) error {
	saved, err := r.GetPttCtrl()
	if err != nil {
		return step("save PTT/CTRL", err)
	}

	moved := saved.CTRL != side
	if moved {
		if _, err := r.SetPttCtrl(PttCtrl{PTT: saved.PTT, CTRL: side}); err != nil {
			return step("move CTRL", err)
		}
	}
	if _, err := r.Transact(dir.opcode(), ""); err != nil {
		return step("step memory "+dir.String(), err)
	}
	if moved {
		if _, err := r.SetPttCtrl(saved); err != nil {
			return step("restore PTT/CTRL", err)
		}
	}
	return nil
}
