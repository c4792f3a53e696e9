package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dougsko/tm710/pkg/cat"
	"github.com/dougsko/tm710/pkg/tables"
)

// sideField reads or writes one per-side parameter. An action field has
// neither: it is a set that takes no value.
type sideField struct {
	get    func(d *Dispatcher, side tables.Side) (string, error)
	set    func(d *Dispatcher, side tables.Side, value string) (string, error)
	action func(d *Dispatcher, side tables.Side) (string, error)
}

var sideFields = map[string]sideField{
	"freq": {
		get: activeField(func(_ tables.Table, rec cat.FrequencyRecord) string { return formatFrequency(rec) }),
		set: func(d *Dispatcher, side tables.Side, value string) (string, error) {
			hz, err := cat.ParseFrequency(value)
			if err != nil {
				return "", err
			}
			rec, mode, err := d.radio.SetFrequency(side, hz)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s (%s)", formatFrequency(rec), mode), nil
		},
	},
	"mode": {
		get: func(d *Dispatcher, side tables.Side) (string, error) {
			mode, err := d.radio.GetMode(side)
			return mode.String(), err
		},
		set: func(d *Dispatcher, side tables.Side, value string) (string, error) {
			mode, err := cat.ParseMode(value)
			if err != nil {
				return "", err
			}
			mode, err = d.radio.SetMode(side, mode)
			return mode.String(), err
		},
	},
	"power": {
		get: func(d *Dispatcher, side tables.Side) (string, error) {
			power, err := d.radio.GetPower(side)
			return power.String(), err
		},
		set: func(d *Dispatcher, side tables.Side, value string) (string, error) {
			power, err := cat.ParsePower(value)
			if err != nil {
				return "", err
			}
			power, err = d.radio.SetPower(side, power)
			return power.String(), err
		},
	},
	"squelch": {
		get: func(d *Dispatcher, side tables.Side) (string, error) {
			level, err := d.radio.GetSquelch(side)
			return strconv.Itoa(level), err
		},
		set: func(d *Dispatcher, side tables.Side, value string) (string, error) {
			level, err := cat.ParseSquelch(value)
			if err != nil {
				return "", err
			}
			level, err = d.radio.SetSquelch(side, level)
			return strconv.Itoa(level), err
		},
	},
	"step": {
		get: activeField(func(_ tables.Table, rec cat.FrequencyRecord) string { return formatStep(rec) }),
		set: editField(formatStep, func(d *Dispatcher, side tables.Side, value string) (cat.FrequencyRecord, error) {
			i, err := cat.ParseStep(strings.TrimSuffix(strings.ToLower(value), "khz"))
			if err != nil {
				return cat.FrequencyRecord{}, err
			}
			return d.radio.SetStep(side, i)
		}),
	},
	"shift": {
		get: activeField(func(_ tables.Table, rec cat.FrequencyRecord) string { return formatShift(rec) }),
		set: editField(formatShift, func(d *Dispatcher, side tables.Side, value string) (cat.FrequencyRecord, error) {
			shift, err := cat.ParseShift(value)
			if err != nil {
				return cat.FrequencyRecord{}, err
			}
			return d.radio.SetShift(side, shift)
		}),
	},
	"reverse": {
		get: activeField(func(_ tables.Table, rec cat.FrequencyRecord) string { return formatOnOff(rec.Reverse) }),
		set: editField(func(rec cat.FrequencyRecord) string {
			return formatOnOff(rec.Reverse) + ", " + formatFrequency(rec)
		}, func(d *Dispatcher, side tables.Side, value string) (cat.FrequencyRecord, error) {
			on, err := cat.ParseOnOff(value)
			if err != nil {
				return cat.FrequencyRecord{}, err
			}
			return d.radio.SetReverse(side, on)
		}),
	},
	"tone": {
		get: activeField(func(_ tables.Table, rec cat.FrequencyRecord) string { return formatTone(rec) }),
		set: editField(formatTone, func(d *Dispatcher, side tables.Side, value string) (cat.FrequencyRecord, error) {
			i, err := cat.ParseTableValue(tables.ToneTypes, value)
			if err != nil {
				return cat.FrequencyRecord{}, err
			}
			return d.radio.SetToneType(side, i)
		}),
	},
	"tonefreq": {
		get: activeField(func(_ tables.Table, rec cat.FrequencyRecord) string { return formatTone(rec) }),
		set: editField(formatTone, func(d *Dispatcher, side tables.Side, value string) (cat.FrequencyRecord, error) {
			return d.radio.SetToneFrequency(side, strings.TrimSuffix(strings.ToLower(value), "hz"))
		}),
	},
	"modulation": {
		get: activeField(formatModulation),
		set: func(d *Dispatcher, side tables.Side, value string) (string, error) {
			rec, err := d.radio.SetModulation(side, value)
			if err != nil {
				return "", err
			}
			return formatModulation(d.radio.Modulation(), rec), nil
		},
	},
	"memory": {
		get: func(d *Dispatcher, side tables.Side) (string, error) {
			mode, err := d.radio.GetMode(side)
			if err != nil {
				return "", err
			}
			if mode != tables.ModeMemory {
				return "", &cat.ValidationError{Field: "memory", Value: fmt.Sprintf("side %s is in %s mode", side, mode), Valid: "read in memory mode"}
			}
			ch, err := d.radio.GetMemoryPointer(side)
			if err != nil {
				return "", err
			}
			m, err := d.radio.GetMemory(ch)
			if err != nil {
				return "", err
			}
			return formatMemory(d.radio.Modulation(), m), nil
		},
		set: func(d *Dispatcher, side tables.Side, value string) (string, error) {
			ch, err := cat.ParseChannel(value)
			if err != nil {
				return "", err
			}
			ch, err = d.radio.SelectMemory(side, ch)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Memory %d", ch), nil
		},
	},
	"up":   {action: tuneField(cat.TuneUp)},
	"down": {action: tuneField(cat.TuneDown)},
}

var fieldAliases = map[string]string{
	"f":         "freq",
	"frequency": "freq",
	"sql":       "squelch",
	"pwr":       "power",
	"rev":       "reverse",
	"mod":       "modulation",
	"tone-freq": "tonefreq",
	"mem":       "memory",
	"dw":        "down",
}

func canonicalField(token string) string {
	token = strings.ToLower(token)
	if name, ok := fieldAliases[token]; ok {
		return name
	}
	return token
}

func isSideField(field string) bool {
	_, ok := sideFields[field]
	return ok
}

func tuneField(dir cat.TuneDirection) func(*Dispatcher, tables.Side) (string, error) {
	return func(d *Dispatcher, side tables.Side) (string, error) {
		active, err := d.radio.Tune(side, dir)
		if err != nil {
			return "", err
		}
		if active.Mode == tables.ModeMemory {
			return fmt.Sprintf("MR %d, %s", active.Channel, formatFrequency(active.Record)), nil
		}
		return formatFrequency(active.Record), nil
	}
}

func activeField(format func(tables.Table, cat.FrequencyRecord) string) func(*Dispatcher, tables.Side) (string, error) {
	return func(d *Dispatcher, side tables.Side) (string, error) {
		active, err := d.radio.GetActive(side)
		if err != nil {
			return "", err
		}
		return format(d.radio.Modulation(), active.Record), nil
	}
}

func editField(format func(cat.FrequencyRecord) string,
	edit func(*Dispatcher, tables.Side, string) (cat.FrequencyRecord, error)) func(*Dispatcher, tables.Side, string) (string, error) {
	return func(d *Dispatcher, side tables.Side, value string) (string, error) {
		rec, err := edit(d, side, value)
		if err != nil {
			return "", err
		}
		return format(rec), nil
	}
}

// side handles the side-first forms: "get A", "get A freq", "set A freq 146.52"
func (d *Dispatcher) side(verb Verb, side tables.Side, args []string, emit Emitter) error {
	if len(args) == 0 {
		if verb == Set {
			return &cat.ValidationError{Field: "side " + side.String() + " setting", Value: "", Valid: "given for set"}
		}
		status, err := d.radio.Status(side)
		if err != nil {
			return err
		}
		emit(formatStatus(d.radio.Modulation(), status))
		return nil
	}
	return d.sideField(verb, side, canonicalField(args[0]), args[1:], emit)
}

// sideNounFirst handles "get mode A", "set squelch B 10" and "get mode"
// for both sides
func (d *Dispatcher) sideNounFirst(verb Verb, field string, args []string, emit Emitter) error {
	if len(args) > 0 {
		if side, ok := sideToken(args[0]); ok {
			return d.sideField(verb, side, field, args[1:], emit)
		}
	}
	if verb == Set {
		return &cat.ValidationError{Field: "side", Value: strings.Join(args, " "), Valid: "A or B"}
	}
	if err := noValue(verb, field, args); err != nil {
		return err
	}
	for _, side := range tables.Sides {
		prefix := side.String() + ": "
		if err := d.sideField(verb, side, field, nil, func(line string) { emit(prefix + line) }); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) sideField(verb Verb, side tables.Side, field string, args []string, emit Emitter) error {
	f, ok := sideFields[field]
	if !ok {
		return &cat.ValidationError{Field: "side setting", Value: field, Valid: "one of " + sideFieldList()}
	}

	if f.action != nil {
		if verb != Set {
			return &cat.ValidationError{Field: field, Value: string(verb), Valid: "used with set"}
		}
		if len(args) > 0 {
			return &cat.ValidationError{Field: field, Value: strings.Join(args, " "), Valid: "given without a value"}
		}
		value, err := f.action(d, side)
		if err != nil {
			return err
		}
		emit(value)
		return nil
	}

	var value string
	var err error
	if verb == Get {
		if err := noValue(verb, field, args); err != nil {
			return err
		}
		value, err = f.get(d, side)
	} else {
		token, verr := requireValue(verb, field, args)
		if verr != nil {
			return verr
		}
		value, err = f.set(d, side, token)
	}
	if err != nil {
		return err
	}
	emit(value)
	return nil
}

func sideFieldList() string {
	return "{freq, mode, power, squelch, step, shift, reverse, tone, tonefreq, modulation, memory, up, down}"
}
