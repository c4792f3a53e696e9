// Package command turns "get|set <target> [sub] [value]" command lines into
// radio operations and formats the results as text lines.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dougsko/tm710/pkg/cat"
	"github.com/dougsko/tm710/pkg/logging"
	"github.com/dougsko/tm710/pkg/tables"
)

// Verb is GET or SET
type Verb string

const (
	Get Verb = "get"
	Set Verb = "set"
)

// Emitter receives output lines as soon as they are known
type Emitter func(line string)

// Dispatcher executes commands against one radio. Like the Radio it wraps,
// it is not safe for concurrent use.
type Dispatcher struct {
	radio *cat.Radio
}

// New creates a Dispatcher for radio
func New(radio *cat.Radio) *Dispatcher {
	return &Dispatcher{radio: radio}
}

// Split tokenizes a command line on whitespace
func Split(line string) []string {
	return strings.Fields(line)
}

type targetFunc func(d *Dispatcher, verb Verb, args []string, emit Emitter) error

var targets map[string]targetFunc

func init() {
	targets = map[string]targetFunc{
		"aip":       (*Dispatcher).aip,
		"data":      menuTarget(tables.SettingDataSide),
		"speed":     menuTarget(tables.SettingDataSpeed),
		"sqc":       menuTarget(tables.SettingSQC),
		"timeout":   menuTarget(tables.SettingTimeout),
		"apo":       menuTarget(tables.SettingAPO),
		"beep":      menuTarget(tables.SettingBeep),
		"backlight": menuTarget(tables.SettingBacklight),
		"lock":      (*Dispatcher).lock,
		"firmware":  (*Dispatcher).firmware,
		"info":      (*Dispatcher).info,
		"menu":      (*Dispatcher).menu,
		"pttctrl":   (*Dispatcher).pttCtrl,
		"ptt":       (*Dispatcher).ptt,
		"ctrl":      (*Dispatcher).ctrl,
		"command":   (*Dispatcher).command,
	}
}

// Run executes args and collects the output lines
func (d *Dispatcher) Run(args []string) ([]string, error) {
	var lines []string
	err := d.Execute(args, func(line string) {
		lines = append(lines, line)
	})
	return lines, err
}

// Execute runs one command, passing each output line to emit. Lines
// emitted before a failure stay emitted.
func (d *Dispatcher) Execute(args []string, emit Emitter) error {
	if len(args) < 2 {
		return usageError(strings.Join(args, " "))
	}

	verb := Verb(strings.ToLower(args[0]))
	if verb != Get && verb != Set {
		return &cat.ValidationError{Field: "command", Value: args[0], Valid: "get or set"}
	}

	target := strings.ToLower(args[1])
	rest := args[2:]
	logging.Debug("command", "dispatch", map[string]interface{}{"verb": string(verb), "target": target, "args": strings.Join(rest, " ")})

	if side, ok := sideToken(target); ok {
		return d.side(verb, side, rest, emit)
	}
	if field := canonicalField(target); isSideField(field) {
		if field == "memory" && !(len(rest) > 0 && isSideToken(rest[0])) {
			return d.memory(verb, rest, emit)
		}
		return d.sideNounFirst(verb, field, rest, emit)
	}
	if fn, ok := targets[target]; ok {
		return fn(d, verb, rest, emit)
	}
	return &cat.ValidationError{Field: "target", Value: args[1], Valid: "one of " + targetList()}
}

func usageError(line string) error {
	return &cat.ValidationError{Field: "command", Value: line, Valid: "get|set <target> [sub] [value]"}
}

func targetList() string {
	return "{A, B, aip, apo, backlight, beep, command, ctrl, data, firmware, info, lock, memory, menu, mode, power, ptt, pttctrl, speed, sqc, squelch, timeout}"
}

// sideToken accepts only the letters A and B so channel numbers 0 and 1
// are never taken for sides
func sideToken(token string) (tables.Side, bool) {
	switch strings.ToUpper(token) {
	case "A":
		return tables.SideA, true
	case "B":
		return tables.SideB, true
	}
	return 0, false
}

func isSideToken(token string) bool {
	_, ok := sideToken(token)
	return ok
}

func requireValue(verb Verb, field string, args []string) (string, error) {
	if len(args) == 0 {
		return "", &cat.ValidationError{Field: field, Value: "", Valid: "given for " + string(verb)}
	}
	return strings.Join(args, " "), nil
}

func noValue(verb Verb, field string, args []string) error {
	if verb == Get && len(args) > 0 {
		return &cat.ValidationError{Field: field, Value: strings.Join(args, " "), Valid: "omitted for get"}
	}
	return nil
}

func menuTarget(setting tables.MenuSetting) targetFunc {
	return func(d *Dispatcher, verb Verb, args []string, emit Emitter) error {
		if verb == Get {
			if err := noValue(verb, setting.Name, args); err != nil {
				return err
			}
			value, err := d.radio.GetMenuSetting(setting)
			if err != nil {
				return err
			}
			emit(setting.Label(value))
			return nil
		}

		token, err := requireValue(verb, setting.Name, args)
		if err != nil {
			return err
		}
		value, err := d.radio.SetMenuSetting(setting, token)
		if err != nil {
			return err
		}
		emit(setting.Label(value))
		return nil
	}
}

func (d *Dispatcher) aip(verb Verb, args []string, emit Emitter) error {
	settings := []tables.MenuSetting{tables.SettingVHFAIP, tables.SettingUHFAIP}
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "vhf":
			settings = settings[:1]
		case "uhf":
			settings = settings[1:]
		default:
			if verb == Get {
				return &cat.ValidationError{Field: "AIP band", Value: args[0], Valid: "one of {vhf, uhf}"}
			}
		}
		if len(settings) == 1 {
			args = args[1:]
		}
	}

	for _, setting := range settings {
		var value string
		var err error
		if verb == Get {
			value, err = d.radio.GetMenuSetting(setting)
		} else {
			token, verr := requireValue(verb, setting.Name, args)
			if verr != nil {
				return verr
			}
			value, err = d.radio.SetMenuSetting(setting, token)
		}
		if err != nil {
			return err
		}
		emit(setting.Name + " " + value)
	}
	return nil
}

func (d *Dispatcher) firmware(verb Verb, args []string, emit Emitter) error {
	if verb == Set {
		return &cat.ValidationError{Field: "firmware", Value: "set", Valid: "read only"}
	}
	fw, err := d.radio.Firmware()
	if err != nil {
		return err
	}
	emit("Main firmware " + fw.Main)
	emit("Panel firmware " + fw.Panel)
	return nil
}

func (d *Dispatcher) menu(verb Verb, args []string, emit Emitter) error {
	if verb == Get {
		reg, err := d.radio.ReadMenu()
		if err != nil {
			return err
		}
		emit(reg.String())
		return nil
	}

	if len(args) != 2 {
		return &cat.ValidationError{Field: "menu", Value: strings.Join(args, " "), Valid: "<index> <value>"}
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return &cat.ValidationError{Field: "menu index", Value: args[0], Valid: "a number"}
	}
	reg, err := d.radio.ReadMenu()
	if err != nil {
		return err
	}
	echoed, err := d.radio.WriteMenuField(reg, index, args[1])
	if err != nil {
		return err
	}
	emit(echoed.String())
	return nil
}

func (d *Dispatcher) pttCtrl(verb Verb, args []string, emit Emitter) error {
	if verb == Get {
		if err := noValue(verb, "PTT/CTRL", args); err != nil {
			return err
		}
		state, err := d.radio.GetPttCtrl()
		if err != nil {
			return err
		}
		emit(formatPttCtrl(state))
		return nil
	}

	if len(args) != 2 {
		return &cat.ValidationError{Field: "PTT/CTRL", Value: strings.Join(args, " "), Valid: "<ptt side> <ctrl side>"}
	}
	ptt, err := cat.ParseSide(args[0])
	if err != nil {
		return err
	}
	ctrl, err := cat.ParseSide(args[1])
	if err != nil {
		return err
	}
	state, err := d.radio.SetPttCtrl(cat.PttCtrl{PTT: ptt, CTRL: ctrl})
	if err != nil {
		return err
	}
	emit(formatPttCtrl(state))
	return nil
}

func (d *Dispatcher) ptt(verb Verb, args []string, emit Emitter) error {
	return d.pttOrCtrl(verb, "PTT", args, emit, d.radio.SetPTT, func(p cat.PttCtrl) tables.Side { return p.PTT })
}

func (d *Dispatcher) ctrl(verb Verb, args []string, emit Emitter) error {
	return d.pttOrCtrl(verb, "CTRL", args, emit, d.radio.SetCTRL, func(p cat.PttCtrl) tables.Side { return p.CTRL })
}

func (d *Dispatcher) pttOrCtrl(verb Verb, name string, args []string, emit Emitter,
	set func(tables.Side) (cat.PttCtrl, error), pick func(cat.PttCtrl) tables.Side) error {
	var state cat.PttCtrl
	var err error
	if verb == Get {
		if err := noValue(verb, name, args); err != nil {
			return err
		}
		state, err = d.radio.GetPttCtrl()
	} else {
		token, verr := requireValue(verb, name, args)
		if verr != nil {
			return verr
		}
		side, perr := cat.ParseSide(token)
		if perr != nil {
			return perr
		}
		state, err = set(side)
	}
	if err != nil {
		return err
	}
	emit(name + " " + pick(state).String())
	return nil
}

func (d *Dispatcher) command(verb Verb, args []string, emit Emitter) error {
	line, err := requireValue(verb, "raw command", args)
	if err != nil {
		return err
	}
	reply, err := d.radio.Raw(line)
	if err != nil {
		return err
	}
	emit(reply)
	return nil
}

func (d *Dispatcher) memory(verb Verb, args []string, emit Emitter) error {
	if verb == Set {
		return &cat.ValidationError{Field: "memory", Value: strings.Join(args, " "), Valid: "<A|B> <channel>"}
	}
	if len(args) != 1 {
		return &cat.ValidationError{Field: "memory", Value: strings.Join(args, " "), Valid: "<channel> or <first>-<last>"}
	}
	first, last, err := cat.ParseChannelRange(args[0])
	if err != nil {
		return err
	}
	modulation := d.radio.Modulation()
	if first == last {
		m, err := d.radio.GetMemory(first)
		if err != nil {
			return err
		}
		emit(formatMemory(modulation, m))
		return nil
	}
	return d.radio.GetMemoryRange(first, last, func(m cat.MemoryChannel) error {
		emit(formatMemory(modulation, m))
		return nil
	})
}

// lock reads or writes the front panel lock. "set lock" without a value
// toggles it.
func (d *Dispatcher) lock(verb Verb, args []string, emit Emitter) error {
	var on bool
	var err error
	switch {
	case verb == Get:
		if err := noValue(verb, "lock", args); err != nil {
			return err
		}
		on, err = d.radio.GetLock()
	case len(args) == 0 || (len(args) == 1 && strings.EqualFold(args[0], "toggle")):
		on, err = d.radio.ToggleLock()
	default:
		want, perr := cat.ParseOnOff(strings.Join(args, " "))
		if perr != nil {
			return perr
		}
		on, err = d.radio.SetLock(want)
	}
	if err != nil {
		return err
	}
	emit("lock " + formatOnOff(on))
	return nil
}

// info reads identity, both sides and the menu settings, emitting each
// line as soon as it is read
func (d *Dispatcher) info(verb Verb, args []string, emit Emitter) error {
	if verb == Set {
		return &cat.ValidationError{Field: "info", Value: "set", Valid: "read only"}
	}

	model, err := d.radio.Model()
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	emit("Model " + model)

	serial, err := d.radio.Serial()
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	emit("Serial " + serial)

	if err := d.firmware(Get, nil, emit); err != nil {
		return fmt.Errorf("info: %w", err)
	}
	if err := d.pttCtrl(Get, nil, emit); err != nil {
		return fmt.Errorf("info: %w", err)
	}
	for _, side := range tables.Sides {
		if err := d.side(Get, side, nil, emit); err != nil {
			return fmt.Errorf("info: %w", err)
		}
	}

	reg, err := d.radio.ReadMenu()
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	for _, setting := range tables.MenuSettings {
		value, err := reg.Setting(setting)
		if err != nil {
			return fmt.Errorf("info: %w", err)
		}
		emit(setting.Name + " " + setting.Label(value))
	}
	return nil
}
