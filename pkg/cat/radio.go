// Package cat encodes, validates and sends CAT commands for the Kenwood
// TM-D710G and TM-V71A.
//
// A Radio owns one transport for its lifetime and issues exactly one
// request at a time. It does no locking; callers that share a Radio must
// serialize access themselves.
package cat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dougsko/tm710/pkg/logging"
	"github.com/dougsko/tm710/pkg/tables"
	"github.com/dougsko/tm710/pkg/transport"
)

// Options control codec behaviour that differs between radios and users
type Options struct {
	ModulationOrder    tables.ModulationOrder
	AutoRepeaterOffset bool
	MemoryEdit         tables.MemoryEditPolicy
}

// Radio is the typed CAT interface to one radio
type Radio struct {
	transport  transport.Transport
	modulation tables.Table
	options    Options
}

// NewRadio creates a Radio on top of an open transport
func NewRadio(t transport.Transport, options Options) (*Radio, error) {
	modulation, err := tables.ModulationTable(options.ModulationOrder)
	if err != nil {
		return nil, err
	}
	return &Radio{transport: t, modulation: modulation, options: options}, nil
}

// Modulation returns the modulation table in use
func (r *Radio) Modulation() tables.Table {
	return r.modulation
}

// Close closes the underlying transport
func (r *Radio) Close() error {
	return r.transport.Close()
}

// ActiveChannel is the record a side is currently showing
type ActiveChannel struct {
	Side    tables.Side
	Mode    tables.Mode
	Channel int // memory channel, only meaningful in memory mode
	Record  FrequencyRecord
}

// SideStatus is the per-side summary shown by "get A" and INFO
type SideStatus struct {
	ActiveChannel
	ChannelName string
	Power       tables.Power
	Squelch     int
}

func (r *Radio) transactSide(opcode string, side tables.Side, value string) (string, Fields, error) {
	args := side.Code()
	if value != "" {
		args += "," + value
	}
	request := opcode + " " + args
	fields, err := r.Transact(opcode, args)
	return request, fields, err
}

// Model returns the ID reply, e.g. "TM-D710G"
func (r *Radio) Model() (string, error) {
	fields, err := r.Transact("ID", "")
	if err != nil {
		return "", err
	}
	if len(fields) < 1 || fields[0] == "" {
		return "", malformed("ID", fields.Raw(), "no model")
	}
	return fields[0], nil
}

// Serial returns the serial number from AE
func (r *Radio) Serial() (string, error) {
	fields, err := r.Transact("AE", "")
	if err != nil {
		return "", err
	}
	if len(fields) < 1 || fields[0] == "" {
		return "", malformed("AE", fields.Raw(), "no serial number")
	}
	return fields[0], nil
}

func (r *Radio) firmwareVersion(unit string) (string, error) {
	request := "FV " + unit
	fields, err := r.Transact("FV", unit)
	if err != nil {
		return "", err
	}
	if len(fields) < 3 {
		return "", malformed(request, fields.Raw(), "expected at least 3 fields, got %d", len(fields))
	}
	return fields[2], nil
}

// Firmware returns the main and panel firmware versions. A radio without
// a separate panel reports "N/A" for it.
func (r *Radio) Firmware() (Firmware, error) {
	mainVersion, err := r.firmwareVersion("0")
	if err != nil {
		return Firmware{}, step("read main firmware", err)
	}
	panel, err := r.firmwareVersion("1")
	if err != nil {
		if !IsNotAvailable(err) {
			return Firmware{}, step("read panel firmware", err)
		}
		panel = "N/A"
	}
	return Firmware{Main: mainVersion, Panel: panel}, nil
}

// Info reads model, serial number and firmware
func (r *Radio) Info() (RadioInfo, error) {
	var info RadioInfo
	var err error

	if info.Model, err = r.Model(); err != nil {
		return info, step("read model", err)
	}
	if info.Serial, err = r.Serial(); err != nil {
		return info, step("read serial number", err)
	}
	if info.Firmware, err = r.Firmware(); err != nil {
		return info, err
	}
	return info, nil
}

// GetPttCtrl reads which sides hold PTT and CTRL
func (r *Radio) GetPttCtrl() (PttCtrl, error) {
	fields, err := r.Transact("BC", "")
	if err != nil {
		return PttCtrl{}, err
	}
	return DecodePttCtrl("BC", fields)
}

// SetPttCtrl writes both sides at once
func (r *Radio) SetPttCtrl(p PttCtrl) (PttCtrl, error) {
	args := EncodePttCtrl(p)
	fields, err := r.Transact("BC", args)
	if err != nil {
		return PttCtrl{}, err
	}
	return DecodePttCtrl("BC "+args, fields)
}

// SetPTT moves PTT to side and leaves CTRL where it is
func (r *Radio) SetPTT(side tables.Side) (PttCtrl, error) {
	state, err := r.GetPttCtrl()
	if err != nil {
		return PttCtrl{}, step("read PTT/CTRL", err)
	}
	state.PTT = side
	state, err = r.SetPttCtrl(state)
	return state, step("write PTT/CTRL", err)
}

// SetCTRL moves CTRL to side and leaves PTT where it is
func (r *Radio) SetCTRL(side tables.Side) (PttCtrl, error) {
	state, err := r.GetPttCtrl()
	if err != nil {
		return PttCtrl{}, step("read PTT/CTRL", err)
	}
	state.CTRL = side
	state, err = r.SetPttCtrl(state)
	return state, step("write PTT/CTRL", err)
}

// GetLock reports whether the front panel is locked
func (r *Radio) GetLock() (bool, error) {
	fields, err := r.Transact("LK", "")
	if err != nil {
		return false, err
	}
	return decodeLock("LK", fields)
}

// SetLock locks or unlocks the front panel
func (r *Radio) SetLock(on bool) (bool, error) {
	args := boolField(on)
	fields, err := r.Transact("LK", args)
	if err != nil {
		return false, err
	}
	return decodeLock("LK "+args, fields)
}

// ToggleLock flips the front panel lock
func (r *Radio) ToggleLock() (bool, error) {
	on, err := r.GetLock()
	if err != nil {
		return false, step("read lock", err)
	}
	on, err = r.SetLock(!on)
	return on, step("write lock", err)
}

func decodeLock(request string, fields Fields) (bool, error) {
	if len(fields) < 1 {
		return false, malformed(request, fields.Raw(), "no lock state")
	}
	switch fields[0] {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, malformed(request, fields.Raw(), "bad lock state %q", fields[0])
}

// GetMode reads the operating mode of side
func (r *Radio) GetMode(side tables.Side) (tables.Mode, error) {
	request, fields, err := r.transactSide("VM", side, "")
	if err != nil {
		return 0, err
	}
	i, err := decodeTableIndex(request, fields, side, tables.Modes)
	return tables.Mode(i), err
}

// SetMode changes the mode of side. The radio moves CTRL to a side whose
// mode changes, so PTT/CTRL are saved first and restored afterwards.
func (r *Radio) SetMode(side tables.Side, mode tables.Mode) (tables.Mode, error) {
	saved, err := r.GetPttCtrl()
	if err != nil {
		return 0, step("save PTT/CTRL", err)
	}

	request, fields, err := r.transactSide("VM", side, strconv.Itoa(int(mode)))
	if err != nil {
		return 0, step(fmt.Sprintf("set side %s to %s", side, mode), err)
	}
	i, err := decodeTableIndex(request, fields, side, tables.Modes)
	if err != nil {
		return 0, step(fmt.Sprintf("set side %s to %s", side, mode), err)
	}

	if _, err := r.SetPttCtrl(saved); err != nil {
		return 0, step("restore PTT/CTRL", err)
	}
	return tables.Mode(i), nil
}

// GetPower reads the transmit power of side
func (r *Radio) GetPower(side tables.Side) (tables.Power, error) {
	request, fields, err := r.transactSide("PC", side, "")
	if err != nil {
		return 0, err
	}
	i, err := decodeTableIndex(request, fields, side, tables.PowerLevels)
	return tables.Power(i), err
}

// SetPower sets the transmit power of side
func (r *Radio) SetPower(side tables.Side, power tables.Power) (tables.Power, error) {
	request, fields, err := r.transactSide("PC", side, strconv.Itoa(int(power)))
	if err != nil {
		return 0, err
	}
	i, err := decodeTableIndex(request, fields, side, tables.PowerLevels)
	return tables.Power(i), err
}

// GetSquelch reads the squelch level of side
func (r *Radio) GetSquelch(side tables.Side) (int, error) {
	request, fields, err := r.transactSide("SQ", side, "")
	if err != nil {
		return 0, err
	}
	return decodeSquelchReply(request, fields, side)
}

// SetSquelch sets the squelch level of side. Levels outside 0-31 are
// rejected without contacting the radio.
func (r *Radio) SetSquelch(side tables.Side, level int) (int, error) {
	if level < MinSquelch || level > MaxSquelch {
		return 0, &ValidationError{Field: "squelch", Value: strconv.Itoa(level), Valid: fmt.Sprintf("%d-%d", MinSquelch, MaxSquelch)}
	}
	request, fields, err := r.transactSide("SQ", side, EncodeSquelch(level))
	if err != nil {
		return 0, err
	}
	return decodeSquelchReply(request, fields, side)
}

func decodeSquelchReply(request string, fields Fields, side tables.Side) (int, error) {
	v, err := sideValue(request, fields, side)
	if err != nil {
		return 0, err
	}
	level, err := DecodeSquelch(v)
	if err != nil {
		return 0, malformed(request, fields.Raw(), "%v", err)
	}
	return level, nil
}

// GetVFO reads the VFO record of side
func (r *Radio) GetVFO(side tables.Side) (FrequencyRecord, error) {
	request, fields, err := r.transactSide("FO", side, "")
	if err != nil {
		return FrequencyRecord{}, err
	}
	return DecodeFrequencyRecord(request, fields, r.modulation)
}

// GetCall reads the call channel record of side
func (r *Radio) GetCall(side tables.Side) (FrequencyRecord, error) {
	request, fields, err := r.transactSide("CC", side, "")
	if err != nil {
		return FrequencyRecord{}, err
	}
	return DecodeFrequencyRecord(request, fields, r.modulation)
}

func (r *Radio) writeRecord(opcode string, rec FrequencyRecord) (FrequencyRecord, error) {
	args := EncodeFrequencyRecord(rec)
	fields, err := r.Transact(opcode, args)
	if err != nil {
		return FrequencyRecord{}, err
	}
	return DecodeFrequencyRecord(opcode+" "+args, fields, r.modulation)
}

// SetFrequency tunes the VFO of side to hz. The side is forced into VFO
// mode first; the mode change and the frequency write are two separate
// radio operations. It returns the record the radio echoed and the mode
// read back afterwards.
func (r *Radio) SetFrequency(side tables.Side, hz uint64) (FrequencyRecord, tables.Mode, error) {
	if err := ValidateFrequency(side, hz); err != nil {
		return FrequencyRecord{}, 0, err
	}

	if _, err := r.SetMode(side, tables.ModeVFO); err != nil {
		return FrequencyRecord{}, 0, err
	}

	rec, err := r.GetVFO(side)
	if err != nil {
		return FrequencyRecord{}, 0, step("read VFO", err)
	}

	rec.FrequencyHz = hz
	if r.options.AutoRepeaterOffset {
		rec.Shift, rec.OffsetHz = tables.RepeaterShift(hz)
	}

	rec, err = r.writeRecord("FO", rec)
	if err != nil {
		return FrequencyRecord{}, 0, step("write frequency", err)
	}

	mode, err := r.GetMode(side)
	if err != nil {
		return rec, 0, step("read mode", err)
	}
	logging.Info("cat", "frequency set", map[string]interface{}{"side": side.String(), "mhz": rec.MHz()})
	return rec, mode, nil
}

// GetMemoryPointer reads the memory channel selected on side
func (r *Radio) GetMemoryPointer(side tables.Side) (int, error) {
	request, fields, err := r.transactSide("MR", side, "")
	if err != nil {
		return 0, err
	}
	v, err := sideValue(request, fields, side)
	if err != nil {
		return 0, err
	}
	ch, err := strconv.Atoi(v)
	if err != nil {
		return 0, malformed(request, fields.Raw(), "bad channel %q", v)
	}
	return ch, nil
}

// SelectMemory puts side into memory mode and recalls channel. Selecting
// an empty channel fails with EmptyChannelError.
func (r *Radio) SelectMemory(side tables.Side, channel int) (int, error) {
	if channel < MinChannel || channel > MaxChannel {
		return 0, &ValidationError{Field: "memory channel", Value: strconv.Itoa(channel), Valid: fmt.Sprintf("%d-%d", MinChannel, MaxChannel)}
	}

	mode, err := r.GetMode(side)
	if err != nil {
		return 0, step("read mode", err)
	}
	if mode != tables.ModeMemory {
		if _, err := r.SetMode(side, tables.ModeMemory); err != nil {
			return 0, err
		}
	}

	request, fields, err := r.transactSide("MR", side, fmt.Sprintf("%03d", channel))
	if err != nil {
		if IsNotAvailable(err) {
			return 0, &EmptyChannelError{Channel: channel}
		}
		return 0, step("select memory", err)
	}
	v, err := sideValue(request, fields, side)
	if err != nil {
		return 0, step("select memory", err)
	}
	got, err := strconv.Atoi(v)
	if err != nil {
		return 0, step("select memory", malformed(request, fields.Raw(), "bad channel %q", v))
	}
	return got, nil
}

func (r *Radio) readMemoryRecord(channel int) (MemoryChannel, error) {
	args := fmt.Sprintf("%03d", channel)
	fields, err := r.Transact("ME", args)
	if err != nil {
		if IsNotAvailable(err) {
			return MemoryChannel{Index: channel, Empty: true}, nil
		}
		return MemoryChannel{}, err
	}
	return DecodeMemoryChannel("ME "+args, fields, r.modulation)
}

// GetMemoryName reads the name of channel. Unnamed channels return "".
func (r *Radio) GetMemoryName(channel int) (string, error) {
	args := fmt.Sprintf("%03d", channel)
	fields, err := r.Transact("MN", args)
	if err != nil {
		if IsNotAvailable(err) {
			return "", nil
		}
		return "", err
	}
	if len(fields) < 2 {
		return "", nil
	}
	return strings.TrimSpace(strings.Join(fields[1:], ",")), nil
}

// GetMemory reads one memory channel. An empty channel is returned with
// Empty set and no name lookup is made.
func (r *Radio) GetMemory(channel int) (MemoryChannel, error) {
	if channel < MinChannel || channel > MaxChannel {
		return MemoryChannel{}, &ValidationError{Field: "memory channel", Value: strconv.Itoa(channel), Valid: fmt.Sprintf("%d-%d", MinChannel, MaxChannel)}
	}

	m, err := r.readMemoryRecord(channel)
	if err != nil || m.Empty {
		return m, err
	}
	if m.Name, err = r.GetMemoryName(channel); err != nil {
		return m, step(fmt.Sprintf("read name of memory %d", channel), err)
	}
	return m, nil
}

// GetMemoryRange reads channels first through last inclusive and hands
// each one to fn as soon as it is read. It stops at the first error from
// the radio or from fn.
func (r *Radio) GetMemoryRange(first, last int, fn func(MemoryChannel) error) error {
	if first >= last || first < MinChannel || last > MaxChannel {
		return &ValidationError{
			Field: "memory range",
			Value: fmt.Sprintf("%d-%d", first, last),
			Valid: fmt.Sprintf("C1-C2 with %d <= C1 < C2 <= %d", MinChannel, MaxChannel),
		}
	}
	for ch := first; ch <= last; ch++ {
		m, err := r.GetMemory(ch)
		if err != nil {
			return step(fmt.Sprintf("read memory %d", ch), err)
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Radio) writeMemory(m MemoryChannel) (MemoryChannel, error) {
	args := EncodeMemoryChannel(m)
	fields, err := r.Transact("ME", args)
	if err != nil {
		return MemoryChannel{}, err
	}
	return DecodeMemoryChannel("ME "+args, fields, r.modulation)
}

// GetActive reads the mode of side and the record that mode displays
func (r *Radio) GetActive(side tables.Side) (ActiveChannel, error) {
	active := ActiveChannel{Side: side}

	mode, err := r.GetMode(side)
	if err != nil {
		return active, step("read mode", err)
	}
	active.Mode = mode

	switch mode {
	case tables.ModeMemory:
		if active.Channel, err = r.GetMemoryPointer(side); err != nil {
			return active, step("read memory channel", err)
		}
		m, err := r.readMemoryRecord(active.Channel)
		if err != nil {
			return active, step(fmt.Sprintf("read memory %d", active.Channel), err)
		}
		if m.Empty {
			return active, &EmptyChannelError{Channel: active.Channel}
		}
		active.Record = m.Record
		active.Record.Side = side
	case tables.ModeCall:
		if active.Record, err = r.GetCall(side); err != nil {
			return active, step("read call channel", err)
		}
	default:
		if active.Record, err = r.GetVFO(side); err != nil {
			return active, step("read VFO", err)
		}
	}
	return active, nil
}

// Status reads everything shown for one side
func (r *Radio) Status(side tables.Side) (SideStatus, error) {
	var status SideStatus
	active, err := r.GetActive(side)
	status.ActiveChannel = active
	if err != nil {
		return status, err
	}

	if active.Mode == tables.ModeMemory {
		if status.ChannelName, err = r.GetMemoryName(active.Channel); err != nil {
			return status, step("read memory name", err)
		}
	}
	if status.Power, err = r.GetPower(side); err != nil {
		return status, step("read power", err)
	}
	if status.Squelch, err = r.GetSquelch(side); err != nil {
		return status, step("read squelch", err)
	}
	return status, nil
}

// EditChannel applies edit to the record side is showing and writes it
// back: FO in VFO mode, CC in call mode. In memory mode the outcome
// depends on Options.MemoryEdit: refuse, rewrite the channel with ME, or
// copy the edited channel into the VFO.
func (r *Radio) EditChannel(side tables.Side, edit func(*FrequencyRecord) error) (FrequencyRecord, error) {
	mode, err := r.GetMode(side)
	if err != nil {
		return FrequencyRecord{}, step("read mode", err)
	}

	switch mode {
	case tables.ModeVFO, tables.ModeCall:
		opcode, name := "FO", "VFO"
		read := r.GetVFO
		if mode == tables.ModeCall {
			opcode, name, read = "CC", "call channel", r.GetCall
		}
		rec, err := read(side)
		if err != nil {
			return FrequencyRecord{}, step("read "+name, err)
		}
		if err := edit(&rec); err != nil {
			return FrequencyRecord{}, err
		}
		rec, err = r.writeRecord(opcode, rec)
		return rec, step("write "+name, err)

	case tables.ModeMemory:
		return r.editMemory(side, edit)
	}

	return FrequencyRecord{}, &ValidationError{
		Field: "channel edit",
		Value: fmt.Sprintf("side %s is in %s mode", side, mode),
		Valid: "made in VFO, CALL or memory mode",
	}
}

func (r *Radio) editMemory(side tables.Side, edit func(*FrequencyRecord) error) (FrequencyRecord, error) {
	policy := r.options.MemoryEdit
	if policy != tables.MemoryEditWrite && policy != tables.MemoryEditCopyToVFO {
		return FrequencyRecord{}, &ValidationError{
			Field: "channel edit",
			Value: fmt.Sprintf("side %s is in memory mode", side),
			Valid: "made in VFO or CALL mode (or set memory_edit to write or copy-to-vfo)",
		}
	}

	ch, err := r.GetMemoryPointer(side)
	if err != nil {
		return FrequencyRecord{}, step("read memory channel", err)
	}
	m, err := r.readMemoryRecord(ch)
	if err != nil {
		return FrequencyRecord{}, step(fmt.Sprintf("read memory %d", ch), err)
	}
	if m.Empty {
		return FrequencyRecord{}, &EmptyChannelError{Channel: ch}
	}

	rec := m.Record
	rec.Side = side
	if err := edit(&rec); err != nil {
		return FrequencyRecord{}, err
	}

	if policy == tables.MemoryEditCopyToVFO {
		return r.copyToVFO(side, m, rec)
	}

	logging.Warn("cat", fmt.Sprintf("Modifying memory %d", ch))
	m.Record = rec
	m, err = r.writeMemory(m)
	if err != nil {
		return FrequencyRecord{}, step(fmt.Sprintf("write memory %d", ch), err)
	}
	m.Record.Side = side
	return m.Record, nil
}

// copyToVFO switches side to VFO mode and writes rec, the edited contents
// of memory m, to the VFO. The VFO must already be tuned to the same band
// as the memory; otherwise side goes back to memory mode untouched.
func (r *Radio) copyToVFO(side tables.Side, m MemoryChannel, rec FrequencyRecord) (FrequencyRecord, error) {
	if _, err := r.SetMode(side, tables.ModeVFO); err != nil {
		return FrequencyRecord{}, step("switch to VFO", err)
	}
	vfo, err := r.GetVFO(side)
	if err != nil {
		return FrequencyRecord{}, step("read VFO", err)
	}

	if !tables.SameBand(vfo.FrequencyHz, m.Record.FrequencyHz) {
		if _, err := r.SetMode(side, tables.ModeMemory); err != nil {
			return FrequencyRecord{}, step("restore memory mode", err)
		}
		return FrequencyRecord{}, &ValidationError{
			Field: "copy to VFO",
			Value: fmt.Sprintf("memory %d at %s MHz", m.Index, m.Record.MHz()),
			Valid: fmt.Sprintf("in the same band as the side %s VFO (%s MHz)", side, vfo.MHz()),
		}
	}

	logging.Info("cat", fmt.Sprintf("Copying memory %d contents to VFO", m.Index), map[string]interface{}{"side": side.String()})
	rec, err = r.writeRecord("FO", rec)
	return rec, step("write VFO", err)
}

// SetStep changes the tuning step (index into tables.Steps)
func (r *Radio) SetStep(side tables.Side, stepIndex int) (FrequencyRecord, error) {
	if _, ok := tables.Steps.Lookup(stepIndex); !ok {
		return FrequencyRecord{}, &ValidationError{Field: "step", Value: strconv.Itoa(stepIndex), Valid: "one of " + tables.Steps.String()}
	}
	return r.EditChannel(side, func(rec *FrequencyRecord) error {
		rec.Step = stepIndex
		return nil
	})
}

// SetShift changes the repeater shift direction
func (r *Radio) SetShift(side tables.Side, shift tables.Shift) (FrequencyRecord, error) {
	return r.EditChannel(side, func(rec *FrequencyRecord) error {
		rec.Shift = shift
		return nil
	})
}

// SetReverse turns reverse on or off. The displayed frequency moves by the
// offset so the radio keeps showing the receive frequency.
func (r *Radio) SetReverse(side tables.Side, on bool) (FrequencyRecord, error) {
	return r.EditChannel(side, func(rec *FrequencyRecord) error {
		if rec.Reverse == on {
			return nil
		}
		up := rec.Shift == tables.ShiftUp
		down := rec.Shift == tables.ShiftDown
		if !on {
			up, down = down, up
		}
		switch {
		case up:
			rec.FrequencyHz += rec.OffsetHz
		case down:
			if rec.OffsetHz > rec.FrequencyHz {
				return &ValidationError{Field: "reverse", Value: rec.MHz(), Valid: "above the offset"}
			}
			rec.FrequencyHz -= rec.OffsetHz
		}
		rec.Reverse = on
		return nil
	})
}

// SetToneType selects none, tone, ctcss or dcs (index into tables.ToneTypes)
func (r *Radio) SetToneType(side tables.Side, toneType int) (FrequencyRecord, error) {
	if _, ok := tables.ToneTypes.Lookup(toneType); !ok {
		return FrequencyRecord{}, &ValidationError{Field: "tone type", Value: strconv.Itoa(toneType), Valid: "one of " + tables.ToneTypes.String()}
	}
	return r.EditChannel(side, func(rec *FrequencyRecord) error {
		rec.SetToneType(toneType)
		return nil
	})
}

// SetToneFrequency sets the frequency or code of the active tone type. A
// token that is neither a tone frequency nor a DCS code is rejected
// without contacting the radio.
func (r *Radio) SetToneFrequency(side tables.Side, token string) (FrequencyRecord, error) {
	_, toneErr := ParseToneValue(tables.ToneFrequencies, token)
	_, dcsErr := ParseToneValue(tables.DCSCodes, token)
	if toneErr != nil && dcsErr != nil {
		return FrequencyRecord{}, &ValidationError{Field: "tone frequency", Value: token, Valid: "a tone frequency in Hz or a DCS code"}
	}
	return r.EditChannel(side, func(rec *FrequencyRecord) error {
		var err error
		switch rec.ToneType() {
		case 1:
			rec.ToneIndex, err = ParseToneValue(tables.ToneFrequencies, token)
		case 2:
			rec.CTCSSIndex, err = ParseToneValue(tables.ToneFrequencies, token)
		case 3:
			rec.DCSIndex, err = ParseToneValue(tables.DCSCodes, token)
		default:
			err = &ValidationError{Field: "tone frequency", Value: token, Valid: "set after choosing a tone type"}
		}
		return err
	})
}

// SetModulation changes the modulation by label
func (r *Radio) SetModulation(side tables.Side, token string) (FrequencyRecord, error) {
	i, err := ParseTableValue(r.modulation, token)
	if err != nil {
		return FrequencyRecord{}, err
	}
	return r.EditChannel(side, func(rec *FrequencyRecord) error {
		rec.Modulation = i
		return nil
	})
}
