package cat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dougsko/tm710/pkg/tables"
)

// Field counts of the fixed-layout replies
const (
	frequencyFields = 13 // FO and CC
	memoryFields    = 16 // ME
)

// FrequencyRecord is the channel layout shared by FO, CC and ME
type FrequencyRecord struct {
	Side         tables.Side
	FrequencyHz  uint64
	Step         int // index into tables.Steps
	Shift        tables.Shift
	Reverse      bool
	ToneEnabled  bool
	CTCSSEnabled bool
	DCSEnabled   bool
	ToneIndex    int // index into tables.ToneFrequencies
	CTCSSIndex   int // index into tables.ToneFrequencies
	DCSIndex     int // index into tables.DCSCodes
	OffsetHz     uint64
	Modulation   int // index into the configured modulation table
}

// ToneType returns the index into tables.ToneTypes of the active tone flag
func (f FrequencyRecord) ToneType() int {
	switch {
	case f.ToneEnabled:
		return 1
	case f.CTCSSEnabled:
		return 2
	case f.DCSEnabled:
		return 3
	}
	return 0
}

// SetToneType clears all tone flags and sets the one named by t
func (f *FrequencyRecord) SetToneType(t int) {
	f.ToneEnabled = t == 1
	f.CTCSSEnabled = t == 2
	f.DCSEnabled = t == 3
}

// ToneLabel returns the frequency or code of the active tone, or "" when
// no tone is set
func (f FrequencyRecord) ToneLabel() string {
	var (
		label string
		ok    bool
	)
	switch f.ToneType() {
	case 1:
		label, ok = tables.ToneFrequencies.Lookup(f.ToneIndex)
	case 2:
		label, ok = tables.ToneFrequencies.Lookup(f.CTCSSIndex)
	case 3:
		label, ok = tables.DCSCodes.Lookup(f.DCSIndex)
	}
	if !ok {
		return ""
	}
	return label
}

// MHz formats the frequency the way the radio displays it
func (f FrequencyRecord) MHz() string {
	return FormatMHz(f.FrequencyHz)
}

// FormatMHz formats Hz as MHz with three decimals
func FormatMHz(hz uint64) string {
	return fmt.Sprintf("%d.%03d", hz/1000000, (hz%1000000)/1000)
}

// MemoryChannel is one of the radio's 1000 memories. The radio is the only
// store; a value is only good for the command that read it.
type MemoryChannel struct {
	Index         int
	Name          string
	Record        FrequencyRecord
	TxFrequencyHz uint64
	TxStep        int
	Lockout       bool
	Empty         bool
}

// PttCtrl holds the transmit side and the panel control side
type PttCtrl struct {
	PTT  tables.Side
	CTRL tables.Side
}

// Firmware versions of the main unit and the control panel
type Firmware struct {
	Main  string
	Panel string
}

// RadioInfo identifies the connected radio
type RadioInfo struct {
	Model    string
	Serial   string
	Firmware Firmware
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func stepCode(step int) string {
	return strings.ToUpper(strconv.FormatInt(int64(step), 16))
}

func encodeRecordBody(f FrequencyRecord) string {
	return fmt.Sprintf("%010d,%s,%d,%s,%s,%s,%s,%02d,%02d,%03d,%08d,%d",
		f.FrequencyHz,
		stepCode(f.Step),
		int(f.Shift),
		boolField(f.Reverse),
		boolField(f.ToneEnabled),
		boolField(f.CTCSSEnabled),
		boolField(f.DCSEnabled),
		f.ToneIndex,
		f.CTCSSIndex,
		f.DCSIndex,
		f.OffsetHz,
		f.Modulation,
	)
}

// EncodeFrequencyRecord returns the FO/CC argument string for f
func EncodeFrequencyRecord(f FrequencyRecord) string {
	return f.Side.Code() + "," + encodeRecordBody(f)
}

// EncodeMemoryChannel returns the ME argument string for m
func EncodeMemoryChannel(m MemoryChannel) string {
	return fmt.Sprintf("%03d,%s,%010d,%s,%s",
		m.Index,
		encodeRecordBody(m.Record),
		m.TxFrequencyHz,
		stepCode(m.TxStep),
		boolField(m.Lockout),
	)
}

// decoder reads typed fields from a reply and remembers the first failure
type decoder struct {
	request string
	fields  Fields
	err     error
}

func (d *decoder) fail(i int, format string, args ...interface{}) {
	if d.err == nil {
		d.err = malformed(d.request, d.fields.Raw(), "field %d: %s", i, fmt.Sprintf(format, args...))
	}
}

func (d *decoder) number(i int) uint64 {
	v, err := strconv.ParseUint(d.fields[i], 10, 64)
	if err != nil {
		d.fail(i, "not a number: %q", d.fields[i])
	}
	return v
}

func (d *decoder) index(i int, table tables.Table) int {
	v, err := strconv.Atoi(d.fields[i])
	if err != nil {
		d.fail(i, "not a number: %q", d.fields[i])
		return 0
	}
	if _, ok := table.Lookup(v); !ok {
		d.fail(i, "%d is not a valid %s code", v, table.Name())
	}
	return v
}

func (d *decoder) hexIndex(i int, table tables.Table) int {
	v, err := strconv.ParseInt(d.fields[i], 16, 0)
	if err != nil {
		d.fail(i, "not a hex digit: %q", d.fields[i])
		return 0
	}
	if _, ok := table.Lookup(int(v)); !ok {
		d.fail(i, "%d is not a valid %s code", v, table.Name())
	}
	return int(v)
}

func (d *decoder) flag(i int) bool {
	switch d.fields[i] {
	case "0":
		return false
	case "1":
		return true
	}
	d.fail(i, "not a flag: %q", d.fields[i])
	return false
}

// record decodes the 12 channel fields starting at offset
func (d *decoder) record(offset int, modulation tables.Table) FrequencyRecord {
	return FrequencyRecord{
		FrequencyHz:  d.number(offset),
		Step:         d.hexIndex(offset+1, tables.Steps),
		Shift:        tables.Shift(d.index(offset+2, tables.Shifts)),
		Reverse:      d.flag(offset + 3),
		ToneEnabled:  d.flag(offset + 4),
		CTCSSEnabled: d.flag(offset + 5),
		DCSEnabled:   d.flag(offset + 6),
		ToneIndex:    d.index(offset+7, tables.ToneFrequencies),
		CTCSSIndex:   d.index(offset+8, tables.ToneFrequencies),
		DCSIndex:     d.index(offset+9, tables.DCSCodes),
		OffsetHz:     d.number(offset + 10),
		Modulation:   d.index(offset+11, modulation),
	}
}

// DecodeFrequencyRecord decodes an FO or CC payload
func DecodeFrequencyRecord(request string, fields Fields, modulation tables.Table) (FrequencyRecord, error) {
	if len(fields) < frequencyFields {
		return FrequencyRecord{}, malformed(request, fields.Raw(), "expected %d fields, got %d", frequencyFields, len(fields))
	}
	d := &decoder{request: request, fields: fields}
	side, ok := tables.SideFromCode(fields[0])
	if !ok {
		d.fail(0, "unknown side %q", fields[0])
	}
	rec := d.record(1, modulation)
	rec.Side = side
	if d.err != nil {
		return FrequencyRecord{}, d.err
	}
	return rec, nil
}

// DecodeMemoryChannel decodes an ME payload
func DecodeMemoryChannel(request string, fields Fields, modulation tables.Table) (MemoryChannel, error) {
	if len(fields) < memoryFields {
		return MemoryChannel{}, malformed(request, fields.Raw(), "expected %d fields, got %d", memoryFields, len(fields))
	}
	d := &decoder{request: request, fields: fields}
	ch, err := strconv.Atoi(fields[0])
	if err != nil || ch < MinChannel || ch > MaxChannel {
		d.fail(0, "bad channel %q", fields[0])
	}
	m := MemoryChannel{
		Index:         ch,
		Record:        d.record(1, modulation),
		TxFrequencyHz: d.number(13),
		TxStep:        d.hexIndex(14, tables.Steps),
		Lockout:       d.flag(15),
	}
	if d.err != nil {
		return MemoryChannel{}, d.err
	}
	return m, nil
}

// EncodeSquelch returns the two-digit uppercase hex squelch code
func EncodeSquelch(level int) string {
	return fmt.Sprintf("%02X", level)
}

// DecodeSquelch parses a two-digit hex squelch code
func DecodeSquelch(code string) (int, error) {
	v, err := strconv.ParseUint(code, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("bad squelch code %q: %w", code, err)
	}
	if int(v) > MaxSquelch {
		return 0, fmt.Errorf("squelch code %q out of range", code)
	}
	return int(v), nil
}

// EncodePttCtrl returns the BC argument string. The radio orders it CTRL
// first.
func EncodePttCtrl(p PttCtrl) string {
	return p.CTRL.Code() + "," + p.PTT.Code()
}

// DecodePttCtrl decodes a BC payload
func DecodePttCtrl(request string, fields Fields) (PttCtrl, error) {
	if len(fields) < 2 {
		return PttCtrl{}, malformed(request, fields.Raw(), "expected 2 fields, got %d", len(fields))
	}
	ctrl, ok1 := tables.SideFromCode(fields[0])
	ptt, ok2 := tables.SideFromCode(fields[1])
	if !ok1 || !ok2 {
		return PttCtrl{}, malformed(request, fields.Raw(), "unknown side")
	}
	return PttCtrl{PTT: ptt, CTRL: ctrl}, nil
}

// sideValue decodes the "<side>,<value>" payload of VM, MR, PC and SQ
func sideValue(request string, fields Fields, side tables.Side) (string, error) {
	if len(fields) < 2 {
		return "", malformed(request, fields.Raw(), "expected 2 fields, got %d", len(fields))
	}
	if got, ok := tables.SideFromCode(fields[0]); !ok || got != side {
		return "", malformed(request, fields.Raw(), "reply for side %q", fields[0])
	}
	return fields[1], nil
}

func decodeTableIndex(request string, fields Fields, side tables.Side, table tables.Table) (int, error) {
	v, err := sideValue(request, fields, side)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, malformed(request, fields.Raw(), "not a number: %q", v)
	}
	if _, ok := table.Lookup(i); !ok {
		return 0, malformed(request, fields.Raw(), "%d is not a valid %s code", i, table.Name())
	}
	return i, nil
}
