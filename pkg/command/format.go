package command

import (
	"fmt"
	"strings"

	"github.com/dougsko/tm710/pkg/cat"
	"github.com/dougsko/tm710/pkg/tables"
)

func formatFrequency(rec cat.FrequencyRecord) string {
	return rec.MHz() + " MHz"
}

func formatStep(rec cat.FrequencyRecord) string {
	if label, ok := tables.Steps.Lookup(rec.Step); ok {
		return label + " kHz"
	}
	return fmt.Sprintf("step %d", rec.Step)
}

func formatShift(rec cat.FrequencyRecord) string {
	if rec.Shift == tables.ShiftSimplex {
		return rec.Shift.String()
	}
	return fmt.Sprintf("%s %s MHz", rec.Shift, cat.FormatMHz(rec.OffsetHz))
}

func formatOnOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func formatTone(rec cat.FrequencyRecord) string {
	toneType := tables.ToneTypes.Value(rec.ToneType())
	if label := rec.ToneLabel(); label != "" {
		return toneType + " " + label
	}
	return toneType
}

func formatModulation(modulation tables.Table, rec cat.FrequencyRecord) string {
	if label, ok := modulation.Lookup(rec.Modulation); ok {
		return label
	}
	return fmt.Sprintf("modulation %d", rec.Modulation)
}

func formatRecord(modulation tables.Table, rec cat.FrequencyRecord) string {
	parts := []string{
		formatFrequency(rec),
		formatModulation(modulation, rec),
		"step " + formatStep(rec),
		"shift " + formatShift(rec),
	}
	if rec.Reverse {
		parts = append(parts, "reverse")
	}
	if rec.ToneType() == 0 {
		parts = append(parts, "tone none")
	} else {
		parts = append(parts, formatTone(rec))
	}
	return strings.Join(parts, ", ")
}

func formatStatus(modulation tables.Table, status cat.SideStatus) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Side %s: %s", status.Side, status.Mode)
	if status.Mode == tables.ModeMemory {
		fmt.Fprintf(&b, " %d", status.Channel)
		if status.ChannelName != "" {
			fmt.Fprintf(&b, " %q", status.ChannelName)
		}
	}
	fmt.Fprintf(&b, ", %s, power %s, squelch %d", formatRecord(modulation, status.Record), status.Power, status.Squelch)
	return b.String()
}

func formatMemory(modulation tables.Table, m cat.MemoryChannel) string {
	if m.Empty {
		return (&cat.EmptyChannelError{Channel: m.Index}).Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Memory %d", m.Index)
	if m.Name != "" {
		fmt.Fprintf(&b, " %q", m.Name)
	}
	fmt.Fprintf(&b, ": %s", formatRecord(modulation, m.Record))
	if m.Lockout {
		b.WriteString(", lockout")
	}
	return b.String()
}

func formatPttCtrl(p cat.PttCtrl) string {
	return fmt.Sprintf("PTT %s, CTRL %s", p.PTT, p.CTRL)
}
