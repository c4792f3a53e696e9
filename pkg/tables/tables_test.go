package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSizes(t *testing.T) {
	assert.Equal(t, 11, Steps.Len())
	assert.Equal(t, 4, Shifts.Len())
	assert.Equal(t, 42, ToneFrequencies.Len())
	assert.Equal(t, 104, DCSCodes.Len())
	assert.Equal(t, 3, PowerLevels.Len())
	assert.Equal(t, 4, Modes.Len())
	assert.Equal(t, "5", Steps.Value(0))
	assert.Equal(t, "100", Steps.Value(10))
	assert.Equal(t, "67.0", ToneFrequencies.Value(0))
	assert.Equal(t, "254.1", ToneFrequencies.Value(41))
	assert.Equal(t, "023", DCSCodes.Value(0))
	assert.Equal(t, "754", DCSCodes.Value(103))
}

func TestToneTableKeepsRadioOrder(t *testing.T) {
	// The radio lists 240.7 out of ascending order; it must stay there.
	assert.Equal(t, "203.5", ToneFrequencies.Value(32))
	assert.Equal(t, "240.7", ToneFrequencies.Value(33))
	assert.Equal(t, "210.7", ToneFrequencies.Value(34))
}

func TestTableLookup(t *testing.T) {
	t.Run("Index Is Case Insensitive", func(t *testing.T) {
		i, ok := OnOff.Index("ON")
		require.True(t, ok)
		assert.Equal(t, 1, i)
	})

	t.Run("Unknown Label", func(t *testing.T) {
		_, ok := Timeouts.Index("7")
		assert.False(t, ok)
	})

	t.Run("Lookup Out Of Range", func(t *testing.T) {
		_, ok := Steps.Lookup(11)
		assert.False(t, ok)
		_, ok = Steps.Lookup(-1)
		assert.False(t, ok)
	})

	t.Run("Value Out Of Range Panics", func(t *testing.T) {
		assert.Panics(t, func() { Shifts.Value(4) })
	})

	t.Run("Every Label Round Trips", func(t *testing.T) {
		for _, table := range []Table{Steps, Shifts, DCSCodes, PowerLevels, Modes, Timeouts, APOTimes, DataSides, DataSpeeds, SQCSources} {
			for i := 0; i < table.Len(); i++ {
				idx, ok := table.Index(table.Value(i))
				require.True(t, ok, "%s[%d]", table.Name(), i)
				assert.Equal(t, i, idx, "%s[%d]", table.Name(), i)
			}
		}
	})

	t.Run("String Lists Valid Set", func(t *testing.T) {
		assert.Equal(t, "{3, 5, 10}", Timeouts.String())
	})
}

func TestModulationTable(t *testing.T) {
	t.Run("Default Order", func(t *testing.T) {
		table, err := ModulationTable("")
		require.NoError(t, err)
		assert.Equal(t, []string{"FM", "NFM", "AM"}, table.Labels())
	})

	t.Run("Alternate Order", func(t *testing.T) {
		table, err := ModulationTable(ModulationFMAMNFM)
		require.NoError(t, err)
		assert.Equal(t, "AM", table.Value(1))
	})

	t.Run("Unknown Order", func(t *testing.T) {
		_, err := ModulationTable("am-fm")
		assert.Error(t, err)
	})
}

func TestParseMemoryEditPolicy(t *testing.T) {
	for token, want := range map[string]MemoryEditPolicy{
		"":            MemoryEditRefuse,
		"refuse":      MemoryEditRefuse,
		"Write":       MemoryEditWrite,
		"copy-to-vfo": MemoryEditCopyToVFO,
	} {
		t.Run(token, func(t *testing.T) {
			got, err := ParseMemoryEditPolicy(token)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseMemoryEditPolicy("copy")
	assert.Error(t, err)
}

func TestParseEnums(t *testing.T) {
	side, ok := ParseSide("b")
	require.True(t, ok)
	assert.Equal(t, SideB, side)
	assert.Equal(t, SideA, side.Other())
	_, ok = ParseSide("C")
	assert.False(t, ok)

	mode, ok := ParseMode("Memory")
	require.True(t, ok)
	assert.Equal(t, ModeMemory, mode)
	assert.Equal(t, "MR", mode.String())

	power, ok := ParsePower("L")
	require.True(t, ok)
	assert.Equal(t, PowerLow, power)

	shift, ok := ParseShift("+")
	require.True(t, ok)
	assert.Equal(t, ShiftUp, shift)
}

func TestLimits(t *testing.T) {
	a := Limits(SideA)
	assert.True(t, a.Contains(118000000))
	assert.True(t, a.Contains(524000000))
	assert.False(t, a.Contains(117999999))
	assert.False(t, a.Contains(524000001))

	b := Limits(SideB)
	assert.False(t, b.Contains(135999999))
	assert.True(t, b.Contains(1300000000))
	assert.Equal(t, "136.000-1300.000 MHz", b.String())
}

func TestRepeaterShift(t *testing.T) {
	tests := []struct {
		hz     uint64
		shift  Shift
		offset uint64
	}{
		{146520000, ShiftSimplex, 0},
		{146940000, ShiftDown, 600000},
		{147060000, ShiftUp, 600000},
		{443500000, ShiftUp, 5000000},
		{448000000, ShiftDown, 5000000},
		{446000000, ShiftSimplex, 0},
	}

	for _, tt := range tests {
		shift, offset := RepeaterShift(tt.hz)
		assert.Equal(t, tt.shift, shift, "shift for %d", tt.hz)
		assert.Equal(t, tt.offset, offset, "offset for %d", tt.hz)
	}
}

func TestSameBand(t *testing.T) {
	assert.True(t, SameBand(146520000, 147000000))
	assert.False(t, SameBand(146520000, 446000000))
	assert.False(t, SameBand(300000000, 300000000))
}

func TestMenuSettingLabel(t *testing.T) {
	assert.Equal(t, "5 minutes", SettingTimeout.Label("5"))
	assert.Equal(t, "off", SettingAPO.Label("off"))
	assert.Equal(t, "on", SettingVHFAIP.Label("on"))
	assert.Equal(t, 40, MenuMinFields)
}

func TestMenuFieldPositions(t *testing.T) {
	positions := map[string]int{
		"beep":       0,
		"VHF AIP":    10,
		"UHF AIP":    11,
		"TX timeout": 15,
		"backlight":  27,
		"APO":        36,
		"data side":  37,
		"data speed": 38,
		"SQC source": 39,
	}
	require.Len(t, MenuSettings, len(positions))
	for _, setting := range MenuSettings {
		t.Run(setting.Name, func(t *testing.T) {
			want, ok := positions[setting.Name]
			require.True(t, ok)
			assert.Equal(t, want, setting.Index)
			assert.Less(t, setting.Index, MenuMinFields)
		})
	}
}
