package cat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dougsko/tm710/pkg/tables"
)

func defaultModulation(t testing.TB) tables.Table {
	table, err := tables.ModulationTable(tables.ModulationFMNFMAM)
	require.NoError(t, err)
	return table
}

func drawRecord(t *rapid.T, side tables.Side) FrequencyRecord {
	limits := tables.Limits(side)
	return FrequencyRecord{
		Side:         side,
		FrequencyHz:  rapid.Uint64Range(limits.Min, limits.Max).Draw(t, "freq"),
		Step:         rapid.IntRange(0, tables.Steps.Len()-1).Draw(t, "step"),
		Shift:        tables.Shift(rapid.IntRange(0, tables.Shifts.Len()-1).Draw(t, "shift")),
		Reverse:      rapid.Bool().Draw(t, "reverse"),
		ToneEnabled:  rapid.Bool().Draw(t, "tone"),
		CTCSSEnabled: rapid.Bool().Draw(t, "ctcss"),
		DCSEnabled:   rapid.Bool().Draw(t, "dcs"),
		ToneIndex:    rapid.IntRange(0, tables.ToneFrequencies.Len()-1).Draw(t, "toneIndex"),
		CTCSSIndex:   rapid.IntRange(0, tables.ToneFrequencies.Len()-1).Draw(t, "ctcssIndex"),
		DCSIndex:     rapid.IntRange(0, tables.DCSCodes.Len()-1).Draw(t, "dcsIndex"),
		OffsetHz:     rapid.Uint64Range(0, 99999999).Draw(t, "offset"),
		Modulation:   rapid.IntRange(0, 2).Draw(t, "modulation"),
	}
}

func TestFrequencyRecordRoundTrip(t *testing.T) {
	modulation := defaultModulation(t)

	rapid.Check(t, func(t *rapid.T) {
		side := rapid.SampledFrom(tables.Sides).Draw(t, "side")
		rec := drawRecord(t, side)

		encoded := EncodeFrequencyRecord(rec)
		decoded, err := DecodeFrequencyRecord("FO", Fields(strings.Split(encoded, ",")), modulation)
		if err != nil {
			t.Fatalf("decode %q: %v", encoded, err)
		}
		if decoded != rec {
			t.Fatalf("round trip mismatch: %+v != %+v", decoded, rec)
		}
	})
}

func TestMemoryChannelRoundTrip(t *testing.T) {
	modulation := defaultModulation(t)

	rapid.Check(t, func(t *rapid.T) {
		m := MemoryChannel{
			Index:         rapid.IntRange(MinChannel, MaxChannel).Draw(t, "channel"),
			Record:        drawRecord(t, tables.SideA),
			TxFrequencyHz: rapid.Uint64Range(0, 1300000000).Draw(t, "tx"),
			TxStep:        rapid.IntRange(0, tables.Steps.Len()-1).Draw(t, "txStep"),
			Lockout:       rapid.Bool().Draw(t, "lockout"),
		}

		encoded := EncodeMemoryChannel(m)
		decoded, err := DecodeMemoryChannel("ME", Fields(strings.Split(encoded, ",")), modulation)
		if err != nil {
			t.Fatalf("decode %q: %v", encoded, err)
		}
		if decoded != m {
			t.Fatalf("round trip mismatch: %+v != %+v", decoded, m)
		}
	})
}

func TestSquelchRoundTrip(t *testing.T) {
	for n := MinSquelch; n <= MaxSquelch; n++ {
		code := EncodeSquelch(n)
		assert.Len(t, code, 2)
		assert.Equal(t, strings.ToUpper(code), code)

		got, err := DecodeSquelch(code)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	assert.Equal(t, "1F", EncodeSquelch(31))
	_, err := DecodeSquelch("20")
	assert.Error(t, err)
	_, err = DecodeSquelch("ZZ")
	assert.Error(t, err)
}

func TestEncodeFrequencyRecord(t *testing.T) {
	rec := FrequencyRecord{
		Side:         tables.SideA,
		FrequencyHz:  146520000,
		Step:         10,
		Shift:        tables.ShiftDown,
		CTCSSEnabled: true,
		ToneIndex:    8,
		CTCSSIndex:   12,
		DCSIndex:     0,
		OffsetHz:     600000,
		Modulation:   0,
	}
	assert.Equal(t, "0,0146520000,A,2,0,0,1,0,08,12,000,00600000,0", EncodeFrequencyRecord(rec))
	assert.Equal(t, "100.0", rec.ToneLabel())
	assert.Equal(t, 2, rec.ToneType())
	assert.Equal(t, "146.520", rec.MHz())
}

func TestDecodeFrequencyRecordErrors(t *testing.T) {
	modulation := defaultModulation(t)

	tests := []struct {
		name   string
		fields string
	}{
		{"Short Reply", "0,0146520000,0"},
		{"Unknown Side", "2,0146520000,0,0,0,0,0,0,08,08,000,00600000,0"},
		{"Unknown Step", "0,0146520000,B,0,0,0,0,0,08,08,000,00600000,0"},
		{"Unknown Tone", "0,0146520000,0,0,0,0,0,0,42,08,000,00600000,0"},
		{"Unknown Modulation", "0,0146520000,0,0,0,0,0,0,08,08,000,00600000,3"},
		{"Bad Flag", "0,0146520000,0,0,2,0,0,0,08,08,000,00600000,0"},
		{"Bad Number", "0,01465x0000,0,0,0,0,0,0,08,08,000,00600000,0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrequencyRecord("FO 0", Fields(strings.Split(tt.fields, ",")), modulation)
			require.Error(t, err)
			var pe *ProtocolError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, MalformedReply, pe.Kind)
		})
	}
}

func TestDecodePttCtrl(t *testing.T) {
	p, err := DecodePttCtrl("BC", Fields{"1", "0"})
	require.NoError(t, err)
	assert.Equal(t, PttCtrl{PTT: tables.SideA, CTRL: tables.SideB}, p)
	assert.Equal(t, "1,0", EncodePttCtrl(p))

	_, err = DecodePttCtrl("BC", Fields{"1"})
	assert.Error(t, err)
}

func TestToneTypeFlags(t *testing.T) {
	var rec FrequencyRecord
	rec.SetToneType(3)
	assert.True(t, rec.DCSEnabled)
	assert.False(t, rec.ToneEnabled || rec.CTCSSEnabled)
	assert.Equal(t, "023", rec.ToneLabel())

	rec.SetToneType(0)
	assert.Equal(t, 0, rec.ToneType())
	assert.Equal(t, "", rec.ToneLabel())
}
