package cat

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dougsko/tm710/pkg/tables"
	"github.com/dougsko/tm710/pkg/transport"
)

func newTestRadio(t *testing.T, mock *transport.MockTransport, options Options) *Radio {
	t.Helper()
	radio, err := NewRadio(mock, options)
	require.NoError(t, err)
	return radio
}

// foReply builds an FO reply for a simplex FM channel
func foReply(side tables.Side, hz uint64) string {
	return fmt.Sprintf("FO %s,%010d,0,0,0,0,0,0,08,08,000,00000000,0", side.Code(), hz)
}

// meReply builds an ME reply for a simplex FM memory
func meReply(channel int, hz uint64) string {
	return fmt.Sprintf("ME %03d,%010d,0,0,0,0,0,0,08,08,000,00000000,0,0000000000,0,0", channel, hz)
}

// menuFields returns a 42-field register with distinct field values
func menuFields() MenuRegister {
	reg := make(MenuRegister, 42)
	for i := range reg {
		reg[i] = "0"
	}
	reg[0] = "1"
	reg[28] = "1"
	return reg
}

// menuRadio answers MU reads and writes from an in-memory register
func menuRadio(mock *transport.MockTransport, reg MenuRegister) *MenuRegister {
	current := reg.Clone()
	mock.Handle("MU", func(line string) (string, error) {
		if line != "MU" {
			current = MenuRegister(strings.Split(strings.TrimPrefix(line, "MU "), ","))
		}
		return "MU " + current.String(), nil
	})
	return &current
}

// pttCtrlRadio answers BC reads and writes
func pttCtrlRadio(mock *transport.MockTransport, ctrl, ptt string) {
	state := ctrl + "," + ptt
	mock.Handle("BC", func(line string) (string, error) {
		if line != "BC" {
			state = strings.TrimPrefix(line, "BC ")
		}
		return "BC " + state, nil
	})
}
