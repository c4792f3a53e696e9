package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransportScript(t *testing.T) {
	t.Run("Replies In Order", func(t *testing.T) {
		mock := NewMockTransport().
			Expect("ID", "ID TM-D710G").
			Expect("AE", "AE C1234567,0")

		reply, err := mock.Transact("ID")
		require.NoError(t, err)
		assert.Equal(t, "ID TM-D710G", reply)

		reply, err = mock.Transact("AE")
		require.NoError(t, err)
		assert.Equal(t, "AE C1234567,0", reply)

		assert.Equal(t, 0, mock.Pending())
		assert.Equal(t, []string{"ID", "AE"}, mock.Requests())
	})

	t.Run("Out Of Order Request", func(t *testing.T) {
		mock := NewMockTransport(Exchange{Request: "FO 0", Reply: "FO 0,..."})

		_, err := mock.Transact("FO 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `expected request "FO 0"`)
	})

	t.Run("Scripted Failure", func(t *testing.T) {
		mock := NewMockTransport().ExpectError("MU", ErrTimeout)

		_, err := mock.Transact("MU")
		assert.True(t, errors.Is(err, ErrTimeout))
	})
}

func TestMockTransportHandlers(t *testing.T) {
	mock := NewMockTransport()
	mock.Handle("sq", func(line string) (string, error) {
		return line, nil
	})

	reply, err := mock.Transact("SQ 0,0A")
	require.NoError(t, err)
	assert.Equal(t, "SQ 0,0A", reply)

	_, err = mock.Transact("PC 0")
	assert.Error(t, err, "no handler for PC")

	require.NoError(t, mock.Close())
	_, err = mock.Transact("SQ 0")
	assert.Equal(t, ErrClosed, err)
}
