package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dougsko/tm710/pkg/protocol"
)

func fakeDaemon(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/command", func(w http.ResponseWriter, r *http.Request) {
		var cmd protocol.Command
		err := json.NewDecoder(r.Body).Decode(&cmd)
		if err != nil || cmd.Command == "set squelch B 32" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(protocol.Response{Error: "invalid squelch", ErrorKind: protocol.KindValidation})
			return
		}
		json.NewEncoder(w).Encode(protocol.NewSuccessResponse([]string{"echo " + cmd.Command}))
	})

	mux.HandleFunc("/api/v1/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(protocol.Status{Device: "/dev/ttyUSB0", BaudRate: 57600, Model: "TM-D710G"})
	})

	mux.HandleFunc("/api/v1/journal", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "2" {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(protocol.Response{Error: "journal disabled"})
			return
		}
		json.NewEncoder(w).Encode([]protocol.JournalEntry{{ID: 2, Request: "ID"}, {ID: 1, Request: "AE"}})
	})

	upgrader := websocket.Upgrader{}
	mux.HandleFunc("/api/v1/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			conn.WriteJSON(protocol.NewSuccessResponse([]string{strings.ToUpper(string(data))}))
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPClient(t *testing.T) {
	server := fakeDaemon(t)
	c := NewHTTPClient(server.URL+"/", time.Second)

	t.Run("Command", func(t *testing.T) {
		resp, err := c.SendCommand("get A freq")
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, []string{"echo get A freq"}, resp.Lines)
	})

	t.Run("Command Failure Is A Response", func(t *testing.T) {
		resp, err := c.SendCommand("set squelch B 32")
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, protocol.KindValidation, resp.ErrorKind)
	})

	t.Run("Status", func(t *testing.T) {
		status, err := c.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "TM-D710G", status.Model)
		assert.NoError(t, c.Ping())
	})

	t.Run("Journal", func(t *testing.T) {
		entries, err := c.GetJournal(2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "ID", entries[0].Request)

		_, err = c.GetJournal(0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "journal disabled")
	})
}

func TestHTTPClientUnreachable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.SendCommand("get info")
	assert.Error(t, err)
	assert.Error(t, c.Ping())
}

func TestSession(t *testing.T) {
	server := fakeDaemon(t)

	s, err := Dial(server.URL)
	require.NoError(t, err)
	defer s.Close()

	for _, line := range []string{"get a", "get b"} {
		resp, err := s.SendCommand(line)
		require.NoError(t, err)
		assert.Equal(t, []string{strings.ToUpper(line)}, resp.Lines)
	}
}
