package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dougsko/tm710/pkg/client"
	"github.com/dougsko/tm710/pkg/config"
	"github.com/dougsko/tm710/pkg/protocol"
	"github.com/dougsko/tm710/pkg/transport"
)

// fakeRadio answers like a TM-D710G with both sides in VFO mode
func fakeRadio() *transport.MockTransport {
	side := func(line string) string {
		if len(line) < 4 {
			return "0"
		}
		return line[3:4]
	}
	return transport.NewMockTransport().
		Handle("ID", func(string) (string, error) { return "ID TM-D710G", nil }).
		Handle("VM", func(line string) (string, error) { return "VM " + side(line) + ",0", nil }).
		Handle("FO", func(line string) (string, error) {
			return "FO " + side(line) + ",0146520000,0,0,0,0,0,0,08,08,000,00000000,0", nil
		}).
		Handle("PC", func(line string) (string, error) { return "PC " + side(line) + ",0", nil }).
		Handle("SQ", func(line string) (string, error) { return "SQ " + side(line) + ",05", nil })
}

func newTestDaemon(t *testing.T, mock *transport.MockTransport, journal bool) (*Daemon, *httptest.Server) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.JournalEnabled = journal
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "journal.db")

	d, err := NewDaemon(cfg, mock)
	require.NoError(t, err)
	server := httptest.NewServer(d.router)
	t.Cleanup(func() {
		server.Close()
		d.Stop()
	})
	return d, server
}

func postCommand(t *testing.T, url, line string) (int, protocol.Response) {
	t.Helper()
	resp, err := http.Post(url+"/api/v1/command", "application/json",
		strings.NewReader(`{"command":"`+line+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var r protocol.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return resp.StatusCode, r
}

func TestCommandEndpoint(t *testing.T) {
	mock := fakeRadio()
	_, server := newTestDaemon(t, mock, false)

	t.Run("Success", func(t *testing.T) {
		code, resp := postCommand(t, server.URL, "get A freq")
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, resp.Success)
		assert.Equal(t, []string{"146.520 MHz"}, resp.Lines)
	})

	t.Run("Validation Is Bad Request", func(t *testing.T) {
		mock.Reset()
		code, resp := postCommand(t, server.URL, "set B squelch 32")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.False(t, resp.Success)
		assert.Equal(t, protocol.KindValidation, resp.ErrorKind)
		assert.Empty(t, mock.Requests())
	})

	t.Run("Memory Read In VFO Mode", func(t *testing.T) {
		code, resp := postCommand(t, server.URL, "get A memory")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, resp.Error, "VFO")
	})

	t.Run("Radio Failure Is Bad Gateway", func(t *testing.T) {
		code, resp := postCommand(t, server.URL, "get firmware")
		assert.Equal(t, http.StatusBadGateway, code)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("Malformed Body", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/api/v1/command", "application/json", strings.NewReader("{"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestStatusEndpoint(t *testing.T) {
	_, server := newTestDaemon(t, fakeRadio(), false)
	c := client.NewHTTPClient(server.URL, time.Second)

	status, err := c.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "TM-D710G", status.Model)
	assert.Equal(t, Version, status.Version)
	require.Len(t, status.Sides, 2)
	assert.True(t, strings.HasPrefix(status.Sides[0], "Side A: VFO"))
	assert.True(t, strings.HasPrefix(status.Sides[1], "Side B: VFO"))
}

func TestJournalEndpoint(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		_, server := newTestDaemon(t, fakeRadio(), false)
		resp, err := http.Get(server.URL + "/api/v1/journal")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("Records Transactions", func(t *testing.T) {
		_, server := newTestDaemon(t, fakeRadio(), true)
		c := client.NewHTTPClient(server.URL, time.Second)

		resp, err := c.SendCommand("get B power")
		require.NoError(t, err)
		require.True(t, resp.Success, resp.Error)

		entries, err := c.GetJournal(10)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, "PC", entries[0].Opcode)
		assert.Equal(t, "PC 1", entries[0].Request)
		assert.Equal(t, "PC 1,0", entries[0].Reply)

		bad, err := http.Get(server.URL + "/api/v1/journal?limit=x")
		require.NoError(t, err)
		bad.Body.Close()
		assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

		filtered, err := http.Get(server.URL + "/api/v1/journal?opcode=id")
		require.NoError(t, err)
		defer filtered.Body.Close()
		var none []protocol.JournalEntry
		require.NoError(t, json.NewDecoder(filtered.Body).Decode(&none))
		assert.Empty(t, none)

		statsResp, err := http.Get(server.URL + "/api/v1/journal/stats")
		require.NoError(t, err)
		defer statsResp.Body.Close()
		var stats struct {
			TotalTransactions int `json:"total_transactions"`
		}
		require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
		assert.Equal(t, 1, stats.TotalTransactions)
	})
}

func TestWebSocketConsole(t *testing.T) {
	_, server := newTestDaemon(t, fakeRadio(), false)

	s, err := client.Dial(server.URL)
	require.NoError(t, err)
	defer s.Close()

	resp, err := s.SendCommand("get squelch")
	require.NoError(t, err)
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, []string{"A: 5", "B: 5"}, resp.Lines)

	resp, err = s.SendCommand(`{"command":"get A power"}`)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	resp, err = s.SendCommand("bogus")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, protocol.KindValidation, resp.ErrorKind)
}

func TestStopClosesConsoles(t *testing.T) {
	mock := fakeRadio()
	d, err := NewDaemon(config.DefaultConfig(), mock)
	require.NoError(t, err)
	server := httptest.NewServer(d.router)
	defer server.Close()

	s, err := client.Dial(server.URL)
	require.NoError(t, err)
	defer s.Close()

	resp, err := s.SendCommand("get A power")
	require.NoError(t, err)
	require.True(t, resp.Success, resp.Error)

	status, err := client.NewHTTPClient(server.URL, time.Second).GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.Consoles)

	stopped := make(chan error, 1)
	go func() { stopped <- d.Stop() }()
	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked on an open console")
	}

	assert.Equal(t, 0, d.openConsoles())
	_, err = s.SendCommand("get A power")
	assert.Error(t, err)

	t.Run("Late Console Refused", func(t *testing.T) {
		late, err := client.Dial(server.URL)
		require.NoError(t, err)
		defer late.Close()
		_, err = late.SendCommand("get A power")
		assert.Error(t, err)
	})
}

func TestStopClosesRadio(t *testing.T) {
	mock := fakeRadio()
	cfg := config.DefaultConfig()
	d, err := NewDaemon(cfg, mock)
	require.NoError(t, err)

	require.NoError(t, d.Stop())
	_, err = mock.Transact("ID")
	assert.ErrorIs(t, err, transport.ErrClosed)
}
