package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
		Handle("PC", func(line string) (string, error) { return "PC " + side(line) + ",2", nil }).
		Handle("SQ", func(line string) (string, error) { return "SQ " + side(line) + ",05", nil })
}

type harness struct {
	configPath string
	radios     []*transport.MockTransport
}

func newHarness(t *testing.T, configYAML string) *harness {
	t.Helper()
	h := &harness{configPath: filepath.Join(t.TempDir(), "config.yaml")}
	if configYAML != "" {
		require.NoError(t, os.WriteFile(h.configPath, []byte(configYAML), 0644))
	}
	return h
}

func (h *harness) run(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	a := &app{
		stdout: &out,
		open: func(*config.Config) (transport.Transport, error) {
			radio := fakeRadio()
			h.radios = append(h.radios, radio)
			return radio, nil
		},
	}
	code = runWith(a, append([]string{"--config", h.configPath}, args...), &errOut)
	return code, out.String(), errOut.String()
}

func TestLocalCommands(t *testing.T) {
	h := newHarness(t, "")

	t.Run("Get Frequency", func(t *testing.T) {
		code, out, _ := h.run("get", "A", "freq")
		assert.Equal(t, 0, code)
		assert.Equal(t, "146.520 MHz\n", out)
	})

	t.Run("Noun First", func(t *testing.T) {
		code, out, _ := h.run("get", "power", "B")
		assert.Equal(t, 0, code)
		assert.Equal(t, "low\n", out)
	})

	t.Run("Raw", func(t *testing.T) {
		code, out, _ := h.run("raw", "ID")
		assert.Equal(t, 0, code)
		assert.Equal(t, "ID TM-D710G\n", out)
	})

	t.Run("Transport Closed After Command", func(t *testing.T) {
		last := h.radios[len(h.radios)-1]
		_, err := last.Transact("ID")
		assert.ErrorIs(t, err, transport.ErrClosed)
	})
}

func TestFailureExitStatus(t *testing.T) {
	h := newHarness(t, "")

	t.Run("Validation", func(t *testing.T) {
		code, out, stderr := h.run("set", "squelch", "B", "32")
		assert.Equal(t, 1, code)
		assert.Empty(t, out)
		assert.True(t, strings.HasPrefix(stderr, "tm710: invalid squelch"), stderr)
		assert.Equal(t, 1, strings.Count(stderr, "\n"))

		radio := h.radios[len(h.radios)-1]
		assert.Empty(t, radio.Requests())
	})

	t.Run("Radio Failure", func(t *testing.T) {
		code, _, stderr := h.run("get", "firmware")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "FV")
	})

	t.Run("Unknown Subcommand", func(t *testing.T) {
		code, _, stderr := h.run("tune", "A")
		assert.Equal(t, 1, code)
		assert.NotEmpty(t, stderr)
	})

	t.Run("Bad Flag Value", func(t *testing.T) {
		code, _, stderr := h.run("--baud", "1234", "get", "A")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "unsupported baud rate 1234")
	})
}

func TestVersion(t *testing.T) {
	h := newHarness(t, "radio:\n  baud_rate: 1\n")

	code, out, _ := h.run("version")
	assert.Equal(t, 0, code)
	assert.Equal(t, fmt.Sprintf("tm710 version %s (%s)\n", Version, Build), out)
}

func TestLocalHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	h := newHarness(t, fmt.Sprintf("storage:\n  journal_enabled: true\n  database_path: %s\n", dbPath))

	code, _, _ := h.run("get", "B", "power")
	require.Equal(t, 0, code)
	code, _, _ = h.run("get", "A", "squelch")
	require.Equal(t, 0, code)

	t.Run("Newest First", func(t *testing.T) {
		code, out, _ := h.run("history")
		assert.Equal(t, 0, code)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], `"SQ 0"`)
		assert.Contains(t, lines[0], "-> SQ 0,05")
		assert.Contains(t, lines[1], `"PC 1"`)
	})

	t.Run("Opcode Filter", func(t *testing.T) {
		code, out, _ := h.run("history", "--opcode", "pc")
		assert.Equal(t, 0, code)
		assert.Equal(t, 1, strings.Count(out, "\n"))
	})

	t.Run("Stats", func(t *testing.T) {
		code, out, _ := h.run("history", "--stats")
		assert.Equal(t, 0, code)
		assert.Contains(t, out, "Transactions: 2\n")
		assert.Contains(t, out, "Errors: 0\n")
	})
}

func fakeDaemon(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/command", func(w http.ResponseWriter, r *http.Request) {
		var cmd protocol.Command
		json.NewDecoder(r.Body).Decode(&cmd)
		switch cmd.Command {
		case "get A freq":
			json.NewEncoder(w).Encode(protocol.NewSuccessResponse([]string{"146.520 MHz"}))
		default:
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(protocol.Response{
				Lines:     []string{"Model TM-D710G"},
				Error:     "read firmware: timeout",
				ErrorKind: protocol.KindTransport,
			})
		}
	})
	mux.HandleFunc("/api/v1/journal", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]protocol.JournalEntry{
			{ID: 2, Opcode: "FO", Request: "FO 0", Error: "timeout"},
			{ID: 1, Opcode: "ID", Request: "ID", Reply: "ID TM-D710G"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRemote(t *testing.T) {
	server := fakeDaemon(t)
	h := newHarness(t, "")

	t.Run("Command", func(t *testing.T) {
		code, out, _ := h.run("--remote", server.URL, "get", "A", "freq")
		assert.Equal(t, 0, code)
		assert.Equal(t, "146.520 MHz\n", out)
		assert.Empty(t, h.radios, "remote commands never open the serial port")
	})

	t.Run("Partial Output Then Failure", func(t *testing.T) {
		code, out, stderr := h.run("--remote", server.URL, "get", "info")
		assert.Equal(t, 1, code)
		assert.Equal(t, "Model TM-D710G\n", out)
		assert.Equal(t, "tm710: read firmware: timeout\n", stderr)
	})

	t.Run("History", func(t *testing.T) {
		code, out, _ := h.run("--remote", server.URL, "history", "--errors")
		assert.Equal(t, 0, code)
		assert.Contains(t, out, "error: timeout")
		assert.Equal(t, 1, strings.Count(out, "\n"))
	})
}
