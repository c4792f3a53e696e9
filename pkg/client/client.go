package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dougsko/tm710/pkg/protocol"
)

// HTTPClient talks to a running tm710d
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for the daemon at baseURL, e.g.
// "http://127.0.0.1:8710"
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SendCommand runs one command line on the daemon. A command that fails on
// the radio is returned as a Response with Success false, not as an error.
func (c *HTTPClient) SendCommand(line string) (*protocol.Response, error) {
	body, err := json.Marshal(protocol.Command{Command: line})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(c.baseURL+"/api/v1/command", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp)
}

// GetStatus gets the current daemon status
func (c *HTTPClient) GetStatus() (*protocol.Status, error) {
	var status protocol.Status
	if err := c.getJSON("/api/v1/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetJournal gets the most recent journal entries
func (c *HTTPClient) GetJournal(limit int) ([]protocol.JournalEntry, error) {
	path := "/api/v1/journal"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var entries []protocol.JournalEntry
	if err := c.getJSON(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Ping tests the connection
func (c *HTTPClient) Ping() error {
	_, err := c.GetStatus()
	return err
}

func (c *HTTPClient) getJSON(path string, out interface{}) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r, err := decodeResponse(resp)
		if err != nil {
			return err
		}
		return fmt.Errorf("daemon error: %s", r.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	return nil
}

func decodeResponse(resp *http.Response) (*protocol.Response, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var response protocol.Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("parse error (HTTP %d): %w", resp.StatusCode, err)
	}
	return &response, nil
}

// Session is a websocket connection to the daemon's command console
type Session struct {
	conn *websocket.Conn
}

// Dial opens a command console session. baseURL may use http or ws schemes.
func Dial(baseURL string) (*Session, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/api/v1/ws")
	if err != nil {
		return nil, fmt.Errorf("invalid daemon URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return &Session{conn: conn}, nil
}

// SendCommand sends one command line and waits for its response
func (s *Session) SendCommand(line string) (*protocol.Response, error) {
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
		return nil, fmt.Errorf("send error: %w", err)
	}

	var response protocol.Response
	if err := s.conn.ReadJSON(&response); err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}
	return &response, nil
}

// Close closes the session
func (s *Session) Close() error {
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}
