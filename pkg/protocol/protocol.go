package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dougsko/tm710/pkg/cat"
)

// Command is one command line sent to the daemon
type Command struct {
	Command string `json:"command"`
}

// Response is the daemon's reply to a command
type Response struct {
	Success   bool                   `json:"success"`
	Lines     []string               `json:"lines,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     string                 `json:"error,omitempty"`
	ErrorKind string                 `json:"error_kind,omitempty"`
}

// JournalEntry is one recorded radio transaction
type JournalEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Opcode     string    `json:"opcode"`
	Request    string    `json:"request"`
	Reply      string    `json:"reply"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

// Status represents the current daemon status
type Status struct {
	Device    string    `json:"device"`
	BaudRate  int       `json:"baud_rate"`
	Model     string    `json:"model,omitempty"`
	Sides     []string  `json:"sides,omitempty"`
	Consoles  int       `json:"consoles"`
	Uptime    string    `json:"uptime"`
	StartTime time.Time `json:"start_time"`
	Version   string    `json:"version"`
}

// Error kinds reported in Response.ErrorKind
const (
	KindValidation = "validation"
	KindTransport  = "transport"
	KindProtocol   = "protocol"
	KindEmpty      = "empty"
	KindInternal   = "internal"
)

// ParseCommand accepts either a JSON Command object or a plain command
// line such as "get A freq"
func ParseCommand(text string) (*Command, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") {
		var cmd Command
		if err := json.Unmarshal([]byte(text), &cmd); err != nil {
			return nil, fmt.Errorf("invalid command object: %w", err)
		}
		text = strings.TrimSpace(cmd.Command)
	}
	if text == "" {
		return nil, fmt.Errorf("empty command")
	}
	return &Command{Command: text}, nil
}

// Args splits the command line into tokens
func (c *Command) Args() []string {
	return strings.Fields(c.Command)
}

// String converts a Response to a JSON string
func (r *Response) String() string {
	data, _ := json.Marshal(r)
	return string(data)
}

// NewSuccessResponse creates a successful response
func NewSuccessResponse(lines []string) *Response {
	return &Response{
		Success: true,
		Lines:   lines,
	}
}

// NewErrorResponse creates an error response. Lines produced before the
// failure are kept.
func NewErrorResponse(err error, lines []string) *Response {
	return &Response{
		Success:   false,
		Lines:     lines,
		Error:     err.Error(),
		ErrorKind: ErrorKind(err),
	}
}

// ErrorKind classifies an error from the radio layer
func ErrorKind(err error) string {
	var (
		validation *cat.ValidationError
		empty      *cat.EmptyChannelError
		transport  *cat.TransportError
		protocol   *cat.ProtocolError
	)
	switch {
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &empty):
		return KindEmpty
	case errors.As(err, &transport):
		return KindTransport
	case errors.As(err, &protocol):
		return KindProtocol
	}
	return KindInternal
}
