// Package transport carries single CAT request/response exchanges between
// the codec and the radio.
package transport

import (
	"errors"
	"time"
)

// Terminator ends every CAT request and reply
const Terminator = '\r'

// DefaultTimeout is the reply timeout when none is configured
const DefaultTimeout = 500 * time.Millisecond

// ErrTimeout is returned when no complete reply line arrives in time
var ErrTimeout = errors.New("timed out waiting for radio reply")

// ErrClosed is returned by a transport after Close
var ErrClosed = errors.New("transport closed")

// Transport sends one request line and returns one reply line. The line
// passed in and the line returned carry no terminator.
type Transport interface {
	Transact(line string) (string, error)
	Close() error
}
