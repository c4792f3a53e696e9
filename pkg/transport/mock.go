package transport

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dougsko/tm710/pkg/logging"
)

// Exchange is one scripted request and the reply the mock returns for it
type Exchange struct {
	Request string
	Reply   string
	Err     error
}

// Handler answers a request that is not covered by the script
type Handler func(line string) (string, error)

// MockTransport implements Transport for testing. Scripted exchanges are
// consumed in order; requests beyond the script go to the handler
// registered for their opcode.
type MockTransport struct {
	mutex sync.Mutex

	script   []Exchange
	handlers map[string]Handler
	requests []string
	closed   bool
}

// NewMockTransport creates a mock transport with an optional script
func NewMockTransport(script ...Exchange) *MockTransport {
	return &MockTransport{
		script:   script,
		handlers: make(map[string]Handler),
	}
}

// Expect appends an exchange to the script
func (m *MockTransport) Expect(request, reply string) *MockTransport {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.script = append(m.script, Exchange{Request: request, Reply: reply})
	return m
}

// ExpectError appends an exchange that fails at the transport level
func (m *MockTransport) ExpectError(request string, err error) *MockTransport {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.script = append(m.script, Exchange{Request: request, Err: err})
	return m
}

// Handle registers a handler for every request starting with opcode
func (m *MockTransport) Handle(opcode string, h Handler) *MockTransport {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.handlers[strings.ToUpper(opcode)] = h
	return m
}

// Transact returns the next scripted reply or the handler's answer
func (m *MockTransport) Transact(line string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return "", ErrClosed
	}
	m.requests = append(m.requests, line)
	logging.Debugf("serial", "mock TX %q", line)

	if len(m.script) > 0 {
		next := m.script[0]
		if next.Request != line {
			return "", fmt.Errorf("mock: expected request %q, got %q", next.Request, line)
		}
		m.script = m.script[1:]
		if next.Err != nil {
			return "", next.Err
		}
		return next.Reply, nil
	}

	opcode := line
	if i := strings.IndexByte(line, ' '); i >= 0 {
		opcode = line[:i]
	}
	if h, ok := m.handlers[strings.ToUpper(opcode)]; ok {
		return h(line)
	}

	return "", fmt.Errorf("mock: no reply for request %q", line)
}

// Requests returns every line sent so far, in order
func (m *MockTransport) Requests() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

// Pending returns the number of scripted exchanges not yet consumed
func (m *MockTransport) Pending() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.script)
}

// Reset clears the recorded requests
func (m *MockTransport) Reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests = nil
}

// Close marks the transport closed
func (m *MockTransport) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	return nil
}
