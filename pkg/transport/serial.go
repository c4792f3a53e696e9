package transport

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/term"

	"github.com/dougsko/tm710/pkg/logging"
)

// SerialConfig describes the serial link to the radio
type SerialConfig struct {
	Device   string        // Serial device path (e.g., /dev/ttyUSB0)
	BaudRate int           // Serial baud rate, 0 leaves the port speed alone
	Timeout  time.Duration // Reply timeout per transaction
}

// SerialTransport talks to the radio over a raw-mode serial port
type SerialTransport struct {
	config SerialConfig
	port   *term.Term
	mutex  sync.Mutex
	closed bool
}

// OpenSerial opens the serial device in raw mode at the configured speed
func OpenSerial(config SerialConfig) (*SerialTransport, error) {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	port, err := term.Open(config.Device, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", config.Device, err)
	}

	if config.BaudRate != 0 {
		if err := port.SetSpeed(config.BaudRate); err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to set speed %d on %s: %w", config.BaudRate, config.Device, err)
		}
	}

	// Short per-read timeout; the overall reply deadline is enforced in readLine
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", config.Device, err)
	}

	logging.Info("serial", "Opened serial port", map[string]interface{}{
		"device": config.Device,
		"baud":   config.BaudRate,
	})

	return &SerialTransport{config: config, port: port}, nil
}

// Transact writes line followed by a carriage return and reads one reply
func (s *SerialTransport) Transact(line string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	// Drop anything left over from an earlier timed-out exchange
	if err := s.port.Flush(); err != nil {
		logging.Warnf("serial", "Failed to flush input: %v", err)
	}

	logging.Debugf("serial", "TX %q", line)
	out := append([]byte(line), Terminator)
	n, err := s.port.Write(out)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", s.config.Device, err)
	}
	if n != len(out) {
		return "", fmt.Errorf("write %s: short write (%d of %d bytes)", s.config.Device, n, len(out))
	}

	reply, err := s.readLine()
	if err != nil {
		return "", err
	}
	logging.Debugf("serial", "RX %q", reply)
	return reply, nil
}

func (s *SerialTransport) readLine() (string, error) {
	var buf bytes.Buffer
	one := make([]byte, 1)
	deadline := time.Now().Add(s.config.Timeout)

	for {
		if time.Now().After(deadline) {
			if buf.Len() > 0 {
				logging.Debugf("serial", "partial reply %q before timeout", buf.String())
			}
			return "", ErrTimeout
		}

		n, err := s.port.Read(one)
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("read %s: %w", s.config.Device, err)
		}
		if n == 0 {
			// VTIME expiry shows up as a zero-length read
			continue
		}

		if one[0] == Terminator {
			return buf.String(), nil
		}
		buf.WriteByte(one[0])
	}
}

// Close releases the serial port
func (s *SerialTransport) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	logging.Info("serial", "Closing serial port", map[string]interface{}{"device": s.config.Device})
	return s.port.Close()
}
