package cat

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError wraps a failure of the serial link itself: the port is
// gone, the write failed, or no reply arrived before the timeout.
type TransportError struct {
	Request string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("no response from radio to %q: %v", e.Request, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolErrorKind classifies a reply the codec could not accept
type ProtocolErrorKind int

const (
	// NotAvailable is the radio's "N" reply
	NotAvailable ProtocolErrorKind = iota
	// Rejected is the radio's "?" reply
	Rejected
	// UnexpectedReply is a reply that does not echo the request opcode
	UnexpectedReply
	// MalformedReply is an echoed reply whose fields cannot be decoded
	MalformedReply
)

func (k ProtocolErrorKind) String() string {
	switch k {
	case NotAvailable:
		return "not available"
	case Rejected:
		return "rejected"
	case UnexpectedReply:
		return "unexpected reply"
	case MalformedReply:
		return "malformed reply"
	default:
		return fmt.Sprintf("ProtocolErrorKind(%d)", int(k))
	}
}

// ProtocolError carries the raw reply for diagnosis
type ProtocolError struct {
	Kind    ProtocolErrorKind
	Request string
	Reply   string
	Detail  string
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("radio %s for %q", e.Kind, e.Request)
	if e.Reply != "" {
		msg += fmt.Sprintf(" (reply %q)", e.Reply)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ValidationError reports a user-supplied value outside its domain. It is
// always returned before any radio I/O for the step that rejected it.
type ValidationError struct {
	Field string
	Value string
	Valid string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s", e.Field)
	if e.Value != "" {
		fmt.Fprintf(&b, " %q", e.Value)
	}
	if e.Valid != "" {
		fmt.Fprintf(&b, ": must be %s", e.Valid)
	}
	return b.String()
}

// StepError names the sub-step of a composite operation that failed.
// Sub-steps before it have already taken effect on the radio.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// EmptyChannelError is returned when a memory channel is selected that
// holds no data. Reading an empty channel is not an error.
type EmptyChannelError struct {
	Channel int
}

func (e *EmptyChannelError) Error() string {
	return fmt.Sprintf("Memory %d is empty", e.Channel)
}

func step(name string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: name, Err: err}
}

func malformed(request, reply, format string, args ...interface{}) error {
	return &ProtocolError{
		Kind:    MalformedReply,
		Request: request,
		Reply:   reply,
		Detail:  fmt.Sprintf(format, args...),
	}
}

// IsNotAvailable reports whether err is the radio's "N" reply
func IsNotAvailable(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) && pe.Kind == NotAvailable
}

// IsValidation reports whether err was raised before contacting the radio
// because of a bad user-supplied value
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
