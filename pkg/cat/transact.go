package cat

import (
	"strings"

	"github.com/dougsko/tm710/pkg/logging"
)

// Fields is the comma-separated payload of a reply, without the opcode
type Fields []string

// Raw joins the fields back into wire form
func (f Fields) Raw() string {
	return strings.Join(f, ",")
}

// Transact sends one opcode with optional arguments and returns the
// payload of the echoed reply. Nothing is retried: the link has no way to
// resynchronise a half-finished exchange.
func (r *Radio) Transact(opcode, args string) (Fields, error) {
	request := opcode
	if args != "" {
		request = opcode + " " + args
	}

	raw, err := r.transport.Transact(request)
	if err != nil {
		logging.Debug("cat", "transport failure", map[string]interface{}{"request": request, "error": err})
		return nil, &TransportError{Request: request, Err: err}
	}
	reply := printable(raw)
	logging.Debugf("cat", "%q -> %q", request, reply)

	return parseReply(opcode, request, reply)
}

// Raw sends a line verbatim and returns the cleaned reply. Only the radio's
// error markers are interpreted.
func (r *Radio) Raw(line string) (string, error) {
	line = strings.TrimSpace(line)
	raw, err := r.transport.Transact(line)
	if err != nil {
		return "", &TransportError{Request: line, Err: err}
	}
	reply := printable(raw)
	switch reply {
	case "?":
		return "", &ProtocolError{Kind: Rejected, Request: line, Reply: reply}
	case "N":
		return "", &ProtocolError{Kind: NotAvailable, Request: line, Reply: reply}
	}
	return reply, nil
}

func parseReply(opcode, request, reply string) (Fields, error) {
	switch reply {
	case "N":
		return nil, &ProtocolError{Kind: NotAvailable, Request: request, Reply: reply}
	case "?":
		return nil, &ProtocolError{Kind: Rejected, Request: request, Reply: reply}
	}

	if reply == opcode {
		return Fields{}, nil
	}
	if !strings.HasPrefix(reply, opcode+" ") {
		return nil, &ProtocolError{Kind: UnexpectedReply, Request: request, Reply: reply}
	}
	return Fields(strings.Split(reply[len(opcode)+1:], ",")), nil
}

// printable drops every byte outside printable ASCII, which also removes
// the terminator and any line noise.
func printable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 0x20 && c < 0x7f {
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}
