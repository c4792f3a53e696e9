package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/dougsko/tm710/pkg/logging"
	"github.com/dougsko/tm710/pkg/protocol"
	"github.com/dougsko/tm710/pkg/transport"
)

// JournaledTransport records every exchange of the wrapped transport. A
// journal write failure is logged and never fails the exchange.
type JournaledTransport struct {
	inner transport.Transport
	store *JournalStore
	now   func() time.Time
}

// NewJournaledTransport wraps inner so that each exchange is written to store
func NewJournaledTransport(inner transport.Transport, store *JournalStore) *JournaledTransport {
	return &JournaledTransport{inner: inner, store: store, now: time.Now}
}

// Transact forwards line to the wrapped transport and journals the result
func (j *JournaledTransport) Transact(line string) (string, error) {
	start := j.now()
	reply, err := j.inner.Transact(line)

	entry := protocol.JournalEntry{
		Timestamp:  start,
		Opcode:     opcode(line),
		Request:    line,
		Reply:      strings.TrimRight(reply, "\r\n"),
		DurationMS: j.now().Sub(start).Milliseconds(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if _, jerr := j.store.Record(entry); jerr != nil {
		logging.Warn("storage", fmt.Sprintf("journal write failed for %q: %v", line, jerr))
	}

	return reply, err
}

// Close closes the wrapped transport. The store is owned by the caller.
func (j *JournaledTransport) Close() error {
	return j.inner.Close()
}

func opcode(line string) string {
	line = strings.TrimSpace(line)
	if i := strings.IndexByte(line, ' '); i >= 0 {
		line = line[:i]
	}
	return strings.ToUpper(line)
}
