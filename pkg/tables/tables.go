package tables

import (
	"fmt"
	"strings"
)

// Table is an ordered, bidirectional mapping between a protocol index and
// a display label. Index i on the wire always maps to labels[i].
type Table struct {
	name   string
	labels []string
}

// NewTable creates a table from labels in protocol order
func NewTable(name string, labels ...string) Table {
	return Table{name: name, labels: labels}
}

// Name returns the table name used in error messages
func (t Table) Name() string {
	return t.name
}

// Len returns the number of entries
func (t Table) Len() int {
	return len(t.labels)
}

// Value returns the label at index i. An out-of-range index is a
// programming error and panics.
func (t Table) Value(i int) string {
	if i < 0 || i >= len(t.labels) {
		panic(fmt.Sprintf("tables: %s index %d out of range [0,%d)", t.name, i, len(t.labels)))
	}
	return t.labels[i]
}

// Lookup returns the label at index i, or false when i is out of range.
// Use this when the index comes from a radio reply.
func (t Table) Lookup(i int) (string, bool) {
	if i < 0 || i >= len(t.labels) {
		return "", false
	}
	return t.labels[i], true
}

// Index returns the protocol index for label (case-insensitive)
func (t Table) Index(label string) (int, bool) {
	label = strings.TrimSpace(label)
	for i, l := range t.labels {
		if strings.EqualFold(l, label) {
			return i, true
		}
	}
	return 0, false
}

// Labels returns a copy of all labels in protocol order
func (t Table) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

// String lists the valid labels, e.g. "{3, 5, 10}"
func (t Table) String() string {
	return "{" + strings.Join(t.labels, ", ") + "}"
}

// Step sizes in kHz. The wire code is a single hex digit (A = 100).
var Steps = NewTable("step", "5", "6.25", "8.33", "10", "12.5", "15", "20", "25", "30", "50", "100")

// Shifts are the repeater shift directions
var Shifts = NewTable("shift", "Simplex", "Up", "Down", "Split")

// ToneFrequencies is shared by the Tone and CTCSS fields. The 240.7 entry
// between 203.5 and 210.7 is what the radio lists; it is kept as-is.
var ToneFrequencies = NewTable("tone frequency",
	"67.0", "69.3", "71.9", "74.4", "77.0", "79.7", "82.5", "85.4",
	"88.5", "91.5", "94.8", "97.4", "100.0", "103.5", "107.2", "110.9",
	"114.8", "118.8", "123.0", "127.3", "131.8", "136.5", "141.3", "146.2",
	"151.4", "156.7", "162.2", "167.9", "173.8", "179.9", "186.2", "192.8",
	"203.5", "240.7", "210.7", "218.1", "225.7", "229.1", "233.6", "241.8",
	"250.3", "254.1",
)

// DCSCodes are the digital coded squelch codes
var DCSCodes = NewTable("DCS code",
	"023", "025", "026", "031", "032", "036", "043", "047",
	"051", "053", "054", "065", "071", "072", "073", "074",
	"114", "115", "116", "122", "125", "131", "132", "134",
	"143", "145", "152", "155", "156", "162", "165", "172",
	"174", "205", "212", "223", "225", "226", "243", "244",
	"245", "246", "251", "252", "255", "261", "263", "265",
	"266", "271", "274", "306", "311", "315", "325", "331",
	"332", "343", "346", "351", "356", "364", "365", "371",
	"411", "412", "413", "423", "431", "432", "445", "446",
	"452", "454", "455", "462", "464", "465", "466", "503",
	"506", "516", "523", "526", "532", "546", "565", "606",
	"612", "624", "627", "631", "632", "654", "662", "664",
	"703", "712", "723", "731", "732", "734", "743", "754",
)

// OnOff is the generic boolean table
var OnOff = NewTable("on/off", "off", "on")

// PowerLevels in protocol order
var PowerLevels = NewTable("power", "high", "medium", "low")

// Modes in protocol order
var Modes = NewTable("mode", "VFO", "MR", "CALL", "WX")

// ToneTypes selects which of the three tone flags of a channel is set
var ToneTypes = NewTable("tone type", "none", "tone", "ctcss", "dcs")

// Menu enumerations
var (
	Timeouts   = NewTable("timeout", "3", "5", "10")
	APOTimes   = NewTable("APO", "off", "30", "60", "90", "120", "180")
	DataSides  = NewTable("data side", "A", "B", "TXA-RXB", "TXB-RXA")
	DataSpeeds = NewTable("data speed", "1200", "9600")
	SQCSources = NewTable("SQC source", "off", "busy", "sql", "tx", "busy-tx", "sql-tx")
	Backlights = NewTable("backlight", "amber", "green")
)
