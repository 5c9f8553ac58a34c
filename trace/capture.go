package trace

import "strings"

// Direction is the direction of a captured chunk.
type Direction int

const (
	// Unknown marks a record without an RX or TX prefix.
	Unknown Direction = iota
	// Receive marks traffic received by the capturing station.
	Receive
	// Transmit marks traffic sent by the capturing station.
	Transmit
)

func (d Direction) String() string {
	switch d {
	case Receive:
		return "RX"
	case Transmit:
		return "TX"
	default:
		return "--"
	}
}

// ParseDirection maps "rx", "tx" and "any" (case insensitive) to a Direction.
// "any" and the empty string map to Unknown, which Stream treats as all directions.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(s) {
	case "RX":
		return Receive, true
	case "TX":
		return Transmit, true
	case "", "ANY":
		return Unknown, true
	}
	return Unknown, false
}

// Capture is a parsed trace file.
type Capture struct {
	// Records holds the non-empty lines in file order
	Records []Record
}

// Record is one captured chunk.
type Record struct {
	// Line is the 1-based line number in the source
	Line int

	// Direction is taken from the RX/TX prefix, Unknown if absent
	Direction Direction

	// Data holds the decoded octets
	Data []byte
}

// Stream concatenates the data of all records with direction dir.
// Unknown selects every record.
func (c *Capture) Stream(dir Direction) []byte {
	var out []byte
	for _, rec := range c.Records {
		if dir == Unknown || rec.Direction == dir {
			out = append(out, rec.Data...)
		}
	}
	return out
}

// Len returns the total number of captured octets.
func (c *Capture) Len() int {
	n := 0
	for _, rec := range c.Records {
		n += len(rec.Data)
	}
	return n
}
