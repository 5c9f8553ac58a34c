package trace

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxLineLength bounds a single capture line, in characters.
const MaxLineLength = 64 * 1024

// Parse parses a capture file from the given path.
//
// Example:
//
//	c, err := trace.Parse("line.trace")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d records, %d octets\n", len(c.Records), c.Len())
func Parse(path string) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader parses a capture from any io.Reader.
// An input without any records is not an error.
func ParseReader(r io.Reader) (*Capture, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)

	c := &Capture{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++

		rec, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if !ok {
			continue
		}

		rec.Line = lineNum
		c.Records = append(c.Records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read capture: %w", err)
	}

	return c, nil
}

// parseLine parses one capture line. ok is false for blank and comment lines.
func parseLine(line string) (Record, bool, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Record{}, false, nil
	}

	var rec Record
	rec.Direction, line = splitDirection(line)
	if line == "" {
		return Record{}, false, fmt.Errorf("%s without data", rec.Direction)
	}

	for _, field := range strings.Fields(line) {
		if len(field)%2 != 0 {
			return Record{}, false, fmt.Errorf("odd number of hex digits in %q", field)
		}
		data, err := hex.DecodeString(field)
		if err != nil {
			return Record{}, false, fmt.Errorf("invalid hex data: %w", err)
		}
		rec.Data = append(rec.Data, data...)
	}

	return rec, true, nil
}

// splitDirection strips an RX or TX prefix, optionally followed by ':'.
func splitDirection(line string) (Direction, string) {
	if len(line) < 2 {
		return Unknown, line
	}

	var dir Direction
	switch strings.ToUpper(line[:2]) {
	case "RX":
		dir = Receive
	case "TX":
		dir = Transmit
	default:
		return Unknown, line
	}

	rest := line[2:]
	if strings.HasPrefix(rest, ":") {
		rest = rest[1:]
	} else if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return Unknown, line
	}
	return dir, strings.TrimSpace(rest)
}
