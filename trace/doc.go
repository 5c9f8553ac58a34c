// Package trace reads line captures of IEC 60870-5-101 traffic.
//
// # Capture Format
//
// A capture is a text file with one chunk of line traffic per line, written
// as hex octets. Octets may be separated by spaces or written contiguously.
// An optional RX or TX prefix records the direction of the chunk:
//
//	# polling station 1
//	TX 10 5B 01 5C 16
//	RX: 10 09 01 0A 16
//	685353680801...
//
// Blank lines are skipped, and so is everything after a '#'.
//
// # Usage
//
//	c, err := trace.Parse("line.trace")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, rec := range c.Records {
//	    fmt.Printf("line %d %s % X\n", rec.Line, rec.Direction, rec.Data)
//	}
//
// Stream concatenates the records of one direction so they can be replayed
// through a link.Conn:
//
//	conn := link.New(readWriter{bytes.NewReader(c.Stream(trace.Receive))})
package trace
