package link

import (
	"time"

	"github.com/moffa90/go-iec101/protocol"
)

// Direction tells whether a frame was written or read.
type Direction string

const (
	// Transmit marks a frame written to the transport
	Transmit Direction = "tx"

	// Receive marks a frame decoded from the transport
	Receive Direction = "rx"
)

// Event describes one frame crossing the connection.
// Passed to FrameCallback.
type Event struct {
	// Direction is Transmit or Receive
	Direction Direction

	// Frame is the frame written or decoded
	Frame protocol.Frame

	// Time is when the frame was written or completed
	Time time.Time
}

// FrameCallback is called for every frame sent or received.
// Implementations should return quickly; they run on the caller's goroutine.
type FrameCallback func(Event)

// Logger is an optional logging interface that can be provided to the connection.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	conn := link.New(port, link.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
