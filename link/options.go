package link

import (
	"time"

	"github.com/moffa90/go-iec101/metrics"
	"github.com/moffa90/go-iec101/protocol"
)

// Config holds the connection configuration.
type Config struct {
	// FrameCallback is called for every frame written or decoded (optional)
	FrameCallback FrameCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// Metrics receives frame and error counters (optional)
	Metrics *metrics.Link

	// AddressSize is the width of the link address field
	AddressSize protocol.AddressSize

	// ReadTimeout bounds the wait for one frame; zero waits forever
	ReadTimeout time.Duration

	// Retries is the number of retransmissions of a request without answer
	Retries int

	// ReadBufferSize is the size of a single transport read
	ReadBufferSize int
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		AddressSize:    protocol.DefaultAddressSize,
		ReadTimeout:    time.Second,
		Retries:        3,
		ReadBufferSize: 261, // largest variable frame with a one octet address
	}
}

// Option is a functional option for configuring the Conn.
type Option func(*Config)

// WithFrameCallback sets a callback invoked for every frame sent or received.
//
// Example:
//
//	conn := link.New(port,
//	    link.WithFrameCallback(func(e link.Event) {
//	        fmt.Printf("%s %v\n", e.Direction, e.Frame)
//	    }),
//	)
func WithFrameCallback(callback FrameCallback) Option {
	return func(c *Config) {
		c.FrameCallback = callback
	}
}

// WithLogger sets a logger for the connection.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics sets the Prometheus counters updated by the connection.
func WithMetrics(m *metrics.Link) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithAddressSize sets the link address width (1 or 2 octets).
// Unsupported sizes are ignored.
func WithAddressSize(size protocol.AddressSize) Option {
	return func(c *Config) {
		if size.Valid() {
			c.AddressSize = size
		}
	}
}

// WithTimeout sets the time to wait for a frame.
//
// Example:
//
//	conn := link.New(port, link.WithTimeout(500*time.Millisecond))
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout >= 0 {
			c.ReadTimeout = timeout
		}
	}
}

// WithRetries sets the number of retransmissions for unanswered requests.
func WithRetries(retries int) Option {
	return func(c *Config) {
		if retries >= 0 {
			c.Retries = retries
		}
	}
}

// WithReadBufferSize sets the size of a single transport read.
func WithReadBufferSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.ReadBufferSize = size
		}
	}
}
