package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/moffa90/go-iec101/protocol"
)

// Conn reads and writes link layer frames over a byte stream.
// It owns the resynchronization the codec leaves to its caller: noise
// between frames is skipped and a rejected frame is rescanned from the
// octet after its start octet.
//
// A Conn serves one serial line and is not safe for concurrent use.
type Conn struct {
	device io.ReadWriter
	config Config
	codec  *protocol.Codec

	readBuf []byte
	pending []byte // read but not yet fed to the codec
	attempt []byte // fed to the codec for the frame in progress
}

// deadliner is implemented by transports that support read deadlines, such as net.Conn.
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// New creates a new Conn with the given device and options.
// The device must implement io.ReadWriter; a serial port, a TCP
// terminal server connection or a pipe all work.
//
// Example:
//
//	port, _ := serial.OpenPort(&serial.Config{Name: "/dev/ttyUSB0", Baud: 9600})
//	conn := link.New(port,
//	    link.WithTimeout(time.Second),
//	    link.WithRetries(3),
//	)
func New(device io.ReadWriter, opts ...Option) *Conn {
	if device == nil {
		panic("device cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Conn{
		device:  device,
		config:  cfg,
		codec:   protocol.NewCodec(protocol.WithAddressSize(cfg.AddressSize)),
		readBuf: make([]byte, cfg.ReadBufferSize),
	}
}

// AddressSize returns the configured link address width.
func (c *Conn) AddressSize() protocol.AddressSize {
	return c.config.AddressSize
}

// ReadFrame returns the next valid frame from the device.
//
// Bytes before a start octet are discarded. Frames rejected by the codec
// are logged and counted, then scanning resumes one octet after their start
// octet. Bytes following a frame are kept for the next call.
//
// ReadFrame returns ErrTimeout when no frame completes within the read
// timeout. Reads returning zero bytes count toward the timeout, as do read
// deadlines on transports that support them.
func (c *Conn) ReadFrame(ctx context.Context) (protocol.Frame, error) {
	var deadline time.Time
	if c.config.ReadTimeout > 0 {
		deadline = time.Now().Add(c.config.ReadTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}

	if dl, ok := c.device.(deadliner); ok && !deadline.IsZero() {
		_ = dl.SetReadDeadline(deadline)
		defer func() { _ = dl.SetReadDeadline(time.Time{}) }()
	}

	for {
		if f, ok := c.nextFrame(); ok {
			return f, nil
		}

		if err := ctx.Err(); err != nil {
			return protocol.Frame{}, fmt.Errorf("cancelled: %w", err)
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return protocol.Frame{}, c.timeout()
		}

		n, err := c.device.Read(c.readBuf)
		if n > 0 {
			c.pending = append(c.pending, c.readBuf[:n]...)
			c.config.Metrics.AddReceived(n)
		}
		if err == nil {
			continue
		}

		if f, ok := c.nextFrame(); ok {
			return f, nil
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return protocol.Frame{}, fmt.Errorf("cancelled: %w", ctxErr)
			}
			return protocol.Frame{}, c.timeout()
		}
		if errors.Is(err, io.EOF) && len(c.attempt) > 0 {
			return protocol.Frame{}, io.ErrUnexpectedEOF
		}
		return protocol.Frame{}, err
	}
}

// nextFrame feeds pending bytes to the codec until a frame decodes or the
// pending bytes run out.
func (c *Conn) nextFrame() (protocol.Frame, bool) {
	for len(c.pending) > 0 {
		if len(c.attempt) == 0 {
			i := indexStart(c.pending)
			if i < 0 {
				c.discard(len(c.pending))
				c.pending = c.pending[:0]
				return protocol.Frame{}, false
			}
			c.discard(i)
			c.pending = c.pending[i:]
		}

		n := c.codec.Decode(c.pending)
		c.attempt = append(c.attempt, c.pending[:n]...)
		c.pending = c.pending[n:]

		switch c.codec.Status() {
		case protocol.NeedMoreData:
			return protocol.Frame{}, false

		case protocol.NoError:
			f, _ := c.codec.Frame()
			c.restart()
			c.config.Metrics.ObserveReceived(f)
			c.logDebug("frame received", "frame", f.String())
			c.notify(Receive, f)
			return f, true

		default:
			err := c.codec.Err()
			c.config.Metrics.ObserveDecodeError(c.codec.Status())
			c.logError("frame rejected", "error", err, "bytes", fmt.Sprintf("% X", c.attempt))

			// Rescan everything after the failed start octet.
			rest := make([]byte, 0, len(c.attempt)-1+len(c.pending))
			rest = append(rest, c.attempt[1:]...)
			rest = append(rest, c.pending...)
			c.pending = rest
			c.restart()
			c.discard(1)
		}
	}
	return protocol.Frame{}, false
}

// WriteFrame encodes f with the configured address width and writes it.
func (c *Conn) WriteFrame(ctx context.Context, f protocol.Frame) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	raw, err := f.EncodeWithAddressSize(c.config.AddressSize)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	if _, err := c.device.Write(raw); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	c.config.Metrics.ObserveSent(f)
	c.logDebug("frame sent", "frame", f.String())
	c.notify(Transmit, f)
	return nil
}

// Exchange sends a primary frame and waits for the secondary answer of the
// addressed station. Unanswered or corrupted exchanges are retransmitted up
// to Retries times with the same control field, so the frame count bit is
// repeated as the protocol requires.
//
// Frames that expect no answer (send/no reply, broadcast) are written once
// and a zero Frame is returned.
func (c *Conn) Exchange(ctx context.Context, req protocol.Frame) (protocol.Frame, error) {
	p, ok := req.Control.Primary()
	if !ok {
		return protocol.Frame{}, &NotPrimaryError{Control: byte(req.Control)}
	}

	if !p.Function.ExpectsReply() || req.Address == c.config.AddressSize.Broadcast() {
		return protocol.Frame{}, c.WriteFrame(ctx, req)
	}

	var lastErr error
	attempts := c.config.Retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.config.Metrics.IncRetries()
			c.logInfo("retransmitting request",
				"address", req.Address,
				"function", p.Function.String(),
				"attempt", attempt+1,
			)
		}

		if err := c.WriteFrame(ctx, req); err != nil {
			return protocol.Frame{}, err
		}

		resp, err := c.awaitResponse(ctx, req.Address)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, ErrTimeout) {
			return protocol.Frame{}, err
		}
		lastErr = err
	}

	return protocol.Frame{}, &RetriesExhaustedError{
		Address:  req.Address,
		Attempts: attempts,
		Err:      lastErr,
	}
}

// awaitResponse reads until a secondary frame arrives.
// Primary frames, such as the echo of a two-wire line, are skipped.
func (c *Conn) awaitResponse(ctx context.Context, address uint16) (protocol.Frame, error) {
	for {
		f, err := c.ReadFrame(ctx)
		if err != nil {
			return protocol.Frame{}, err
		}
		if f.IsPrimary() {
			c.logDebug("skipping primary frame while awaiting answer", "frame", f.String())
			continue
		}
		if f.Address != address {
			return f, &UnexpectedResponseError{Expected: address, Actual: f.Address}
		}
		return f, nil
	}
}

// Reset drops buffered bytes and any partially decoded frame.
func (c *Conn) Reset() {
	c.pending = c.pending[:0]
	c.restart()
}

// restart prepares the codec for the next frame.
func (c *Conn) restart() {
	c.codec.Reset()
	c.attempt = c.attempt[:0]
}

func (c *Conn) timeout() error {
	c.config.Metrics.IncTimeouts()
	if len(c.attempt) > 0 {
		c.logDebug("timeout with partial frame", "bytes", fmt.Sprintf("% X", c.attempt))
	}
	return ErrTimeout
}

func (c *Conn) discard(n int) {
	if n <= 0 {
		return
	}
	c.config.Metrics.AddDiscarded(n)
	c.logDebug("discarded bytes", "count", n)
}

// indexStart returns the index of the first start octet in p, or -1.
func indexStart(p []byte) int {
	for i, b := range p {
		if b == protocol.StartFixed || b == protocol.StartVariable {
			return i
		}
	}
	return -1
}

// notify calls the frame callback if configured.
func (c *Conn) notify(dir Direction, f protocol.Frame) {
	if c.config.FrameCallback != nil {
		c.config.FrameCallback(Event{Direction: dir, Frame: f, Time: time.Now()})
	}
}

// logDebug logs a debug message if a logger is configured.
func (c *Conn) logDebug(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (c *Conn) logInfo(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (c *Conn) logError(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Error(msg, keysAndValues...)
	}
}
