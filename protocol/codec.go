package protocol

// Status classifies the progress of a Codec.
type Status int

const (
	// NeedMoreData means the frame is incomplete; feed more bytes
	NeedMoreData Status = iota

	// NoError means a complete, valid frame was decoded
	NoError

	// BadFormat means a start, length or end octet was invalid
	BadFormat

	// CheckError means the frame was well formed but the checksum did not match
	CheckError
)

func (s Status) String() string {
	switch s {
	case NeedMoreData:
		return "need more data"
	case NoError:
		return "no error"
	case BadFormat:
		return "bad format"
	case CheckError:
		return "check error"
	default:
		return "unknown"
	}
}

// Done reports whether s is terminal.
func (s Status) Done() bool {
	return s != NeedMoreData
}

type state int

const (
	stateStart state = iota
	stateLength0
	stateLength1
	stateRepeatedStart
	stateControl
	stateAddress
	statePayload
	stateChecksum
	stateEnd
	stateDone
)

// Codec incrementally decodes a single link layer frame.
//
// Bytes may be supplied in chunks of any size across several Decode calls.
// Once the status is terminal the codec consumes nothing more until Reset.
//
// A Codec is not safe for concurrent use.
type Codec struct {
	addressSize AddressSize

	state  state
	status Status
	err    *ParseError
	offset int

	fixed       bool
	length      [2]byte
	control     ControlField
	address     uint16
	addressRead int
	payload     []byte
	checksum    byte
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithAddressSize sets the width of the address field.
// Unsupported sizes are ignored.
func WithAddressSize(size AddressSize) CodecOption {
	return func(c *Codec) {
		if size.Valid() {
			c.addressSize = size
		}
	}
}

// NewCodec creates a codec waiting for a start octet.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{addressSize: DefaultAddressSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddressSize returns the configured address width.
func (c *Codec) AddressSize() AddressSize {
	return c.addressSize
}

// Decode feeds p into the state machine and returns the number of bytes
// consumed. Fewer than len(p) bytes are consumed only when the frame
// completes (or fails) before the end of p; the remainder belongs to the
// next frame.
func (c *Codec) Decode(p []byte) int {
	for i, b := range p {
		if c.state == stateDone {
			return i
		}
		c.step(b)
	}
	return len(p)
}

// Status returns the current classification.
func (c *Codec) Status() Status {
	return c.status
}

// Err returns a *ParseError once the status is BadFormat or CheckError,
// nil otherwise.
func (c *Codec) Err() error {
	if c.err == nil {
		return nil
	}
	return c.err
}

// Frame returns the decoded frame. It fails unless the status is NoError.
func (c *Codec) Frame() (Frame, error) {
	switch c.status {
	case NoError:
	case NeedMoreData:
		return Frame{}, ErrNeedMoreData
	default:
		return Frame{}, c.err
	}

	f := Frame{Control: c.control, Address: c.address}
	if !c.fixed {
		f.Payload = append([]byte(nil), c.payload...)
	}
	return f, nil
}

// Reset discards any partial or completed frame and waits for a start octet.
// The payload buffer is kept for reuse.
func (c *Codec) Reset() {
	payload := c.payload[:0]
	*c = Codec{addressSize: c.addressSize, payload: payload}
}

// step consumes one byte.
func (c *Codec) step(b byte) {
	offset := c.offset
	c.offset++

	switch c.state {
	case stateStart:
		switch b {
		case StartFixed:
			c.fixed = true
			c.state = stateControl
		case StartVariable:
			c.fixed = false
			c.state = stateLength0
		default:
			c.fail(BadFormat, "start", offset, b, StartFixed)
		}

	case stateLength0:
		c.length[0] = b
		c.state = stateLength1

	case stateLength1:
		c.length[1] = b
		c.state = stateRepeatedStart

	case stateRepeatedStart:
		if b != StartVariable {
			c.fail(BadFormat, "repeated start", offset, b, StartVariable)
			return
		}
		if c.length[0] != c.length[1] {
			c.fail(BadFormat, "length", offset-1, c.length[1], c.length[0])
			return
		}
		if c.payloadLen() < 1 {
			c.fail(BadFormat, "length", offset-2, c.length[0], byte(2+int(c.addressSize)))
			return
		}
		if cap(c.payload) < c.payloadLen() {
			c.payload = make([]byte, 0, c.payloadLen())
		}
		c.state = stateControl

	case stateControl:
		c.control = ControlField(b)
		c.state = stateAddress

	case stateAddress:
		c.address |= uint16(b) << (8 * c.addressRead)
		c.addressRead++
		if c.addressRead < int(c.addressSize) {
			return
		}
		if c.fixed {
			c.state = stateChecksum
		} else {
			c.state = statePayload
		}

	case statePayload:
		c.payload = append(c.payload, b)
		if len(c.payload) == c.payloadLen() {
			c.state = stateChecksum
		}

	case stateChecksum:
		c.checksum = b
		c.state = stateEnd

	case stateEnd:
		if b != EndOfFrame {
			c.fail(BadFormat, "end", offset, b, EndOfFrame)
			return
		}
		var payload []byte
		if !c.fixed {
			payload = c.payload
		}
		if want := Checksum(c.control, c.address, c.addressSize, payload); want != c.checksum {
			c.fail(CheckError, "checksum", offset-1, c.checksum, want)
			return
		}
		c.status = NoError
		c.state = stateDone
	}
}

// payloadLen is the payload size announced by the length octet.
func (c *Codec) payloadLen() int {
	return int(c.length[0]) - 1 - int(c.addressSize)
}

func (c *Codec) fail(status Status, field string, offset int, got, want byte) {
	c.status = status
	c.err = &ParseError{
		Status: status,
		Field:  field,
		Offset: offset,
		Got:    got,
		Want:   want,
	}
	c.state = stateDone
}

// DecodeFrame decodes a single frame from the start of p.
// It returns the frame, the number of bytes consumed and an error when p
// holds an invalid or incomplete frame.
func DecodeFrame(p []byte, opts ...CodecOption) (Frame, int, error) {
	c := NewCodec(opts...)
	n := c.Decode(p)
	f, err := c.Frame()
	return f, n, err
}
