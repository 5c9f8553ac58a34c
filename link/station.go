package link

import (
	"context"
	"fmt"

	"github.com/moffa90/go-iec101/protocol"
)

// Station is the primary side of an unbalanced link to one secondary station.
// It tracks the frame count bit: each confirmed exchange with FCV=1 flips the
// bit for the next one, and retransmissions repeat it.
//
// Example:
//
//	st := conn.Station(3)
//	if _, err := st.ResetLink(ctx); err != nil {
//	    return err
//	}
//	resp, err := st.RequestClass2(ctx)
type Station struct {
	conn    *Conn
	address uint16
	fcb     bool
}

// Station returns the primary state for the secondary station at address.
func (c *Conn) Station(address uint16) *Station {
	return &Station{conn: c, address: address, fcb: true}
}

// Address returns the link address of the secondary station.
func (s *Station) Address() uint16 {
	return s.address
}

// NextFCB returns the frame count bit the next FCV=1 frame will carry.
func (s *Station) NextFCB() bool {
	return s.fcb
}

// ResetLink sends reset remote link. On a positive answer the frame count
// bit restarts at 1.
func (s *Station) ResetLink(ctx context.Context) (protocol.Frame, error) {
	resp, err := s.exchange(ctx, protocol.FuncResetRemoteLink, nil)
	if err != nil {
		return resp, err
	}
	if isAck(resp) {
		s.fcb = true
	}
	return resp, nil
}

// RequestLinkStatus asks for the link status.
func (s *Station) RequestLinkStatus(ctx context.Context) (protocol.Frame, error) {
	return s.exchange(ctx, protocol.FuncRequestLinkStatus, nil)
}

// SendConfirm sends user data and waits for the confirmation.
func (s *Station) SendConfirm(ctx context.Context, asdu []byte) (protocol.Frame, error) {
	if len(asdu) == 0 {
		return protocol.Frame{}, fmt.Errorf("send/confirm requires user data")
	}
	return s.exchange(ctx, protocol.FuncSendConfirm, asdu)
}

// SendNoReply sends user data without confirmation, typically to the broadcast address.
func (s *Station) SendNoReply(ctx context.Context, asdu []byte) error {
	if len(asdu) == 0 {
		return fmt.Errorf("send/no reply requires user data")
	}
	_, err := s.exchange(ctx, protocol.FuncSendNoReply, asdu)
	return err
}

// RequestClass1 polls for class 1 (high priority) user data.
func (s *Station) RequestClass1(ctx context.Context) (protocol.Frame, error) {
	return s.exchange(ctx, protocol.FuncRequestClass1, nil)
}

// RequestClass2 polls for class 2 (cyclic) user data.
func (s *Station) RequestClass2(ctx context.Context) (protocol.Frame, error) {
	return s.exchange(ctx, protocol.FuncRequestClass2, nil)
}

func (s *Station) exchange(ctx context.Context, fn protocol.PrimaryFunction, asdu []byte) (protocol.Frame, error) {
	p := protocol.Primary{Function: fn}
	if fn.ExpectsFCV() {
		p.FCV = true
		p.FCB = s.fcb
	}

	control := protocol.NewPrimaryControl(protocol.FromMaster, p)
	req := protocol.NewVariableFrame(control, s.address, asdu)
	if len(asdu) == 0 {
		req = protocol.NewFixedFrame(control, s.address)
	}

	resp, err := s.conn.Exchange(ctx, req)
	if err != nil {
		return resp, err
	}

	// Any answer to an FCV=1 frame advances the frame count, NACK included.
	if p.FCV && fn.ExpectsReply() {
		s.fcb = !s.fcb
	}
	return resp, nil
}

func isAck(f protocol.Frame) bool {
	sec, ok := f.Control.Secondary()
	return ok && sec.Function == protocol.FuncAck
}
