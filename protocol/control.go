package protocol

import "fmt"

// ControlField is the link control octet.
//
//	bit  7    6    5        4        3..0
//	     DIR  PRM  FCB/ACD  FCV/DFC  function code
//
// Bits 5 and 4 carry FCB/FCV on primary frames and ACD/DFC on secondary
// frames. Read them through Primary or Secondary, never directly.
type ControlField byte

// Primary holds the PRM=1 interpretation of the control field.
type Primary struct {
	// FCB is the frame count bit, alternated for each new send/confirm or request/respond
	FCB bool

	// FCV marks FCB as meaningful
	FCV bool

	// Function is the primary function code
	Function PrimaryFunction
}

// Secondary holds the PRM=0 interpretation of the control field.
type Secondary struct {
	// ACD is set when the station has class 1 data waiting
	ACD bool

	// DFC is set when the station cannot accept further data
	DFC bool

	// Function is the secondary function code
	Function SecondaryFunction
}

// NewPrimaryControl builds a PRM=1 control field.
func NewPrimaryControl(dir Direction, p Primary) ControlField {
	return ControlField(0).WithDirection(dir).WithPrimary(p)
}

// NewSecondaryControl builds a PRM=0 control field.
func NewSecondaryControl(dir Direction, s Secondary) ControlField {
	return ControlField(0).WithDirection(dir).WithSecondary(s)
}

// Direction returns the DIR bit.
func (c ControlField) Direction() Direction {
	return Direction((c & maskDIR) >> shiftDIR)
}

// FromSlave reports whether the frame was sent by a slave station.
func (c ControlField) FromSlave() bool {
	return c.Direction() == FromSlave
}

// IsPrimary reports whether PRM is set.
func (c ControlField) IsPrimary() bool {
	return c&maskPRM != 0
}

// FunctionCode returns the raw 4-bit function code.
func (c ControlField) FunctionCode() uint8 {
	return uint8(c & maskFunction)
}

// Primary returns the primary view of c; ok is false when PRM is clear.
func (c ControlField) Primary() (p Primary, ok bool) {
	if !c.IsPrimary() {
		return Primary{}, false
	}
	return Primary{
		FCB:      c&maskFCB != 0,
		FCV:      c&maskFCV != 0,
		Function: PrimaryFunction(c.FunctionCode()),
	}, true
}

// Secondary returns the secondary view of c; ok is false when PRM is set.
func (c ControlField) Secondary() (s Secondary, ok bool) {
	if c.IsPrimary() {
		return Secondary{}, false
	}
	return Secondary{
		ACD:      c&maskFCB != 0,
		DFC:      c&maskFCV != 0,
		Function: SecondaryFunction(c.FunctionCode()),
	}, true
}

// FrameCountBit returns FCB. ok is false unless PRM=1 and FCV=1.
func (c ControlField) FrameCountBit() (fcb bool, ok bool) {
	p, ok := c.Primary()
	if !ok || !p.FCV {
		return false, false
	}
	return p.FCB, true
}

// FrameCountValid returns FCV. ok is false on secondary frames.
func (c ControlField) FrameCountValid() (fcv bool, ok bool) {
	p, ok := c.Primary()
	return p.FCV, ok
}

// AccessDemand returns ACD. ok is false on primary frames.
func (c ControlField) AccessDemand() (acd bool, ok bool) {
	s, ok := c.Secondary()
	return s.ACD, ok
}

// DataFlowControl returns DFC. ok is false on primary frames.
func (c ControlField) DataFlowControl() (dfc bool, ok bool) {
	s, ok := c.Secondary()
	return s.DFC, ok
}

// WithDirection returns c with the DIR bit set to dir.
func (c ControlField) WithDirection(dir Direction) ControlField {
	return setBits(c, maskDIR, shiftDIR, byte(dir))
}

// WithFunctionCode returns c with the function code replaced.
// Only the low four bits of code are used.
func (c ControlField) WithFunctionCode(code uint8) ControlField {
	return setBits(c, maskFunction, 0, code)
}

// WithPrimary returns c with PRM set and bits 5..0 taken from p.
func (c ControlField) WithPrimary(p Primary) ControlField {
	c = setBits(c, maskPRM, shiftPRM, 1)
	c = setBits(c, maskFCB, shiftFCB, boolBit(p.FCB))
	c = setBits(c, maskFCV, shiftFCV, boolBit(p.FCV))
	return c.WithFunctionCode(uint8(p.Function))
}

// WithSecondary returns c with PRM clear and bits 5..0 taken from s.
func (c ControlField) WithSecondary(s Secondary) ControlField {
	c = setBits(c, maskPRM, shiftPRM, 0)
	c = setBits(c, maskFCB, shiftFCB, boolBit(s.ACD))
	c = setBits(c, maskFCV, shiftFCV, boolBit(s.DFC))
	return c.WithFunctionCode(uint8(s.Function))
}

// WithFrameCountBit returns c with FCB set to fcb.
// It fails on secondary frames, where bit 5 means ACD.
func (c ControlField) WithFrameCountBit(fcb bool) (ControlField, error) {
	if !c.IsPrimary() {
		return c, ErrNotPrimary
	}
	return setBits(c, maskFCB, shiftFCB, boolBit(fcb)), nil
}

// ToggleFrameCountBit returns c with FCB inverted.
// It fails on secondary frames, where bit 5 means ACD.
func (c ControlField) ToggleFrameCountBit() (ControlField, error) {
	if !c.IsPrimary() {
		return c, ErrNotPrimary
	}
	return c ^ maskFCB, nil
}

func (c ControlField) String() string {
	if p, ok := c.Primary(); ok {
		return fmt.Sprintf("PRM=1 DIR=%d FCB=%d FCV=%d FC=%d (%s)",
			c.Direction(), boolBit(p.FCB), boolBit(p.FCV), p.Function, p.Function)
	}
	s, _ := c.Secondary()
	return fmt.Sprintf("PRM=0 DIR=%d ACD=%d DFC=%d FC=%d (%s)",
		c.Direction(), boolBit(s.ACD), boolBit(s.DFC), s.Function, s.Function)
}

// setBits clears mask in c and ORs v shifted into place.
func setBits(c ControlField, mask byte, shift uint, v byte) ControlField {
	return ControlField((byte(c) &^ mask) | ((v << shift) & mask))
}

func boolBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}
