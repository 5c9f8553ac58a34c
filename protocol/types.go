package protocol

import "fmt"

// Direction is the value of the DIR bit.
type Direction byte

const (
	// FromMaster marks a frame sent by the master station (DIR=0)
	FromMaster Direction = 0

	// FromSlave marks a frame sent by a slave station (DIR=1)
	FromSlave Direction = 1
)

func (d Direction) String() string {
	if d == FromSlave {
		return "slave"
	}
	return "master"
}

// PrimaryFunction is a function code carried by a primary (PRM=1) frame.
type PrimaryFunction uint8

// Primary function codes.
const (
	// FuncResetRemoteLink resets the remote link (FCB expected next is 1)
	FuncResetRemoteLink PrimaryFunction = 0

	// FuncResetUserProcess resets the user process
	FuncResetUserProcess PrimaryFunction = 1

	// FuncTestLink tests the link (balanced transmission)
	FuncTestLink PrimaryFunction = 2

	// FuncSendConfirm sends user data and expects a confirmation
	FuncSendConfirm PrimaryFunction = 3

	// FuncSendNoReply sends user data without confirmation
	FuncSendNoReply PrimaryFunction = 4

	// FuncRequestAccessDemand requests the access demand status
	FuncRequestAccessDemand PrimaryFunction = 8

	// FuncRequestLinkStatus requests the status of the link
	FuncRequestLinkStatus PrimaryFunction = 9

	// FuncRequestClass1 requests class 1 user data
	FuncRequestClass1 PrimaryFunction = 10

	// FuncRequestClass2 requests class 2 user data
	FuncRequestClass2 PrimaryFunction = 11
)

// ExpectsFCV reports whether the function uses the frame count bit.
func (f PrimaryFunction) ExpectsFCV() bool {
	switch f {
	case FuncSendConfirm, FuncTestLink, FuncRequestClass1, FuncRequestClass2:
		return true
	}
	return false
}

// ExpectsReply reports whether the secondary station answers the function.
func (f PrimaryFunction) ExpectsReply() bool {
	return f != FuncSendNoReply
}

func (f PrimaryFunction) String() string {
	switch f {
	case FuncResetRemoteLink:
		return "reset remote link"
	case FuncResetUserProcess:
		return "reset user process"
	case FuncTestLink:
		return "test link"
	case FuncSendConfirm:
		return "send/confirm user data"
	case FuncSendNoReply:
		return "send/no reply user data"
	case FuncRequestAccessDemand:
		return "request access demand"
	case FuncRequestLinkStatus:
		return "request link status"
	case FuncRequestClass1:
		return "request class 1 data"
	case FuncRequestClass2:
		return "request class 2 data"
	default:
		return fmt.Sprintf("primary function %d", uint8(f))
	}
}

// SecondaryFunction is a function code carried by a secondary (PRM=0) frame.
type SecondaryFunction uint8

// Secondary function codes.
const (
	// FuncAck is a positive confirmation
	FuncAck SecondaryFunction = 0

	// FuncNack is a negative confirmation (message not accepted, link busy)
	FuncNack SecondaryFunction = 1

	// FuncRespondUserData answers a request with user data
	FuncRespondUserData SecondaryFunction = 8

	// FuncRespondNoData answers a request when no user data is available
	FuncRespondNoData SecondaryFunction = 9

	// FuncRespondLinkStatus answers a link status request
	FuncRespondLinkStatus SecondaryFunction = 11
)

func (f SecondaryFunction) String() string {
	switch f {
	case FuncAck:
		return "ack"
	case FuncNack:
		return "nack"
	case FuncRespondUserData:
		return "respond user data"
	case FuncRespondNoData:
		return "respond no data"
	case FuncRespondLinkStatus:
		return "respond link status"
	default:
		return fmt.Sprintf("secondary function %d", uint8(f))
	}
}
