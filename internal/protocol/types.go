package protocol

import (
	"saltyrtc/internal/boxes"
	"saltyrtc/internal/keystore"
)

// Role identifies which side of the eventual peer-to-peer session the local
// party plays. It is fixed for the lifetime of a connection.
type Role uint8

const (
	Initiator Role = iota
	Responder
)

func (r Role) String() string {
	switch r {
	case Initiator:
		return "Initiator"
	case Responder:
		return "Responder"
	default:
		return "Unknown"
	}
}

// HandleAction describes a side effect the caller must execute. Actions are
// values; the state machine never performs them itself.
type HandleAction interface {
	isHandleAction()
}

// SetServerKey asks the caller to record the server's permanent public key
// for later cryptographic use.
type SetServerKey struct {
	Key keystore.PublicKey
}

// Reply asks the caller to send the boxed bytes to the peer.
type Reply struct {
	Box boxes.ByteBox
}

// None is the empty action, an extension point for transitions that need a
// placeholder effect.
type None struct{}

func (SetServerKey) isHandleAction() {}
func (Reply) isHandleAction()        {}
func (None) isHandleAction()         {}
