package protocol

import (
	"saltyrtc/internal/keystore"
	"saltyrtc/internal/nonce"
)

// PeerContext is the capability exposed by every counterparty: an address
// and, once negotiated, its permanent and session keys. Concrete peer kinds
// (the server, a remote initiator, a remote responder) implement it
// independently; there is no shared base state.
type PeerContext interface {
	Address() nonce.Address
	PermanentKey() (keystore.PublicKey, bool)
	SessionKey() (keystore.PublicKey, bool)
}

// ServerContext is the peer context for the signaling server. It lives
// exactly as long as the connection.
type ServerContext struct {
	handshakeState State
	permanentKey   *keystore.PublicKey
	sessionKey     *keystore.PublicKey
}

// NewServerContext returns a server context in the New handshake state with
// no keys known yet.
func NewServerContext() *ServerContext {
	return &ServerContext{handshakeState: StateNew}
}

// Address returns the reserved server address.
func (c *ServerContext) Address() nonce.Address { return nonce.ServerAddress }

// PermanentKey returns the server's permanent key, if known.
func (c *ServerContext) PermanentKey() (keystore.PublicKey, bool) {
	if c.permanentKey == nil {
		return keystore.PublicKey{}, false
	}
	return *c.permanentKey, true
}

// SessionKey returns the negotiated session key, if any.
func (c *ServerContext) SessionKey() (keystore.PublicKey, bool) {
	if c.sessionKey == nil {
		return keystore.PublicKey{}, false
	}
	return *c.sessionKey, true
}

// SetPermanentKey records the server's permanent key. Called by the effect
// layer when executing a SetServerKey action, never by the state machine.
func (c *ServerContext) SetPermanentKey(k keystore.PublicKey) {
	key := k
	c.permanentKey = &key
}

// HandshakeState returns the current server handshake state.
func (c *ServerContext) HandshakeState() State { return c.handshakeState }

var _ PeerContext = (*ServerContext)(nil)
