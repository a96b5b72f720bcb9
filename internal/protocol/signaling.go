package protocol

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"saltyrtc/internal/boxes"
	"saltyrtc/internal/keystore"
	"saltyrtc/internal/messages"
	"saltyrtc/internal/nonce"
)

// DefaultSubprotocol is offered when the configuration names none.
const DefaultSubprotocol = "v1.saltyrtc.org"

// Nonce slots for the two replies to the server-hello. Addressing is not
// negotiated at this point in the handshake, so source and destination stay
// at the placeholder address and the sequence numbers are fixed.
// TODO: derive the sequence from a per-connection combined sequence number
// once cookie/address negotiation is implemented.
const (
	clientHelloSeq uint32 = 123
	clientAuthSeq  uint32 = 124
)

// Config carries the negotiable values placed into the client-auth message.
type Config struct {
	// Subprotocols offered to the server, most preferred first.
	Subprotocols []string
	// PingInterval in seconds; zero disables pings.
	PingInterval uint32
	// ServerKey, when set, is the expected server permanent key, confirmed
	// back to the server in client-auth.
	ServerKey *keystore.PublicKey
}

// Signaling coordinates one connection: it owns the peer context and the
// permanent key store, feeds incoming byte boxes through the state machine
// and stores the resulting state. It is not safe for concurrent use; a
// connection's messages must be handled strictly in arrival order.
type Signaling struct {
	Role   Role
	Server *ServerContext

	permanentKey *keystore.KeyStore
	cookie       nonce.Cookie
	subprotocols []string
	pingInterval uint32
	serverKey    *keystore.PublicKey
	log          *logrus.Entry
}

// NewSignaling creates the signaling coordinator for a fresh connection.
// The key store is exclusively owned by the returned value for the lifetime
// of the connection. The local cookie is chosen here and held constant.
func NewSignaling(role Role, permanentKey *keystore.KeyStore, cfg Config) (*Signaling, error) {
	cookie, err := nonce.NewCookie()
	if err != nil {
		return nil, fmt.Errorf("choosing cookie: %w", err)
	}
	subprotocols := cfg.Subprotocols
	if len(subprotocols) == 0 {
		subprotocols = []string{DefaultSubprotocol}
	}
	return &Signaling{
		Role:         role,
		Server:       NewServerContext(),
		permanentKey: permanentKey,
		cookie:       cookie,
		subprotocols: subprotocols,
		pingInterval: cfg.PingInterval,
		serverKey:    cfg.ServerKey,
		log: logrus.WithFields(logrus.Fields{
			"component": "signaling",
			"role":      role.String(),
		}),
	}, nil
}

// PermanentKey returns the local permanent public key.
func (s *Signaling) PermanentKey() keystore.PublicKey {
	return s.permanentKey.PublicKey()
}

// SetServerKey records the server's permanent key on the server context.
// The effect layer calls this when executing a SetServerKey action.
func (s *Signaling) SetServerKey(k keystore.PublicKey) {
	s.Server.SetPermanentKey(k)
}

// HandleMessage feeds one incoming byte box through the state machine,
// stores the next state, and returns the actions for the caller to execute
// in order. The stored state is written exactly once, after the full
// transition has been computed.
func (s *Signaling) HandleMessage(bbox boxes.ByteBox) []HandleAction {
	t := s.nextState(bbox)
	s.log.WithFields(logrus.Fields{
		"from": s.Server.handshakeState.String(),
		"to":   t.State.String(),
	}).Debug("Server handshake state transition")
	s.Server.handshakeState = t.State
	return t.Actions
}

// nextState determines the next state and actions from the incoming bytes
// and the current (read-only) state. It never mutates the signaling value:
// calling it repeatedly with identical inputs yields identical results.
func (s *Signaling) nextState(bbox boxes.ByteBox) StateTransition {
	// Decode policy depends on the current state.
	var obox boxes.OpenBox
	switch state := s.Server.handshakeState; {

	// In state New the message must be unencrypted.
	case state == StateNew:
		decoded, err := bbox.DecodePlain()
		if err != nil {
			return transition(Failure(err.Error()))
		}
		obox = decoded

	// Failure is absorbing; do not even attempt to decode.
	case state.IsFailure():
		return transition(state)

	// Peer-to-peer handshake states are not wired up yet.
	default:
		return transition(Failure("Not yet implemented"))
	}

	return s.applyTable(s.Server.handshakeState, obox)
}

// applyTable is the transition table over (state, message) pairs.
func (s *Signaling) applyTable(state State, obox boxes.OpenBox) StateTransition {
	// Valid state transitions.
	if state == StateNew {
		if msg, ok := obox.Message.(messages.ServerHello); ok {
			return s.handleServerHello(msg, obox.Nonce)
		}
	}

	// A failure transition is terminal and keeps its original reason.
	// Redundant with the short-circuit in nextState, but kept as a table
	// entry so the absorption property holds on its own.
	if state.IsFailure() {
		return transition(state)
	}

	// Any pair without a rule fails safely, naming both sides.
	return transition(Failure(fmt.Sprintf("Invalid event transition: %s <- %s",
		state, obox.Message.MessageType())))
}

// handleServerHello answers the server-hello with client-hello and
// client-auth and moves to ClientInfoSent. Action order matters: the server
// key must be recorded before the replies go out, and hello before auth.
func (s *Signaling) handleServerHello(msg messages.ServerHello, incoming nonce.Nonce) StateTransition {
	s.log.Info("Hello from server")
	s.log.WithField("key", msg.Key.String()).Debug("Server key received")

	actions := make([]HandleAction, 0, 3)
	actions = append(actions, SetServerKey{Key: msg.Key})

	// client-hello goes out unencrypted: the server learns our permanent
	// key from it, so it could not open a sealed box from us yet.
	clientHello := messages.NewClientHello(s.permanentKey.PublicKey())
	helloBox, err := boxes.NewOpenBox(clientHello, s.outgoingNonce(clientHelloSeq)).EncodePlain()
	if err != nil {
		return transition(Failure(fmt.Sprintf("Encoding client-hello: %s", err)))
	}
	actions = append(actions, Reply{Box: helloBox})

	// client-auth echoes the server's cookie and is sealed under the key we
	// just received.
	clientAuth := messages.NewClientAuth(
		incoming.Cookie,
		s.subprotocols,
		s.pingInterval,
		s.serverKey,
	)
	authBox, err := boxes.NewOpenBox(clientAuth, s.outgoingNonce(clientAuthSeq)).Encode(s.permanentKey, msg.Key)
	if err != nil {
		return transition(Failure(fmt.Sprintf("Encoding client-auth: %s", err)))
	}
	actions = append(actions, Reply{Box: authBox})

	return StateTransition{State: StateClientInfoSent, Actions: actions}
}

// outgoingNonce builds the nonce for an early handshake reply. The cookie is
// ours; addressing uses the placeholder values described on the slot
// constants.
func (s *Signaling) outgoingNonce(sequence uint32) nonce.Nonce {
	return nonce.Nonce{
		Cookie:      s.cookie,
		Source:      0,
		Destination: nonce.ServerAddress,
		Overflow:    0,
		Sequence:    sequence,
	}
}
