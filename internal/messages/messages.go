package messages

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"saltyrtc/internal/keystore"
	"saltyrtc/internal/nonce"
)

// Type is a wire-type tag.
type Type string

const (
	TypeServerHello Type = "server-hello"
	TypeClientHello Type = "client-hello"
	TypeClientAuth  Type = "client-auth"
)

var (
	// ErrUnknownType is returned when the "type" field names no known
	// message variant.
	ErrUnknownType = errors.New("unknown message type")
	// ErrMalformed is returned when the bytes are not a valid message map
	// or the body does not fit the declared type.
	ErrMalformed = errors.New("malformed message")
)

// Message is implemented by every variant of the catalog.
type Message interface {
	// MessageType returns the wire-type tag.
	MessageType() Type
}

// ServerHello is the first message of the server handshake. It is sent
// unencrypted and carries the server's permanent public key.
type ServerHello struct {
	Type Type               `msgpack:"type"`
	Key  keystore.PublicKey `msgpack:"key"`
}

// NewServerHello builds a server-hello carrying the given key.
func NewServerHello(key keystore.PublicKey) ServerHello {
	return ServerHello{Type: TypeServerHello, Key: key}
}

func (ServerHello) MessageType() Type { return TypeServerHello }

// ClientHello announces the client's permanent public key to the server.
// It is the one client message the server must be able to read before any
// key is shared, so it too goes out unencrypted.
type ClientHello struct {
	Type Type               `msgpack:"type"`
	Key  keystore.PublicKey `msgpack:"key"`
}

// NewClientHello builds a client-hello carrying the given key.
func NewClientHello(key keystore.PublicKey) ClientHello {
	return ClientHello{Type: TypeClientHello, Key: key}
}

func (ClientHello) MessageType() Type { return TypeClientHello }

// ClientAuth proves receipt of the server-hello by echoing the server's
// cookie, and negotiates subprotocol and ping interval. YourKey confirms a
// pre-configured server key when one is expected.
type ClientAuth struct {
	Type         Type                `msgpack:"type"`
	YourCookie   nonce.Cookie        `msgpack:"your_cookie"`
	Subprotocols []string            `msgpack:"subprotocols"`
	PingInterval uint32              `msgpack:"ping_interval"`
	YourKey      *keystore.PublicKey `msgpack:"your_key,omitempty"`
}

// NewClientAuth builds a client-auth message. yourKey may be nil.
func NewClientAuth(yourCookie nonce.Cookie, subprotocols []string, pingInterval uint32, yourKey *keystore.PublicKey) ClientAuth {
	return ClientAuth{
		Type:         TypeClientAuth,
		YourCookie:   yourCookie,
		Subprotocols: subprotocols,
		PingInterval: pingInterval,
		YourKey:      yourKey,
	}
}

func (ClientAuth) MessageType() Type { return TypeClientAuth }

// Marshal serializes a message to its MessagePack map form.
func Marshal(m Message) ([]byte, error) {
	return msgpack.Marshal(m)
}

// Parse decodes bytes into the variant named by their "type" field.
func Parse(data []byte) (Message, error) {
	var probe struct {
		Type Type `msgpack:"type"`
	}
	if err := msgpack.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var (
		m   Message
		err error
	)
	switch probe.Type {
	case TypeServerHello:
		var v ServerHello
		err = msgpack.Unmarshal(data, &v)
		m = v
	case TypeClientHello:
		var v ClientHello
		err = msgpack.Unmarshal(data, &v)
		m = v
	case TypeClientAuth:
		var v ClientAuth
		err = msgpack.Unmarshal(data, &v)
		m = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(probe.Type))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, probe.Type, err)
	}
	return m, nil
}
