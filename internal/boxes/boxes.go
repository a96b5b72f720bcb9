package boxes

import (
	"fmt"

	"saltyrtc/internal/keystore"
	"saltyrtc/internal/messages"
	"saltyrtc/internal/nonce"
)

// ByteBox is a still-sealed message envelope as seen on the wire.
type ByteBox struct {
	Bytes []byte
	Nonce nonce.Nonce
}

// NewByteBox packages payload bytes with their nonce.
func NewByteBox(b []byte, n nonce.Nonce) ByteBox {
	return ByteBox{Bytes: b, Nonce: n}
}

// ParseFrame splits a raw wire frame into nonce and payload.
func ParseFrame(frame []byte) (ByteBox, error) {
	if len(frame) < nonce.ByteLength {
		return ByteBox{}, fmt.Errorf("frame: want at least %d bytes, got %d: %w",
			nonce.ByteLength, len(frame), nonce.ErrBadLength)
	}
	n, err := nonce.Parse(frame[:nonce.ByteLength])
	if err != nil {
		return ByteBox{}, err
	}
	payload := make([]byte, len(frame)-nonce.ByteLength)
	copy(payload, frame[nonce.ByteLength:])
	return ByteBox{Bytes: payload, Nonce: n}, nil
}

// Frame joins nonce and payload back into the wire form.
func (b ByteBox) Frame() []byte {
	out := make([]byte, 0, nonce.ByteLength+len(b.Bytes))
	out = append(out, b.Nonce.Bytes()...)
	out = append(out, b.Bytes...)
	return out
}

// DecodePlain parses the payload as an unencrypted message.
func (b ByteBox) DecodePlain() (OpenBox, error) {
	msg, err := messages.Parse(b.Bytes)
	if err != nil {
		return OpenBox{}, err
	}
	return OpenBox{Message: msg, Nonce: b.Nonce}, nil
}

// Decode opens the payload with the keystore under the embedded nonce, then
// parses the opened bytes. Authentication failure, an unknown message type
// and a malformed body all surface as errors here.
func (b ByteBox) Decode(ks *keystore.KeyStore, peer keystore.PublicKey) (OpenBox, error) {
	plain, err := ks.Open(b.Bytes, b.Nonce, peer)
	if err != nil {
		return OpenBox{}, err
	}
	msg, err := messages.Parse(plain)
	if err != nil {
		return OpenBox{}, err
	}
	return OpenBox{Message: msg, Nonce: b.Nonce}, nil
}

// OpenBox is a decoded envelope: a typed message plus its nonce.
type OpenBox struct {
	Message messages.Message
	Nonce   nonce.Nonce
}

// NewOpenBox packages a message with the nonce it will be sent under.
func NewOpenBox(m messages.Message, n nonce.Nonce) OpenBox {
	return OpenBox{Message: m, Nonce: n}
}

// EncodePlain serializes the message without sealing it.
func (o OpenBox) EncodePlain() (ByteBox, error) {
	data, err := messages.Marshal(o.Message)
	if err != nil {
		return ByteBox{}, err
	}
	return ByteBox{Bytes: data, Nonce: o.Nonce}, nil
}

// Encode serializes the message and seals it for the counterparty under the
// embedded nonce.
func (o OpenBox) Encode(ks *keystore.KeyStore, peer keystore.PublicKey) (ByteBox, error) {
	data, err := messages.Marshal(o.Message)
	if err != nil {
		return ByteBox{}, err
	}
	return ByteBox{Bytes: ks.Seal(data, o.Nonce, peer), Nonce: o.Nonce}, nil
}
