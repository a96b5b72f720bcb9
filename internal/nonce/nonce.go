package nonce

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	// ByteLength is the encoded size of a nonce.
	ByteLength = 24
	// CookieLength is the size of the random per-sender cookie.
	CookieLength = 16
)

// ErrBadLength is returned when decoding a buffer that is not exactly
// ByteLength (or CookieLength for cookies) bytes long.
var ErrBadLength = errors.New("bad length")

// Cookie is the random value a sender picks at handshake start and keeps
// constant for the lifetime of the connection.
type Cookie [CookieLength]byte

// NewCookie returns a cryptographically random cookie.
func NewCookie() (Cookie, error) {
	var c Cookie
	if _, err := rand.Read(c[:]); err != nil {
		return Cookie{}, err
	}
	return c, nil
}

func (c Cookie) Slice() []byte { return c[:] }

// EncodeMsgpack writes the cookie as raw bytes, the format used by the
// client-auth echo field.
func (c Cookie) EncodeMsgpack(e *msgpack.Encoder) error {
	return e.EncodeBytes(c[:])
}

// DecodeMsgpack mirrors EncodeMsgpack.
func (c *Cookie) DecodeMsgpack(d *msgpack.Decoder) error {
	b, err := d.DecodeBytes()
	if err != nil {
		return err
	}
	if len(b) != CookieLength {
		return fmt.Errorf("cookie: want %d bytes, got %d: %w", CookieLength, len(b), ErrBadLength)
	}
	copy(c[:], b)
	return nil
}

// Address identifies a signaling participant. The server always has the
// reserved address 0; client addresses are assigned during the handshake.
type Address uint8

// ServerAddress is the well-known address of the signaling server.
const ServerAddress Address = 0

// Nonce is the structured 24-byte value described in the package doc.
// Construction performs no validation; field values are caller-guaranteed.
type Nonce struct {
	Cookie      Cookie
	Source      Address
	Destination Address
	Overflow    uint16
	Sequence    uint32
}

// Parse decodes exactly ByteLength bytes into a Nonce.
func Parse(b []byte) (Nonce, error) {
	if len(b) != ByteLength {
		return Nonce{}, fmt.Errorf("nonce: want %d bytes, got %d: %w", ByteLength, len(b), ErrBadLength)
	}
	var n Nonce
	copy(n.Cookie[:], b[:CookieLength])
	n.Source = Address(b[16])
	n.Destination = Address(b[17])
	n.Overflow = binary.BigEndian.Uint16(b[18:20])
	n.Sequence = binary.BigEndian.Uint32(b[20:24])
	return n, nil
}

// Bytes encodes the nonce in wire order: cookie, source, destination,
// overflow, sequence. Integers are big-endian.
func (n Nonce) Bytes() []byte {
	b := make([]byte, ByteLength)
	copy(b[:CookieLength], n.Cookie[:])
	b[16] = byte(n.Source)
	b[17] = byte(n.Destination)
	binary.BigEndian.PutUint16(b[18:20], n.Overflow)
	binary.BigEndian.PutUint32(b[20:24], n.Sequence)
	return b
}

// Box returns the nonce in the fixed-array form expected by NaCl.
func (n Nonce) Box() *[ByteLength]byte {
	var out [ByteLength]byte
	copy(out[:], n.Bytes())
	return &out
}

func (n Nonce) String() string {
	return fmt.Sprintf("Nonce(%d->%d, overflow=%d, sequence=%d)",
		n.Source, n.Destination, n.Overflow, n.Sequence)
}
