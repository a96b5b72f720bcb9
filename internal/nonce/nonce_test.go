package nonce_test

import (
	"bytes"
	"errors"
	"testing"

	"saltyrtc/internal/nonce"
)

func testNonce() nonce.Nonce {
	return nonce.Nonce{
		Cookie:      nonce.Cookie{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		Source:      17,
		Destination: 18,
		Overflow:    258,
		Sequence:    50_595_078,
	}
}

func TestRoundTrip(t *testing.T) {
	n := testNonce()
	got, err := nonce.Parse(n.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != n {
		t.Fatalf("round trip mismatch: %+v != %+v", got, n)
	}
}

func TestBytesLayout(t *testing.T) {
	b := testNonce().Bytes()
	if len(b) != nonce.ByteLength {
		t.Fatalf("want %d bytes, got %d", nonce.ByteLength, len(b))
	}
	want := []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, // cookie
		17,         // source
		18,         // destination
		1, 2,       // overflow 258 big-endian
		3, 4, 5, 6, // sequence 50_595_078 big-endian
	}
	if !bytes.Equal(b, want) {
		t.Fatalf("layout mismatch:\n got %v\nwant %v", b, want)
	}
}

func TestParseBadLength(t *testing.T) {
	for _, size := range []int{0, 1, 23, 25, 48} {
		if _, err := nonce.Parse(make([]byte, size)); !errors.Is(err, nonce.ErrBadLength) {
			t.Fatalf("size %d: want ErrBadLength, got %v", size, err)
		}
	}
}

func TestEquality(t *testing.T) {
	a, b := testNonce(), testNonce()
	if a != b {
		t.Fatal("identical nonces compare unequal")
	}
	b.Sequence++
	if a == b {
		t.Fatal("differing nonces compare equal")
	}
}

func TestNewCookieRandom(t *testing.T) {
	a, err := nonce.NewCookie()
	if err != nil {
		t.Fatalf("new cookie: %v", err)
	}
	b, err := nonce.NewCookie()
	if err != nil {
		t.Fatalf("new cookie: %v", err)
	}
	if a == b {
		t.Fatal("two fresh cookies are identical")
	}
}
