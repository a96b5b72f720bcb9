// Package boxes converts between the wire-level message envelope and its
// decoded form.
//
// A ByteBox is what travels on the wire: a 24-byte nonce followed by the
// (usually sealed) payload. An OpenBox is the result of a successful decode:
// a typed message plus the same nonce. The sealed paths go through the
// keystore; the plain paths exist because the very first handshake messages
// are exchanged before any key is shared.
package boxes
