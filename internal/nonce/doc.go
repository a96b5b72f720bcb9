// Package nonce implements the 24-byte combined sequence number that
// prefixes every SaltyRTC signaling message.
//
// A nonce carries a 16-byte cookie chosen by the sender at handshake start,
// the source and destination addresses, and a 48-bit sequence number split
// into a 16-bit overflow and a 32-bit sequence part. Besides ordering and
// replay protection, the encoded nonce doubles as the NaCl box nonce for the
// sealing operation, so the (overflow, sequence) pair must never repeat for
// a given sender.
package nonce
