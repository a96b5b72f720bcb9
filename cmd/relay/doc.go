// Package main runs a development signaling server stub for exercising the
// client handshake locally.
//
// On every WebSocket connection it generates a fresh server key pair, sends
// the unencrypted server-hello, and then decodes the client's replies: the
// plain client-hello (which reveals the client's permanent key) followed by
// the sealed client-auth, which it opens and logs. It implements nothing
// beyond that slice of the protocol and keeps no state across connections.
//
// The default listen address is :8765.
package main
