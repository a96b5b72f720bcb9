// Package protocol implements the signaling handshake state machine.
//
// The state machine handles all transitions independently of the connection.
// Instead of executing side effects (like writing a reply to the websocket),
// a list of HandleAction values is returned, and the caller executes them in
// order. This keeps protocol logic decoupled from network code and makes the
// transitions testable without a live transport.
//
// The Failure state is absorbing: once a connection's handshake has failed,
// every further message re-enters Failure with the original reason and emits
// no actions. Handshake errors are protocol data, not process faults — a
// misbehaving peer can never crash the local process by sending bad input.
package protocol
