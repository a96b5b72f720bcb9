// Package relay runs the signaling handshake over a WebSocket connection.
//
// It is the effect layer around the protocol core: it reads binary frames,
// splits them into byte boxes, feeds them to the signaling coordinator and
// executes the returned actions in order (recording the server key, writing
// replies). When the coordinator reaches the Failure state the client closes
// the connection; it never tries to recover a failed handshake.
package relay
