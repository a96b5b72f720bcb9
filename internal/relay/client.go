package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"saltyrtc/internal/boxes"
	"saltyrtc/internal/protocol"
)

const defaultHandshakeTimeout = 10 * time.Second

// Client drives one signaling connection.
type Client struct {
	conn      *websocket.Conn
	signaling *protocol.Signaling
	log       *logrus.Entry
}

// Dial connects to the signaling server, offering the given subprotocols.
func Dial(ctx context.Context, serverURL string, sig *protocol.Signaling, subprotocols []string) (*Client, error) {
	dialer := websocket.Dialer{
		Subprotocols:     subprotocols,
		HandshakeTimeout: defaultHandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", serverURL, err)
	}
	log := logrus.WithFields(logrus.Fields{
		"component": "relay",
		"server":    serverURL,
	})
	log.WithField("subprotocol", conn.Subprotocol()).Info("Connected to signaling server")
	return &Client{conn: conn, signaling: sig, log: log}, nil
}

// Run reads frames and applies the handshake until the context is cancelled,
// the connection drops, or the handshake fails. Messages are handled strictly
// in arrival order; there is never more than one in-flight HandleMessage.
func (c *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.Close()
		case <-done:
		}
	}()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading frame: %w", err)
		}
		if messageType != websocket.BinaryMessage {
			c.log.WithField("type", messageType).Warn("Ignoring non-binary frame")
			continue
		}

		bbox, err := boxes.ParseFrame(data)
		if err != nil {
			return fmt.Errorf("splitting frame: %w", err)
		}

		actions := c.signaling.HandleMessage(bbox)
		if err := c.apply(actions); err != nil {
			return err
		}

		if state := c.signaling.Server.HandshakeState(); state.IsFailure() {
			_ = c.conn.Close()
			return fmt.Errorf("handshake failed: %s", state.FailureReason())
		}
	}
}

// apply executes the actions in the order the state machine returned them.
func (c *Client) apply(actions []protocol.HandleAction) error {
	for _, action := range actions {
		switch a := action.(type) {
		case protocol.SetServerKey:
			c.log.WithField("key", a.Key.String()).Debug("Recording server key")
			c.signaling.SetServerKey(a.Key)
		case protocol.Reply:
			if err := c.conn.WriteMessage(websocket.BinaryMessage, a.Box.Frame()); err != nil {
				return fmt.Errorf("writing reply: %w", err)
			}
		case protocol.None:
			// Nothing to do.
		default:
			return fmt.Errorf("unknown action %T", action)
		}
	}
	return nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
