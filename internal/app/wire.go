package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"saltyrtc/internal/keystore"
	"saltyrtc/internal/protocol"
	"saltyrtc/internal/relay"
	"saltyrtc/internal/store"
)

// Wire bundles the stores and factories the commands use.
type Wire struct {
	Keys *store.FileStore
	cfg  Config
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}
	return &Wire{Keys: store.NewFileStore(cfg.Home), cfg: cfg}, nil
}

// Signaling loads the permanent key and builds a coordinator for one
// connection.
func (w *Wire) Signaling(role protocol.Role, passphrase string) (*protocol.Signaling, error) {
	ks, err := w.Keys.LoadKeyStore(passphrase)
	if err != nil {
		return nil, err
	}

	cfg := protocol.Config{
		Subprotocols: w.cfg.Subprotocols,
		PingInterval: w.cfg.PingInterval,
	}
	if w.cfg.ServerKey != "" {
		raw, err := hex.DecodeString(w.cfg.ServerKey)
		if err != nil {
			return nil, fmt.Errorf("parsing server key: %w", err)
		}
		key, err := keystore.PublicKeyFromSlice(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing server key: %w", err)
		}
		cfg.ServerKey = &key
	}
	return protocol.NewSignaling(role, ks, cfg)
}

// Connect dials the configured server for the given signaling coordinator.
func (w *Wire) Connect(ctx context.Context, sig *protocol.Signaling) (*relay.Client, error) {
	subprotocols := w.cfg.Subprotocols
	if len(subprotocols) == 0 {
		subprotocols = []string{protocol.DefaultSubprotocol}
	}
	return relay.Dial(ctx, w.cfg.ServerURL, sig, subprotocols)
}
