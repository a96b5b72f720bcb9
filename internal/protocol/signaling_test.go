package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"saltyrtc/internal/boxes"
	"saltyrtc/internal/keystore"
	"saltyrtc/internal/messages"
	"saltyrtc/internal/nonce"
	"saltyrtc/internal/protocol"
)

func serverNonce() nonce.Nonce {
	return nonce.Nonce{
		Cookie:   nonce.Cookie{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		Source:   nonce.ServerAddress,
		Sequence: 1,
	}
}

func newSignaling(t *testing.T, cfg protocol.Config) (*protocol.Signaling, *keystore.KeyStore) {
	t.Helper()
	ks, err := keystore.New()
	if err != nil {
		t.Fatalf("new keystore: %v", err)
	}
	sig, err := protocol.NewSignaling(protocol.Responder, ks, cfg)
	if err != nil {
		t.Fatalf("new signaling: %v", err)
	}
	return sig, ks
}

func serverHelloBox(t *testing.T, serverKey keystore.PublicKey) boxes.ByteBox {
	t.Helper()
	bb, err := boxes.NewOpenBox(messages.NewServerHello(serverKey), serverNonce()).EncodePlain()
	if err != nil {
		t.Fatalf("encode server-hello: %v", err)
	}
	return bb
}

func TestHappyPath(t *testing.T) {
	server, err := keystore.New()
	require.NoError(t, err)

	sig, clientKS := newSignaling(t, protocol.Config{
		Subprotocols: []string{"v1.saltyrtc.org"},
		PingInterval: 30,
	})

	actions := sig.HandleMessage(serverHelloBox(t, server.PublicKey()))
	require.Equal(t, protocol.StateClientInfoSent, sig.Server.HandshakeState())
	require.Len(t, actions, 3)

	// Action 1: record the server key.
	setKey, ok := actions[0].(protocol.SetServerKey)
	require.True(t, ok, "first action is %T", actions[0])
	require.Equal(t, server.PublicKey(), setKey.Key)

	// Action 2: client-hello, unencrypted, carrying our permanent key.
	reply1, ok := actions[1].(protocol.Reply)
	require.True(t, ok, "second action is %T", actions[1])
	ob1, err := reply1.Box.DecodePlain()
	require.NoError(t, err)
	hello, ok := ob1.Message.(messages.ClientHello)
	require.True(t, ok, "second reply is %s", ob1.Message.MessageType())
	require.Equal(t, clientKS.PublicKey(), hello.Key)

	// Action 3: client-auth, sealed for the server, echoing its cookie.
	reply2, ok := actions[2].(protocol.Reply)
	require.True(t, ok, "third action is %T", actions[2])
	ob2, err := reply2.Box.Decode(server, clientKS.PublicKey())
	require.NoError(t, err)
	auth, ok := ob2.Message.(messages.ClientAuth)
	require.True(t, ok, "third reply is %s", ob2.Message.MessageType())
	require.Equal(t, serverNonce().Cookie, auth.YourCookie)
	require.Equal(t, []string{"v1.saltyrtc.org"}, auth.Subprotocols)
	require.Equal(t, uint32(30), auth.PingInterval)
	require.Nil(t, auth.YourKey)

	// Both replies use our cookie, not the server's.
	require.NotEqual(t, serverNonce().Cookie, reply1.Box.Nonce.Cookie)
	require.Equal(t, reply1.Box.Nonce.Cookie, reply2.Box.Nonce.Cookie)
	require.Less(t, reply1.Box.Nonce.Sequence, reply2.Box.Nonce.Sequence)
}

func TestHappyPathConfirmsExpectedServerKey(t *testing.T) {
	server, err := keystore.New()
	require.NoError(t, err)

	expected := server.PublicKey()
	sig, clientKS := newSignaling(t, protocol.Config{ServerKey: &expected})

	actions := sig.HandleMessage(serverHelloBox(t, server.PublicKey()))
	require.Len(t, actions, 3)

	ob, err := actions[2].(protocol.Reply).Box.Decode(server, clientKS.PublicKey())
	require.NoError(t, err)
	auth := ob.Message.(messages.ClientAuth)
	require.NotNil(t, auth.YourKey)
	require.Equal(t, expected, *auth.YourKey)
	require.Equal(t, []string{protocol.DefaultSubprotocol}, auth.Subprotocols)
}

func TestInvalidTransitionNamesBothSides(t *testing.T) {
	sig, clientKS := newSignaling(t, protocol.Config{})

	bb, err := boxes.NewOpenBox(
		messages.NewClientHello(clientKS.PublicKey()), serverNonce()).EncodePlain()
	require.NoError(t, err)

	actions := sig.HandleMessage(bb)
	require.Empty(t, actions)

	state := sig.Server.HandshakeState()
	require.True(t, state.IsFailure())
	require.Contains(t, state.FailureReason(), "New")
	require.Contains(t, state.FailureReason(), "client-hello")
}

func TestDecodeFailureAtNew(t *testing.T) {
	sig, _ := newSignaling(t, protocol.Config{})

	bb := boxes.NewByteBox([]byte{0xc3}, serverNonce()) // not a message map
	actions := sig.HandleMessage(bb)
	require.Empty(t, actions)

	state := sig.Server.HandshakeState()
	require.True(t, state.IsFailure())
	require.Contains(t, state.FailureReason(), "malformed message")
}

func TestFailureIsAbsorbing(t *testing.T) {
	server, err := keystore.New()
	require.NoError(t, err)

	sig, clientKS := newSignaling(t, protocol.Config{})

	// Enter Failure via an invalid transition.
	bb, err := boxes.NewOpenBox(
		messages.NewClientHello(clientKS.PublicKey()), serverNonce()).EncodePlain()
	require.NoError(t, err)
	sig.HandleMessage(bb)

	reason := sig.Server.HandshakeState().FailureReason()
	require.NotEmpty(t, reason)

	// Every further input re-enters the same Failure with no actions, even
	// a message that would have been valid in state New.
	inputs := []boxes.ByteBox{
		serverHelloBox(t, server.PublicKey()),
		boxes.NewByteBox([]byte{0xff, 0x13, 0x37}, serverNonce()),
		bb,
	}
	for _, in := range inputs {
		actions := sig.HandleMessage(in)
		require.Empty(t, actions)
		state := sig.Server.HandshakeState()
		require.True(t, state.IsFailure())
		require.Equal(t, reason, state.FailureReason())
	}
}

func TestUnimplementedStateFails(t *testing.T) {
	server, err := keystore.New()
	require.NoError(t, err)

	sig, _ := newSignaling(t, protocol.Config{})
	sig.HandleMessage(serverHelloBox(t, server.PublicKey()))
	require.Equal(t, protocol.StateClientInfoSent, sig.Server.HandshakeState())

	actions := sig.HandleMessage(serverHelloBox(t, server.PublicKey()))
	require.Empty(t, actions)
	require.Equal(t, protocol.Failure("Not yet implemented"), sig.Server.HandshakeState())
}

func TestServerContextNew(t *testing.T) {
	ctx := protocol.NewServerContext()
	require.Equal(t, nonce.ServerAddress, ctx.Address())
	if _, ok := ctx.PermanentKey(); ok {
		t.Fatal("fresh context has a permanent key")
	}
	if _, ok := ctx.SessionKey(); ok {
		t.Fatal("fresh context has a session key")
	}
	require.Equal(t, protocol.StateNew, ctx.HandshakeState())
}

func TestSetServerKeyAppliedByCaller(t *testing.T) {
	server, err := keystore.New()
	require.NoError(t, err)

	sig, _ := newSignaling(t, protocol.Config{})
	actions := sig.HandleMessage(serverHelloBox(t, server.PublicKey()))

	// The transition itself must not have touched the context.
	if _, ok := sig.Server.PermanentKey(); ok {
		t.Fatal("state machine mutated the peer context")
	}

	for _, a := range actions {
		if set, ok := a.(protocol.SetServerKey); ok {
			sig.SetServerKey(set.Key)
		}
	}
	got, ok := sig.Server.PermanentKey()
	require.True(t, ok)
	require.Equal(t, server.PublicKey(), got)
}
