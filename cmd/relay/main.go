package main

import (
	"flag"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"saltyrtc/internal/boxes"
	"saltyrtc/internal/keystore"
	"saltyrtc/internal/messages"
	"saltyrtc/internal/nonce"
	"saltyrtc/internal/protocol"
)

var upgrader = websocket.Upgrader{
	Subprotocols: []string{protocol.DefaultSubprotocol},
}

func main() {
	addr := flag.String("addr", ":8765", "listen address")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	http.HandleFunc("/", handle)
	logrus.WithField("addr", *addr).Info("Signaling server stub listening")
	logrus.Fatal(http.ListenAndServe(*addr, nil))
}

func handle(w http.ResponseWriter, r *http.Request) {
	log := logrus.WithField("remote", r.RemoteAddr)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Upgrade failed")
		return
	}
	defer conn.Close()
	log.WithField("subprotocol", conn.Subprotocol()).Info("Client connected")

	ks, err := keystore.New()
	if err != nil {
		log.WithError(err).Error("Generating server key")
		return
	}
	cookie, err := nonce.NewCookie()
	if err != nil {
		log.WithError(err).Error("Choosing cookie")
		return
	}

	// server-hello goes out unencrypted.
	helloNonce := nonce.Nonce{
		Cookie:      cookie,
		Source:      nonce.ServerAddress,
		Destination: 0,
		Sequence:    1,
	}
	bb, err := boxes.NewOpenBox(messages.NewServerHello(ks.PublicKey()), helloNonce).EncodePlain()
	if err != nil {
		log.WithError(err).Error("Encoding server-hello")
		return
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, bb.Frame()); err != nil {
		log.WithError(err).Warn("Writing server-hello")
		return
	}

	// Read the client's replies: a plain client-hello first, sealed frames
	// after that.
	var clientKey *keystore.PublicKey
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			log.WithError(err).Info("Client disconnected")
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		bbox, err := boxes.ParseFrame(data)
		if err != nil {
			log.WithError(err).Warn("Bad frame")
			return
		}

		var obox boxes.OpenBox
		if clientKey == nil {
			obox, err = bbox.DecodePlain()
		} else {
			obox, err = bbox.Decode(ks, *clientKey)
		}
		if err != nil {
			log.WithError(err).Warn("Cannot decode client message")
			return
		}

		switch msg := obox.Message.(type) {
		case messages.ClientHello:
			key := msg.Key
			clientKey = &key
			log.WithField("key", key.String()).Info("Client hello")
		case messages.ClientAuth:
			log.WithFields(logrus.Fields{
				"subprotocols":  msg.Subprotocols,
				"ping_interval": msg.PingInterval,
				"cookie_echoed": msg.YourCookie == cookie,
			}).Info("Client auth")
		default:
			log.WithField("type", obox.Message.MessageType()).Warn("Unexpected message")
			return
		}
	}
}
