package app

// Config holds runtime wiring options for building the app.
type Config struct {
	Home         string   // config directory, e.g. $HOME/.saltyrtc
	ServerURL    string   // signaling server URL, e.g. ws://127.0.0.1:8765
	Subprotocols []string // offered subprotocols, most preferred first
	PingInterval uint32   // seconds; zero disables pings
	ServerKey    string   // expected server public key, hex, optional
}
