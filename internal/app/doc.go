// Package app wires application dependencies for the CLI.
//
// It builds the key store, signaling coordinator and relay client from
// Config, exposing them via the Wire struct for commands to use.
package app
