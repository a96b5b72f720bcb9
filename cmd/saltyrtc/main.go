package main

import (
	"os"

	"saltyrtc/cmd/saltyrtc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
