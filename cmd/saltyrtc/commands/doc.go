// Package commands implements the saltyrtc CLI subcommands.
package commands
