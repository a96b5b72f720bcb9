package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"saltyrtc/internal/protocol"
)

// connectCmd dials the signaling server and runs the server handshake.
func connectCmd() *cobra.Command {
	var asResponder bool

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to the signaling server and run the handshake",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}

			role := protocol.Initiator
			if asResponder {
				role = protocol.Responder
			}

			sig, err := wire.Signaling(role, passphrase)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := wire.Connect(ctx, sig)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asResponder, "responder", false, "connect as responder instead of initiator")
	return cmd
}
