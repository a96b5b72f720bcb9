package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the permanent public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			ks, err := wire.Keys.LoadKeyStore(passphrase)
			if err != nil {
				return err
			}
			fmt.Println(ks.PublicKey())
			return nil
		},
	}
}
