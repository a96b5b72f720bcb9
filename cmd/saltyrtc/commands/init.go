package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"saltyrtc/internal/keystore"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a permanent key pair and store it securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if wire.Keys.HasKeyStore() {
				return fmt.Errorf("a permanent key already exists in %s", home)
			}
			ks, err := keystore.New()
			if err != nil {
				return err
			}
			if err := wire.Keys.SaveKeyStore(passphrase, ks); err != nil {
				return err
			}
			fmt.Printf("Permanent key created.\nPublic key: %s\n", ks.PublicKey())
			return nil
		},
	}
}
