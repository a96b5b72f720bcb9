package commands

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"saltyrtc/internal/app"
)

var (
	home       string
	passphrase string
	verbose    bool

	serverURL    string
	subprotocols []string
	pingInterval uint32
	serverKey    string

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "saltyrtc",
		Short: "SaltyRTC signaling client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".saltyrtc")
			}

			w, err := app.NewWire(app.Config{
				Home:         home,
				ServerURL:    serverURL,
				Subprotocols: subprotocols,
				PingInterval: pingInterval,
				ServerKey:    serverKey,
			})
			if err != nil {
				return err
			}
			wire = w
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.saltyrtc)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the permanent key")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&serverURL, "server", "ws://127.0.0.1:8765", "signaling server URL")
	root.PersistentFlags().StringSliceVar(&subprotocols, "subprotocol", nil, "offered subprotocols (default v1.saltyrtc.org)")
	root.PersistentFlags().Uint32Var(&pingInterval, "ping-interval", 0, "ping interval in seconds (0 disables)")
	root.PersistentFlags().StringVar(&serverKey, "server-key", "", "expected server public key (hex)")

	root.AddCommand(initCmd(), fingerprintCmd(), connectCmd())
	return root.Execute()
}
