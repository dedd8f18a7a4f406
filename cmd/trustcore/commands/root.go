package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/denysvitali/trustcore/internal/app"
	"github.com/denysvitali/trustcore/internal/logging"
)

var (
	home       string
	passphrase string
	apiURL     string
	verbose    bool

	wire *app.Wire
	log  logging.Logger
)

// Execute builds the command tree and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:   "trustcore",
		Short: "Account trust core: master secret, backup keys and device linking",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".trustcore")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			log = logging.Logger{Verbose: verbose}

			var err error
			wire, err = app.NewWire(app.Config{Home: home, APIURL: apiURL})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.trustcore)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting stored credentials")
	root.PersistentFlags().StringVar(&apiURL, "api", "", "account server base URL (e.g. https://api.example.com)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(initCmd(), backupCmd(), restoreCmd(), fingerprintCmd(), linkCmd(), approveCmd())
	return root.Execute()
}

func requirePassphrase() error {
	if passphrase == "" {
		return fmt.Errorf("passphrase required (-p)")
	}
	return nil
}

func requireAPI() error {
	if wire.API == nil {
		return fmt.Errorf("account server URL required (--api)")
	}
	return nil
}
