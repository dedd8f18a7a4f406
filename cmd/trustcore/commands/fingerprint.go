package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/trustcore/internal/services/account"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Show the account identity fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}

			creds, err := wire.Credentials.LoadCredentials(passphrase)
			if err != nil {
				return err
			}
			sess := account.NewSession(creds)
			defer sess.Close()

			fp, err := sess.Fingerprint()
			if err != nil {
				return err
			}
			fmt.Println(fp)
			return nil
		},
	}
}
