package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/trustcore/internal/services/account"
)

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Display the account's backup key",
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

			backup, err := sess.BackupKey()
			if err != nil {
				return err
			}
			fmt.Println(backup)
			return nil
		},
	}
}
