package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/trustcore/internal/services/account"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new account and store its credentials securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}

			sess, err := account.Create()
			if err != nil {
				return err
			}
			defer sess.Close()

			creds, err := sess.Credentials()
			if err != nil {
				return err
			}
			if err := wire.Credentials.SaveCredentials(passphrase, creds); err != nil {
				return err
			}

			backup, err := sess.BackupKey()
			if err != nil {
				return err
			}
			fp, err := sess.Fingerprint()
			if err != nil {
				return err
			}

			fmt.Printf("Account created.\nFingerprint: %s\n\n", fp)
			fmt.Println("Backup key (write it down and store it somewhere safe):")
			fmt.Printf("  %s\n", backup)
			return nil
		},
	}
}
