package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/trustcore/internal/services/account"
)

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-key>",
		Short: "Recover an account from a transcribed backup key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}

			sess, err := account.Restore(args[0])
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

			fp, err := sess.Fingerprint()
			if err != nil {
				return err
			}
			fmt.Printf("Account restored.\nFingerprint: %s\n", fp)
			return nil
		},
	}
}
