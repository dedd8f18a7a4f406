package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/trustcore/internal/services/account"
)

func approveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <link>",
		Short: "Approve a linking request scanned or pasted from a new device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := requireAPI(); err != nil {
				return err
			}

			creds, err := wire.Credentials.LoadCredentials(passphrase)
			if err != nil {
				return err
			}
			sess := account.NewSession(creds)
			defer sess.Close()

			if err := sess.Approve(cmd.Context(), wire.API, args[0]); err != nil {
				return fmt.Errorf("approving link request: %w", err)
			}
			fmt.Println("Approval sent. The new device will finish linking on its own.")
			return nil
		},
	}
}
