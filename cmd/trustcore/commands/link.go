package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/denysvitali/trustcore/internal/protocol/pairing"
	"github.com/denysvitali/trustcore/internal/services/account"
)

func linkCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Join an existing account by showing a QR code to an authenticated device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			if err := requireAPI(); err != nil {
				return err
			}

			sess, err := pairing.NewSession(wire.API, pairing.Options{Deadline: timeout})
			if err != nil {
				return err
			}
			defer sess.Discard()

			ctx := cmd.Context()
			if err := sess.Start(ctx); err != nil {
				return err
			}

			payload := sess.Payload()
			fmt.Println("Scan this code from a device that is already signed in:")
			qrterminal.GenerateWithConfig(payload, qrterminal.Config{
				Level:     qrterminal.L,
				Writer:    os.Stdout,
				BlackChar: qrterminal.BLACK,
				WhiteChar: qrterminal.WHITE,
				QuietZone: 1,
			})
			fmt.Printf("Or paste this link on the other device:\n  %s\n\n", payload)

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			sp.Suffix = " waiting for approval..."
			sp.Start()
			creds, err := sess.Wait(ctx)
			sp.Stop()

			switch {
			case errors.Is(err, pairing.ErrRejected):
				return fmt.Errorf("the other device rejected this request")
			case errors.Is(err, pairing.ErrExpired):
				return fmt.Errorf("no approval within %s; run link again to retry", timeout)
			case errors.Is(err, pairing.ErrTampered):
				return fmt.Errorf("the approval response could not be authenticated; run link again")
			case err != nil:
				return err
			}

			if err := wire.Credentials.SaveCredentials(passphrase, creds); err != nil {
				return err
			}

			acct := account.NewSession(creds)
			defer acct.Close()
			fp, err := acct.Fingerprint()
			if err != nil {
				return err
			}
			log.Infof("credentials stored in %s", home)
			fmt.Printf("Device linked.\nFingerprint: %s\n", fp)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", pairing.DefaultDeadline, "how long to wait for approval")
	return cmd
}
