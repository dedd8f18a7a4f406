package interfaces

import domaintypes "github.com/denysvitali/trustcore/internal/domain/types"

// CredentialStore persists the account credentials at rest, encrypted under
// a user passphrase. How the blob is stored is the implementation's concern;
// callers only ever see the decrypted credentials.
type CredentialStore interface {
	SaveCredentials(passphrase string, creds domaintypes.Credentials) error
	LoadCredentials(passphrase string) (domaintypes.Credentials, error)
	DeleteCredentials() error
}
