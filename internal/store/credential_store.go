package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/denysvitali/trustcore/internal/domain"
	"github.com/denysvitali/trustcore/internal/util/memzero"
)

const credsFile = "credentials.enc"

// ErrNoCredentials is returned by LoadCredentials when nothing has been
// stored yet (fresh install or after sign-out).
var ErrNoCredentials = errors.New("store: no stored credentials")

// FileStore keeps the account credentials in a single passphrase-encrypted
// file under dir.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a credential store rooted at dir.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

var _ domain.CredentialStore = (*FileStore)(nil)

// SaveCredentials seals creds under passphrase and writes them to disk.
func (s *FileStore) SaveCredentials(passphrase string, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	N, r, p := scryptParamsDefault()
	b, err := seal(passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, credsFile), b, 0o600)
}

// LoadCredentials reads and decrypts the stored credentials.
func (s *FileStore) LoadCredentials(passphrase string) (domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, credsFile))
	if errors.Is(err, os.ErrNotExist) {
		return domain.Credentials{}, ErrNoCredentials
	}
	if err != nil {
		return domain.Credentials{}, err
	}
	raw, err := open(passphrase, b)
	if err != nil {
		return domain.Credentials{}, err
	}
	defer memzero.Zero(raw)

	var creds domain.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return domain.Credentials{}, err
	}
	return creds, nil
}

// DeleteCredentials removes the stored blob. Removing an absent blob is not
// an error.
func (s *FileStore) DeleteCredentials() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, credsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
