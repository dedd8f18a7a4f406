package app

import (
	"net/http"

	"github.com/denysvitali/trustcore/internal/api"
	"github.com/denysvitali/trustcore/internal/domain"
	"github.com/denysvitali/trustcore/internal/store"
)

// Wire bundles the store and clients for the CLI.
type Wire struct {
	Credentials domain.CredentialStore
	API         domain.PairingAPI // nil when Config.APIURL is empty
	HTTP        *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	w := &Wire{
		Credentials: store.NewFileStore(cfg.Home),
		HTTP:        httpClient,
	}
	if cfg.APIURL != "" {
		w.API = api.New(cfg.APIURL, httpClient)
	}
	return w, nil
}
