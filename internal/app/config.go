package app

import "net/http"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home   string       // config directory, e.g. $HOME/.trustcore
	APIURL string       // account server base URL; empty for offline commands
	HTTP   *http.Client // optional; defaults to http.DefaultClient
}
