// Package api provides the HTTP API server for the prefs hub: a remote
// preference store that clients sync against.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// AuthToken, when non-empty, is the bearer token required on every
	// request except /ping. Requests without it get 401.
	AuthToken string
}
