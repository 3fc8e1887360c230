package clients

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no configuration exists for a client ID.
var ErrNotFound = errors.New("client configuration not found")

// Repo defines the interface for client configuration lookup.
// Configuration is externally sourced and read-only.
type Repo interface {
	// Get returns the auth configuration for a client ID.
	// Returns ErrNotFound when the client is unknown.
	Get(ctx context.Context, clientID string) (*ClientAuthConfig, error)
}
