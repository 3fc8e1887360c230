package sessions

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-credential-issuer/address"
)

var (
	// ErrNotFound is returned when no session matches the given key.
	// Expired sessions are reported as not found.
	ErrNotFound = errors.New("session not found")

	// ErrTokenAlreadyIssued is returned by UpdateAccessToken when the
	// session already holds a token. The conditional write is what makes
	// code redemption single-use under concurrent exchanges.
	ErrTokenAlreadyIssued = errors.New("access token already issued for session")
)

// Repo defines the interface for session persistence.
type Repo interface {
	// Put stores a newly created session.
	Put(ctx context.Context, session *Session) error

	// Get retrieves a session by its primary key.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// GetByAuthorizationCode retrieves the session holding an
	// authorization code via secondary index. At most one non-expired
	// session may hold a given code.
	GetByAuthorizationCode(ctx context.Context, code string) (*Session, error)

	// GetByAccessToken retrieves the session bound to a bearer token via
	// secondary index.
	GetByAccessToken(ctx context.Context, token string) (*Session, error)

	// UpdateAccessToken binds a bearer token to the session. The write is
	// conditional on no token being bound yet; a second redemption gets
	// ErrTokenAlreadyIssued.
	UpdateAccessToken(ctx context.Context, sessionID, token string) error

	// UpdateAddresses replaces the session's collected address history.
	UpdateAddresses(ctx context.Context, sessionID string, addresses []address.CanonicalAddress) error
}
