package sessions

import (
	"time"

	"github.com/jrsteele09/go-credential-issuer/address"
)

// Session tracks one credential-issuance flow from creation through token
// exchange to credential signing.
//
// Lifecycle: written once at creation, mutated once when the token exchange
// binds an access token, then read-only. Expired sessions are treated as
// non-existent by every operation; an external TTL sweep owns deletion.
type Session struct {
	// SessionID is the immutable primary key, generated at creation.
	SessionID string `json:"sessionId" dynamodbav:"sessionId"`

	// ClientID identifies the relying party the session was created for.
	ClientID string `json:"clientId" dynamodbav:"clientId"`

	// RedirectURI is pinned at creation from the validated request; the
	// token exchange must echo it back exactly.
	RedirectURI string `json:"redirectUri" dynamodbav:"redirectUri"`

	// State is the client's opaque correlation value, passed through
	// unmodified.
	State string `json:"state" dynamodbav:"state"`

	// AuthorizationCode is the single-use secret exchanged for the access
	// token. Unique across all sessions, looked up via secondary index.
	AuthorizationCode string `json:"authorizationCode" dynamodbav:"authorizationCode"`

	// AccessToken is absent until the exchange succeeds. At most one token
	// is ever bound to a session.
	AccessToken string `json:"accessToken,omitempty" dynamodbav:"accessToken,omitempty"`

	// Addresses holds the subject's collected address history, written by
	// the address submission step and consumed at credential issuance.
	Addresses []address.CanonicalAddress `json:"addresses,omitempty" dynamodbav:"addresses,omitempty"`

	// ExpiryDate is an absolute epoch-seconds deadline.
	ExpiryDate int64 `json:"expiryDate" dynamodbav:"expiryDate"`
}

// Expired reports whether the session's deadline has passed at the given
// instant.
func (s *Session) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiryDate
}
