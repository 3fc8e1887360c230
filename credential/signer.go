package credential

import (
	"context"
	"errors"
)

// ErrSigningFailed wraps any failure from the external signer. Issuance is
// not retried here; retry policy belongs to the signer collaborator.
var ErrSigningFailed = errors.New("credential signing failed")

// Signer produces a raw JWS signature over a signing input. The key never
// enters the process; implementations hold a key identifier and delegate
// the actual signing, e.g. to a managed KMS key.
type Signer interface {
	// Sign signs the JWS signing input (header.payload) and returns the
	// raw signature bytes in JOSE form.
	Sign(ctx context.Context, signingInput []byte) ([]byte, error)

	// Algorithm returns the JWS algorithm the signatures are made with,
	// e.g. "ES256".
	Algorithm() string
}
