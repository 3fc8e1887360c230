package token

import "errors"

var (
	// ErrParameterCardinality is returned when a required token-request
	// parameter is absent or repeated. Every parameter must appear
	// exactly once.
	ErrParameterCardinality = errors.New("parameter must have exactly one value")

	// ErrUnsupportedGrantType is returned for any grant_type other than
	// authorization_code.
	ErrUnsupportedGrantType = errors.New("unsupported grant type")

	// ErrInvalidGrant covers an unknown code, an expired session, a code
	// mismatch, a redirect mismatch and an already-redeemed code. The
	// kinds are deliberately not distinguished so a caller cannot probe
	// which check failed.
	ErrInvalidGrant = errors.New("invalid grant")
)
