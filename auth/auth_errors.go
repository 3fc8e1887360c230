package auth

import "errors"

// Validation failures are reported to the caller as client errors; the
// first failing check wins and nothing is persisted.
var (
	ErrRequestMalformed    = errors.New("could not parse request body")
	ErrClientConfigMissing = errors.New("no configuration for client id")
	ErrRedirectURIMismatch = errors.New("redirect uri does not match configuration")
	ErrAssertionMalformed  = errors.New("could not parse request JWT")
	ErrAlgorithmMismatch   = errors.New("jwt signing algorithm does not match algorithm configured for client")
	ErrClaimsInvalid       = errors.New("jwt claims verification failed")
	ErrSignatureInvalid    = errors.New("jwt signature verification failed")
	ErrUnsupportedKeyType  = errors.New("unknown public jwt signing key type")
)

// ErrClientConfigInvalid indicates the stored certificate for a client
// could not be decoded. Unlike the validation errors above this is a
// server-side configuration fault.
var ErrClientConfigInvalid = errors.New("client configuration invalid")
