package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-credential-issuer/address"
	"github.com/jrsteele09/go-credential-issuer/address/postcodelookup"
	"github.com/jrsteele09/go-credential-issuer/auth"
	"github.com/jrsteele09/go-credential-issuer/sessions"
	"github.com/jrsteele09/go-credential-issuer/token"
)

// ErrorResponse is the machine-readable error body for non-token
// endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// errorMapping binds an error kind to its HTTP status and wire body. The
// boundary resolves errors through this static table rather than by
// inspecting error internals.
type errorMapping struct {
	kind    error
	status  int
	code    int
	message string
}

var errorTable = []errorMapping{
	{auth.ErrRequestMalformed, http.StatusBadRequest, 1000, "request body could not be parsed"},
	{auth.ErrClientConfigMissing, http.StatusBadRequest, 1001, "no configuration for client"},
	{auth.ErrRedirectURIMismatch, http.StatusBadRequest, 1002, "redirect uri does not match client configuration"},
	{auth.ErrAssertionMalformed, http.StatusBadRequest, 1003, "request JWT could not be parsed"},
	{auth.ErrAlgorithmMismatch, http.StatusBadRequest, 1004, "request JWT signing algorithm not valid for client"},
	{auth.ErrClaimsInvalid, http.StatusBadRequest, 1005, "request JWT claims verification failed"},
	{auth.ErrSignatureInvalid, http.StatusBadRequest, 1006, "request JWT signature verification failed"},
	{auth.ErrUnsupportedKeyType, http.StatusBadRequest, 1007, "client signing key type is not supported"},
	{sessions.ErrNotFound, http.StatusBadRequest, 1008, "session not found or expired"},
	{address.ErrTooManyAddresses, http.StatusBadRequest, 1009, "address history could not be processed"},
	{postcodelookup.ErrInvalidPostcode, http.StatusBadRequest, 1010, "invalid postcode"},
}

// writeError resolves an error kind against the table and writes the
// response. Anything unmapped is an infrastructure failure and yields a
// generic 500 so no internal detail leaks.
func writeError(w http.ResponseWriter, err error) {
	for _, mapping := range errorTable {
		if errors.Is(err, mapping.kind) {
			writeJSON(w, mapping.status, ErrorResponse{Code: mapping.code, Message: mapping.message})
			return
		}
	}
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Code: 1900, Message: "server error"})
}

// oauthError is the RFC 6749 error body used on the token endpoint.
type oauthError struct {
	Error string `json:"error"`
}

// writeTokenError maps token exchange failures to OAuth error codes.
func writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, token.ErrParameterCardinality):
		writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_request"})
	case errors.Is(err, token.ErrUnsupportedGrantType):
		writeJSON(w, http.StatusBadRequest, oauthError{Error: "unsupported_grant_type"})
	case errors.Is(err, token.ErrInvalidGrant):
		writeJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_grant"})
	default:
		writeJSON(w, http.StatusInternalServerError, oauthError{Error: "server_error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
