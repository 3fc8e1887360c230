package token

import (
	"net/url"

	"github.com/pkg/errors"
)

// AuthorizationCodeGrant is the only grant the token endpoint accepts.
const AuthorizationCodeGrant = "authorization_code"

// Form parameter names for the token exchange request.
const (
	codeParam        = "code"
	clientIDParam    = "client_id"
	redirectURIParam = "redirect_uri"
	grantTypeParam   = "grant_type"
	scopeParam       = "scope"
)

// TokenRequest holds the parsed parameters of a token exchange request.
type TokenRequest struct {
	Code        string
	ClientID    string
	RedirectURI string
	GrantType   string
	Scope       string
}

// ParseTokenRequest parses a URL-encoded form body into a TokenRequest.
// Each required parameter must appear exactly once; zero or repeated
// occurrences fail parsing before any grant validation runs.
func ParseTokenRequest(body string) (*TokenRequest, error) {
	values, err := url.ParseQuery(body)
	if err != nil {
		return nil, errors.Wrap(ErrParameterCardinality, "could not parse form body")
	}

	request := &TokenRequest{}
	for param, target := range map[string]*string{
		codeParam:        &request.Code,
		clientIDParam:    &request.ClientID,
		redirectURIParam: &request.RedirectURI,
		grantTypeParam:   &request.GrantType,
	} {
		value, err := singleValue(values, param)
		if err != nil {
			return nil, err
		}
		*target = value
	}

	// Scope is optional but must still be single-valued when present.
	if scopes := values[scopeParam]; len(scopes) > 0 {
		scope, err := singleValue(values, scopeParam)
		if err != nil {
			return nil, err
		}
		request.Scope = scope
	}

	return request, nil
}

func singleValue(values url.Values, param string) (string, error) {
	list := values[param]
	if len(list) != 1 {
		return "", errors.Wrapf(ErrParameterCardinality, "%s occurred %d times", param, len(list))
	}
	return list[0], nil
}
