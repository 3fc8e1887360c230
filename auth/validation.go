package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-credential-issuer/clients"
)

// SessionRequest is the session-creation request body. The embedded
// RequestJWT is the client's signed assertion; the remaining fields are
// copied onto the session once the assertion checks out.
type SessionRequest struct {
	ClientID    string `json:"clientId"`
	RedirectURI string `json:"redirectUri"`
	State       string `json:"state"`
	RequestJWT  string `json:"requestJWT"`
}

// RequestValidator authenticates session-creation requests against the
// per-client configuration. It holds no per-request state, so validating
// the same request twice yields the same result.
type RequestValidator struct {
	clients clients.Repo
	nowTime func() time.Time
}

// RequestValidatorOption defines a function type to modify the RequestValidator instance.
type RequestValidatorOption func(*RequestValidator)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) RequestValidatorOption {
	return func(rv *RequestValidator) {
		rv.nowTime = nowFunc
	}
}

// NewRequestValidator initializes a new RequestValidator with required dependencies.
func NewRequestValidator(clientRepo clients.Repo, options ...RequestValidatorOption) (*RequestValidator, error) {
	if clientRepo == nil {
		return nil, errors.New("[NewRequestValidator] Clients repo is required")
	}

	rv := &RequestValidator{
		clients: clientRepo,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(rv)
	}

	return rv, nil
}

// Validate runs the sequential session-request checks: body parse, client
// config lookup, redirect URI binding, assertion parse, algorithm pin,
// claims window, signature. The first failure is returned.
func (rv *RequestValidator) Validate(ctx context.Context, requestBody []byte) (*SessionRequest, error) {
	var request SessionRequest
	if err := json.Unmarshal(requestBody, &request); err != nil {
		return nil, errors.Wrap(ErrRequestMalformed, err.Error())
	}

	config, err := rv.clients.Get(ctx, request.ClientID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, errors.Wrapf(ErrClientConfigMissing, "client id %q", request.ClientID)
		}
		return nil, errors.Wrap(err, "[RequestValidator.Validate] clients.Get")
	}
	if config.IsEmpty() {
		return nil, errors.Wrapf(ErrClientConfigMissing, "client id %q", request.ClientID)
	}

	// Exact string match, no normalisation of scheme or trailing slashes.
	if request.RedirectURI == "" || request.RedirectURI != config.RedirectURI {
		return nil, errors.Wrapf(ErrRedirectURIMismatch, "%q does not match %q", request.RedirectURI, config.RedirectURI)
	}

	assertion, parts, err := jwt.NewParser().ParseUnverified(request.RequestJWT, jwt.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(ErrAssertionMalformed, err.Error())
	}

	if err := verifyHeader(config, assertion); err != nil {
		return nil, err
	}
	if err := rv.verifyClaims(config, assertion); err != nil {
		return nil, err
	}
	if err := verifySignature(config, assertion, parts); err != nil {
		return nil, err
	}

	return &request, nil
}

// verifyHeader pins the assertion's declared algorithm to the one
// configured for the client, blocking algorithm-substitution downgrades.
func verifyHeader(config *clients.ClientAuthConfig, assertion *jwt.Token) error {
	if assertion.Method.Alg() != config.SigningAlgorithm {
		return errors.Wrapf(ErrAlgorithmMismatch, "%s does not match %s", assertion.Method.Alg(), config.SigningAlgorithm)
	}
	return nil
}

func (rv *RequestValidator) verifyClaims(config *clients.ClientAuthConfig, assertion *jwt.Token) error {
	now := rv.nowTime()

	issuer, err := assertion.Claims.GetIssuer()
	if err != nil || issuer != config.Issuer {
		return errors.Wrap(ErrClaimsInvalid, "issuer mismatch")
	}

	exp, err := assertion.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return errors.Wrap(ErrClaimsInvalid, "exp claim missing")
	}
	if !now.Before(exp.Time) {
		return errors.Wrap(ErrClaimsInvalid, "assertion expired")
	}

	nbf, err := assertion.Claims.GetNotBefore()
	if err != nil || nbf == nil {
		return errors.Wrap(ErrClaimsInvalid, "nbf claim missing")
	}
	if now.Before(nbf.Time) {
		return errors.Wrap(ErrClaimsInvalid, "assertion not yet valid")
	}

	return nil
}

// verifySignature decodes the configured certificate and dispatches on the
// public key type: RSA keys get an RSA verifier, EC keys an ECDSA verifier,
// anything else is rejected outright.
func verifySignature(config *clients.ClientAuthConfig, assertion *jwt.Token, parts []string) error {
	publicKey, err := publicKeyFromCertificate(config.PublicCertificate)
	if err != nil {
		return errors.Wrap(ErrClientConfigInvalid, err.Error())
	}

	signature, err := jwt.NewParser().DecodeSegment(parts[2])
	if err != nil {
		return errors.Wrap(ErrAssertionMalformed, "could not decode signature")
	}
	signingString := strings.Join(parts[0:2], ".")

	switch key := publicKey.(type) {
	case *rsa.PublicKey:
		method, ok := assertion.Method.(*jwt.SigningMethodRSA)
		if !ok {
			return errors.Wrap(ErrSignatureInvalid, "algorithm is not an RSA scheme")
		}
		if err := method.Verify(signingString, signature, key); err != nil {
			return errors.Wrap(ErrSignatureInvalid, err.Error())
		}
	case *ecdsa.PublicKey:
		method, ok := assertion.Method.(*jwt.SigningMethodECDSA)
		if !ok {
			return errors.Wrap(ErrSignatureInvalid, "algorithm is not an ECDSA scheme")
		}
		if err := method.Verify(signingString, signature, key); err != nil {
			return errors.Wrap(ErrSignatureInvalid, err.Error())
		}
	default:
		return errors.Wrapf(ErrUnsupportedKeyType, "%T", publicKey)
	}

	return nil
}

func publicKeyFromCertificate(base64Certificate string) (any, error) {
	der, err := base64.StdEncoding.DecodeString(base64Certificate)
	if err != nil {
		return nil, errors.Wrap(err, "certificate is not valid base64")
	}
	certificate, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse X.509 certificate")
	}
	return certificate.PublicKey, nil
}
