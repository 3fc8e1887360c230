package credential

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-credential-issuer/address"
)

// Issuer assembles and signs verifiable address credentials. The claims
// set is built locally; the signature is delegated to the configured
// Signer.
type Issuer struct {
	signer    Signer
	issuer    string
	maxJWTTTL time.Duration
	nowTime   func() time.Time
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

// NewIssuer initializes a new Issuer with required dependencies.
func NewIssuer(signer Signer, issuerName string, maxJWTTTL time.Duration, options ...IssuerOption) (*Issuer, error) {
	if signer == nil {
		return nil, errors.New("[NewIssuer] signer is required")
	}
	if jwt.GetSigningMethod(signer.Algorithm()) == nil {
		return nil, errors.Errorf("[NewIssuer] unknown signing algorithm %q", signer.Algorithm())
	}
	if issuerName == "" {
		return nil, errors.New("[NewIssuer] issuer name is required")
	}
	if maxJWTTTL <= 0 {
		return nil, errors.New("[NewIssuer] max JWT TTL must be positive")
	}

	i := &Issuer{
		signer:    signer,
		issuer:    issuerName,
		maxJWTTTL: maxJWTTTL,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(i)
	}

	return i, nil
}

// IssueCredential builds the verifiable-credential claims set for a
// subject's address history and returns it as a compact signed JWT. The
// addresses are embedded verbatim; date linking happens upstream.
func (i *Issuer) IssueCredential(ctx context.Context, subject string, addresses []address.CanonicalAddress) (string, error) {
	now := i.nowTime()

	claims := jwt.MapClaims{
		"sub": subject,
		"iss": i.issuer,
		"nbf": now.Unix(),
		"exp": now.Add(i.maxJWTTTL).Unix(),
		vcClaim: map[string]any{
			vcTypeKey:    []string{verifiableCredentialType, addressCredentialType},
			vcContextKey: []string{w3BaseContext, diContext},
			vcCredentialSubject: map[string]any{
				vcAddressKey: addresses,
			},
		},
	}

	unsigned := jwt.NewWithClaims(jwt.GetSigningMethod(i.signer.Algorithm()), claims)
	signingInput, err := unsigned.SigningString()
	if err != nil {
		return "", errors.Wrap(ErrSigningFailed, err.Error())
	}

	signature, err := i.signer.Sign(ctx, []byte(signingInput))
	if err != nil {
		return "", errors.Wrap(ErrSigningFailed, err.Error())
	}

	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}
