package auth_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-credential-issuer/auth"
	"github.com/jrsteele09/go-credential-issuer/clients"
	fakeclientrepo "github.com/jrsteele09/go-credential-issuer/clients/fakerepo"
)

const (
	testClientID    = "ipv-core"
	testIssuer      = "https://ipv-core.example"
	testRedirectURI = "https://rp.example/callback"
	testState       = "random-state-value"
)

var testNow = time.Date(2022, time.March, 1, 12, 0, 0, 0, time.UTC)

// validatorFixture holds the client repo and validator under test plus the
// keys used to mint assertions.
type validatorFixture struct {
	clientRepo *fakeclientrepo.FakeClientRepo
	validator  *auth.RequestValidator
	rsaKey     *rsa.PrivateKey
	ecKey      *ecdsa.PrivateKey
}

func setupValidatorFixture(t *testing.T) *validatorFixture {
	t.Helper()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	cr := fakeclientrepo.NewFakeClientRepo()
	cr.Upsert(testClientID, &clients.ClientAuthConfig{
		RedirectURI:       testRedirectURI,
		SigningAlgorithm:  "RS256",
		Issuer:            testIssuer,
		PublicCertificate: selfSignedCertificate(t, &rsaKey.PublicKey, rsaKey),
	})

	validator, err := auth.NewRequestValidator(cr, auth.WithNowTime(func() time.Time { return testNow }))
	require.NoError(t, err)

	return &validatorFixture{
		clientRepo: cr,
		validator:  validator,
		rsaKey:     rsaKey,
		ecKey:      ecKey,
	}
}

// selfSignedCertificate returns a base64 DER certificate for the given
// public key, signed by the supplied private key.
func selfSignedCertificate(t *testing.T, publicKey any, signingKey any) string {
	t.Helper()

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: testClientID},
		NotBefore:    testNow.Add(-time.Hour),
		NotAfter:     testNow.Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, publicKey, signingKey)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(der)
}

func signedAssertion(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss": testIssuer,
		"exp": testNow.Add(5 * time.Minute).Unix(),
		"nbf": testNow.Add(-time.Minute).Unix(),
	}
}

func sessionRequestBody(t *testing.T, clientID, redirectURI, requestJWT string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"clientId":    clientID,
		"redirectUri": redirectURI,
		"state":       testState,
		"requestJWT":  requestJWT,
	})
	require.NoError(t, err)
	return body
}

func TestValidateSucceedsForWellFormedRequest(t *testing.T) {
	f := setupValidatorFixture(t)
	assertion := signedAssertion(t, jwt.SigningMethodRS256, f.rsaKey, validClaims())
	body := sessionRequestBody(t, testClientID, testRedirectURI, assertion)

	request, err := f.validator.Validate(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, testClientID, request.ClientID)
	require.Equal(t, testRedirectURI, request.RedirectURI)
	require.Equal(t, testState, request.State)
}

func TestValidateIsIdempotent(t *testing.T) {
	f := setupValidatorFixture(t)
	assertion := signedAssertion(t, jwt.SigningMethodRS256, f.rsaKey, validClaims())
	body := sessionRequestBody(t, testClientID, testRedirectURI, assertion)

	first, err := f.validator.Validate(context.Background(), body)
	require.NoError(t, err)
	second, err := f.validator.Validate(context.Background(), body)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestValidateRejectsMalformedBody(t *testing.T) {
	f := setupValidatorFixture(t)

	_, err := f.validator.Validate(context.Background(), []byte("not json"))
	require.ErrorIs(t, err, auth.ErrRequestMalformed)
}

func TestValidateRejectsUnknownClient(t *testing.T) {
	f := setupValidatorFixture(t)
	assertion := signedAssertion(t, jwt.SigningMethodRS256, f.rsaKey, validClaims())
	body := sessionRequestBody(t, "unknown-client", testRedirectURI, assertion)

	_, err := f.validator.Validate(context.Background(), body)
	require.ErrorIs(t, err, auth.ErrClientConfigMissing)
}

func TestValidateRejectsEmptyClientConfig(t *testing.T) {
	f := setupValidatorFixture(t)
	f.clientRepo.Upsert("hollow-client", &clients.ClientAuthConfig{})
	assertion := signedAssertion(t, jwt.SigningMethodRS256, f.rsaKey, validClaims())
	body := sessionRequestBody(t, "hollow-client", testRedirectURI, assertion)

	_, err := f.validator.Validate(context.Background(), body)
	require.ErrorIs(t, err, auth.ErrClientConfigMissing)
}

func TestValidateRejectsRedirectURIMismatch(t *testing.T) {
	f := setupValidatorFixture(t)
	assertion := signedAssertion(t, jwt.SigningMethodRS256, f.rsaKey, validClaims())

	// No trailing-slash normalisation: a near-match is a mismatch.
	for _, uri := range []string{"", "https://rp.example/callback/", "http://rp.example/callback", "https://evil.example/callback"} {
		body := sessionRequestBody(t, testClientID, uri, assertion)
		_, err := f.validator.Validate(context.Background(), body)
		require.ErrorIs(t, err, auth.ErrRedirectURIMismatch, "uri %q", uri)
	}
}

func TestValidateRejectsUnparseableAssertion(t *testing.T) {
	f := setupValidatorFixture(t)
	body := sessionRequestBody(t, testClientID, testRedirectURI, "not.a.jwt")

	_, err := f.validator.Validate(context.Background(), body)
	require.ErrorIs(t, err, auth.ErrAssertionMalformed)
}

func TestValidateRejectsAlgorithmMismatch(t *testing.T) {
	f := setupValidatorFixture(t)

	// Client is pinned to RS256; an ES256 assertion must be rejected on
	// the header alone, before any signature work.
	assertion := signedAssertion(t, jwt.SigningMethodES256, f.ecKey, validClaims())
	body := sessionRequestBody(t, testClientID, testRedirectURI, assertion)

	_, err := f.validator.Validate(context.Background(), body)
	require.ErrorIs(t, err, auth.ErrAlgorithmMismatch)
}

func TestValidateRejectsDowngradeToRS384(t *testing.T) {
	f := setupValidatorFixture(t)
	assertion := signedAssertion(t, jwt.SigningMethodRS384, f.rsaKey, validClaims())
	body := sessionRequestBody(t, testClientID, testRedirectURI, assertion)

	_, err := f.validator.Validate(context.Background(), body)
	require.ErrorIs(t, err, auth.ErrAlgorithmMismatch)
}

func TestValidateRejectsBadClaims(t *testing.T) {
	f := setupValidatorFixture(t)

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"wrong issuer", jwt.MapClaims{"iss": "someone-else", "exp": testNow.Add(time.Minute).Unix(), "nbf": testNow.Add(-time.Minute).Unix()}},
		{"missing issuer", jwt.MapClaims{"exp": testNow.Add(time.Minute).Unix(), "nbf": testNow.Add(-time.Minute).Unix()}},
		{"missing exp", jwt.MapClaims{"iss": testIssuer, "nbf": testNow.Add(-time.Minute).Unix()}},
		{"missing nbf", jwt.MapClaims{"iss": testIssuer, "exp": testNow.Add(time.Minute).Unix()}},
		{"expired", jwt.MapClaims{"iss": testIssuer, "exp": testNow.Add(-time.Second).Unix(), "nbf": testNow.Add(-time.Minute).Unix()}},
		{"not yet valid", jwt.MapClaims{"iss": testIssuer, "exp": testNow.Add(time.Hour).Unix(), "nbf": testNow.Add(time.Minute).Unix()}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertion := signedAssertion(t, jwt.SigningMethodRS256, f.rsaKey, tc.claims)
			body := sessionRequestBody(t, testClientID, testRedirectURI, assertion)

			_, err := f.validator.Validate(context.Background(), body)
			require.ErrorIs(t, err, auth.ErrClaimsInvalid)
		})
	}
}

func TestValidateRejectsTamperedSignature(t *testing.T) {
	f := setupValidatorFixture(t)

	// Signed by a different RSA key than the one in the configured cert.
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	assertion := signedAssertion(t, jwt.SigningMethodRS256, otherKey, validClaims())
	body := sessionRequestBody(t, testClientID, testRedirectURI, assertion)

	_, err = f.validator.Validate(context.Background(), body)
	require.ErrorIs(t, err, auth.ErrSignatureInvalid)
}

func TestValidateVerifiesECDSAAssertions(t *testing.T) {
	f := setupValidatorFixture(t)
	f.clientRepo.Upsert("ec-client", &clients.ClientAuthConfig{
		RedirectURI:       testRedirectURI,
		SigningAlgorithm:  "ES256",
		Issuer:            testIssuer,
		PublicCertificate: selfSignedCertificate(t, &f.ecKey.PublicKey, f.ecKey),
	})

	assertion := signedAssertion(t, jwt.SigningMethodES256, f.ecKey, validClaims())
	body := sessionRequestBody(t, "ec-client", testRedirectURI, assertion)

	_, err := f.validator.Validate(context.Background(), body)
	require.NoError(t, err)
}

func TestValidateRejectsUnsupportedKeyType(t *testing.T) {
	f := setupValidatorFixture(t)

	// An Ed25519 certificate is neither RSA nor EC.
	edCert, edKey := ed25519Certificate(t)
	f.clientRepo.Upsert("ed-client", &clients.ClientAuthConfig{
		RedirectURI:       testRedirectURI,
		SigningAlgorithm:  "EdDSA",
		Issuer:            testIssuer,
		PublicCertificate: edCert,
	})

	assertion := signedAssertion(t, jwt.SigningMethodEdDSA, edKey, validClaims())
	body := sessionRequestBody(t, "ed-client", testRedirectURI, assertion)

	_, err := f.validator.Validate(context.Background(), body)
	require.ErrorIs(t, err, auth.ErrUnsupportedKeyType)
}

// ed25519Certificate returns a base64 DER certificate over a fresh Ed25519
// key plus the key itself, so the caller can mint matching assertions.
func ed25519Certificate(t *testing.T) (string, ed25519.PrivateKey) {
	t.Helper()

	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	return selfSignedCertificate(t, publicKey, privateKey), privateKey
}

func TestValidateRejectsUndecodableCertificate(t *testing.T) {
	f := setupValidatorFixture(t)
	f.clientRepo.Upsert("broken-client", &clients.ClientAuthConfig{
		RedirectURI:       testRedirectURI,
		SigningAlgorithm:  "RS256",
		Issuer:            testIssuer,
		PublicCertificate: "!!!! not base64 !!!!",
	})

	assertion := signedAssertion(t, jwt.SigningMethodRS256, f.rsaKey, validClaims())
	body := sessionRequestBody(t, "broken-client", testRedirectURI, assertion)

	_, err := f.validator.Validate(context.Background(), body)
	require.ErrorIs(t, err, auth.ErrClientConfigInvalid)
}
