package clients

// ClientAuthConfig holds the statically configured trust material for a
// relying party. One config exists per registered client; the service never
// writes to it.
type ClientAuthConfig struct {
	// RedirectURI is the single URI registered for the client. Session
	// creation and token exchange both require an exact match against it.
	RedirectURI string `json:"redirectUri"`

	// SigningAlgorithm is the JWS algorithm the client must use on its
	// request assertions, e.g. "RS256" or "ES256".
	SigningAlgorithm string `json:"authenticationAlg"`

	// Issuer is the exact value expected in the assertion's "iss" claim.
	Issuer string `json:"issuer"`

	// PublicCertificate is a base64-encoded X.509 certificate whose public
	// key verifies the client's assertion signatures.
	PublicCertificate string `json:"publicCertificateToVerify"`
}

// IsEmpty reports whether the config carries no usable trust material.
// A client with an empty config is treated the same as an unknown client.
func (c *ClientAuthConfig) IsEmpty() bool {
	return c == nil ||
		(c.RedirectURI == "" && c.SigningAlgorithm == "" && c.Issuer == "" && c.PublicCertificate == "")
}
