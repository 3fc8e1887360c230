package config

import "time"

type CredentialConfig interface {
	GetVerifiableCredentialIssuer() string
	GetVerifiableCredentialKMSSigningKeyID() string
	GetVerifiableCredentialSigningAlgorithm() string
	GetMaxJWTTTL() time.Duration
}

type Credential struct{}

var _ CredentialConfig = Credential{}

func (Credential) GetVerifiableCredentialIssuer() string {
	return GetEnv("VERIFIABLE_CREDENTIAL_ISSUER", "")
}

func (Credential) GetVerifiableCredentialKMSSigningKeyID() string {
	return GetEnv("VERIFIABLE_CREDENTIAL_KMS_SIGNING_KEY_ID", "")
}

func (Credential) GetVerifiableCredentialSigningAlgorithm() string {
	return GetEnv("VERIFIABLE_CREDENTIAL_SIGNING_ALGORITHM", "ES256")
}

func (Credential) GetMaxJWTTTL() time.Duration {
	return durationSecondsEnv("MAX_JWT_TTL_SECONDS", 21600) // six hours
}
