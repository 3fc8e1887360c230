package kmssigner

import (
	"context"
	"crypto/sha256"
	"encoding/asn1"
	"math/big"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-credential-issuer/credential"
)

// KMSAPI is the subset of the KMS client used for signing, narrowed so
// tests can inject a fake.
type KMSAPI interface {
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
}

var _ credential.Signer = (*KMSSigner)(nil)

// KMSSigner signs credential payloads with a KMS-held asymmetric key. Only
// the key id lives in the process; the private key never leaves KMS.
type KMSSigner struct {
	api       KMSAPI
	keyID     string
	algorithm string
}

// NewKMSSigner creates a signer for the given KMS key. Supported JWS
// algorithms are ES256 and RS256.
func NewKMSSigner(api KMSAPI, keyID, algorithm string) (*KMSSigner, error) {
	if api == nil {
		return nil, errors.New("[NewKMSSigner] KMS api is required")
	}
	if keyID == "" {
		return nil, errors.New("[NewKMSSigner] key id is required")
	}
	switch algorithm {
	case "ES256", "RS256":
	default:
		return nil, errors.Errorf("[NewKMSSigner] unsupported algorithm %q", algorithm)
	}

	return &KMSSigner{
		api:       api,
		keyID:     keyID,
		algorithm: algorithm,
	}, nil
}

func (s *KMSSigner) Algorithm() string {
	return s.algorithm
}

// Sign hashes the signing input locally and asks KMS to sign the digest.
// ECDSA signatures come back DER-encoded and are transcoded to the fixed
// length R||S form JWS requires.
func (s *KMSSigner) Sign(ctx context.Context, signingInput []byte) ([]byte, error) {
	digest := sha256.Sum256(signingInput)

	out, err := s.api.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(s.keyID),
		Message:          digest[:],
		MessageType:      kmstypes.MessageTypeDigest,
		SigningAlgorithm: s.signingAlgorithmSpec(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "[KMSSigner.Sign] kms.Sign")
	}

	if s.algorithm == "ES256" {
		return derToJOSE(out.Signature, 32)
	}
	return out.Signature, nil
}

func (s *KMSSigner) signingAlgorithmSpec() kmstypes.SigningAlgorithmSpec {
	if s.algorithm == "ES256" {
		return kmstypes.SigningAlgorithmSpecEcdsaSha256
	}
	return kmstypes.SigningAlgorithmSpecRsassaPkcs1V15Sha256
}

// derToJOSE converts a DER-encoded ECDSA signature to the concatenated
// R||S encoding, left padding each component to the curve's byte size.
func derToJOSE(der []byte, componentSize int) ([]byte, error) {
	var sig struct {
		R, S *big.Int
	}
	if _, err := asn1.Unmarshal(der, &sig); err != nil {
		return nil, errors.Wrap(err, "[derToJOSE] could not decode DER signature")
	}

	rBytes := sig.R.Bytes()
	sBytes := sig.S.Bytes()
	if len(rBytes) > componentSize || len(sBytes) > componentSize {
		return nil, errors.New("[derToJOSE] signature component exceeds curve size")
	}

	jose := make([]byte, 2*componentSize)
	copy(jose[componentSize-len(rBytes):componentSize], rBytes)
	copy(jose[2*componentSize-len(sBytes):], sBytes)
	return jose, nil
}
