package ssmclientrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-credential-issuer/clients"
	"github.com/jrsteele09/go-credential-issuer/internal/utils"
)

// Parameter names expected under each client's configuration path.
const (
	redirectURIParam       = "redirectUri"
	signingAlgorithmParam  = "authenticationAlg"
	issuerParam            = "issuer"
	publicCertificateParam = "publicCertificateToVerify"
)

// ParametersAPI is the subset of the SSM client used for configuration
// lookup, narrowed so tests can inject a fake.
type ParametersAPI interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

var _ clients.Repo = (*SSMClientRepo)(nil)

// SSMClientRepo reads per-client auth configuration from the SSM parameter
// store. Each client's parameters live under pathPrefix/{clientID}/jwtAuthentication.
type SSMClientRepo struct {
	api        ParametersAPI
	pathPrefix string
}

func NewSSMClientRepo(api ParametersAPI, pathPrefix string) *SSMClientRepo {
	return &SSMClientRepo{
		api:        api,
		pathPrefix: strings.TrimSuffix(pathPrefix, "/"),
	}
}

func (cr *SSMClientRepo) Get(ctx context.Context, clientID string) (*clients.ClientAuthConfig, error) {
	path := fmt.Sprintf("%s/%s/jwtAuthentication", cr.pathPrefix, clientID)

	params := make(map[string]string)
	var nextToken *string
	for {
		out, err := cr.api.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
			Path:           aws.String(path),
			WithDecryption: aws.Bool(true),
			NextToken:      nextToken,
		})
		if err != nil {
			return nil, errors.Wrap(err, "[SSMClientRepo.Get] GetParametersByPath")
		}
		for _, p := range out.Parameters {
			name := utils.Value(p.Name)
			// Parameter names come back fully qualified
			if idx := strings.LastIndex(name, "/"); idx >= 0 {
				name = name[idx+1:]
			}
			params[name] = utils.Value(p.Value)
		}
		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	if len(params) == 0 {
		return nil, clients.ErrNotFound
	}

	return &clients.ClientAuthConfig{
		RedirectURI:       params[redirectURIParam],
		SigningAlgorithm:  params[signingAlgorithmParam],
		Issuer:            params[issuerParam],
		PublicCertificate: params[publicCertificateParam],
	}, nil
}
