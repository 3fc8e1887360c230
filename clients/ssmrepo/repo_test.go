package ssmclientrepo_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-credential-issuer/clients"
	ssmclientrepo "github.com/jrsteele09/go-credential-issuer/clients/ssmrepo"
)

type fakeParameters struct {
	pages  []*ssm.GetParametersByPathOutput
	inputs []*ssm.GetParametersByPathInput
	err    error
}

func (f *fakeParameters) GetParametersByPath(_ context.Context, params *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	page := f.pages[len(f.inputs)-1]
	return page, nil
}

func parameter(name, value string) ssmtypes.Parameter {
	return ssmtypes.Parameter{Name: aws.String(name), Value: aws.String(value)}
}

func TestGetReadsClientConfiguration(t *testing.T) {
	api := &fakeParameters{pages: []*ssm.GetParametersByPathOutput{{
		Parameters: []ssmtypes.Parameter{
			parameter("/clients/ipv-core/jwtAuthentication/redirectUri", "https://rp.example/callback"),
			parameter("/clients/ipv-core/jwtAuthentication/authenticationAlg", "RS256"),
			parameter("/clients/ipv-core/jwtAuthentication/issuer", "https://ipv-core.example"),
			parameter("/clients/ipv-core/jwtAuthentication/publicCertificateToVerify", "base64-cert"),
		},
	}}}
	repo := ssmclientrepo.NewSSMClientRepo(api, "/clients")

	config, err := repo.Get(context.Background(), "ipv-core")
	require.NoError(t, err)
	require.Equal(t, &clients.ClientAuthConfig{
		RedirectURI:       "https://rp.example/callback",
		SigningAlgorithm:  "RS256",
		Issuer:            "https://ipv-core.example",
		PublicCertificate: "base64-cert",
	}, config)

	require.Len(t, api.inputs, 1)
	require.Equal(t, "/clients/ipv-core/jwtAuthentication", *api.inputs[0].Path)
	require.True(t, *api.inputs[0].WithDecryption)
}

func TestGetFollowsPagination(t *testing.T) {
	api := &fakeParameters{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []ssmtypes.Parameter{
				parameter("/clients/ipv-core/jwtAuthentication/redirectUri", "https://rp.example/callback"),
				parameter("/clients/ipv-core/jwtAuthentication/authenticationAlg", "ES256"),
			},
			NextToken: aws.String("page-2"),
		},
		{
			Parameters: []ssmtypes.Parameter{
				parameter("/clients/ipv-core/jwtAuthentication/issuer", "https://ipv-core.example"),
				parameter("/clients/ipv-core/jwtAuthentication/publicCertificateToVerify", "base64-cert"),
			},
		},
	}}
	repo := ssmclientrepo.NewSSMClientRepo(api, "/clients")

	config, err := repo.Get(context.Background(), "ipv-core")
	require.NoError(t, err)
	require.Equal(t, "ES256", config.SigningAlgorithm)
	require.Equal(t, "https://ipv-core.example", config.Issuer)

	require.Len(t, api.inputs, 2)
	require.Nil(t, api.inputs[0].NextToken)
	require.Equal(t, "page-2", *api.inputs[1].NextToken)
}

func TestGetTrimsTrailingSlashFromPrefix(t *testing.T) {
	api := &fakeParameters{pages: []*ssm.GetParametersByPathOutput{{
		Parameters: []ssmtypes.Parameter{
			parameter("/clients/ipv-core/jwtAuthentication/redirectUri", "https://rp.example/callback"),
		},
	}}}
	repo := ssmclientrepo.NewSSMClientRepo(api, "/clients/")

	_, err := repo.Get(context.Background(), "ipv-core")
	require.NoError(t, err)
	require.Equal(t, "/clients/ipv-core/jwtAuthentication", *api.inputs[0].Path)
}

func TestGetUnknownClient(t *testing.T) {
	api := &fakeParameters{pages: []*ssm.GetParametersByPathOutput{{}}}
	repo := ssmclientrepo.NewSSMClientRepo(api, "/clients")

	_, err := repo.Get(context.Background(), "unknown-client")
	require.ErrorIs(t, err, clients.ErrNotFound)
}

func TestGetParameterStoreFailure(t *testing.T) {
	api := &fakeParameters{err: context.DeadlineExceeded}
	repo := ssmclientrepo.NewSSMClientRepo(api, "/clients")

	_, err := repo.Get(context.Background(), "ipv-core")
	require.Error(t, err)
	require.NotErrorIs(t, err, clients.ErrNotFound)
}
