package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-credential-issuer/address/postcodelookup"
	"github.com/jrsteele09/go-credential-issuer/auth"
	ssmclientrepo "github.com/jrsteele09/go-credential-issuer/clients/ssmrepo"
	"github.com/jrsteele09/go-credential-issuer/credential"
	"github.com/jrsteele09/go-credential-issuer/credential/kmssigner"
	"github.com/jrsteele09/go-credential-issuer/internal/config"
	"github.com/jrsteele09/go-credential-issuer/server"
	dynamosessionrepo "github.com/jrsteele09/go-credential-issuer/sessions/dynamorepo"
	"github.com/jrsteele09/go-credential-issuer/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	handler, err := buildServer(context.Background(), c)
	if err != nil {
		return fmt.Errorf("buildServer: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildServer(ctx context.Context, c config.Config) (*server.Server, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.GetAWSRegion()))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	clientRepo := ssmclientrepo.NewSSMClientRepo(ssm.NewFromConfig(awsCfg), c.GetClientConfigPathPrefix())
	sessionRepo := dynamosessionrepo.NewDynamoSessionRepo(dynamodb.NewFromConfig(awsCfg), c.GetSessionTableName())

	validator, err := auth.NewRequestValidator(clientRepo)
	if err != nil {
		return nil, err
	}
	sessionService, err := auth.NewSessionService(sessionRepo, c.GetSessionTTL())
	if err != nil {
		return nil, err
	}
	exchange, err := token.NewEngine(sessionRepo, c.GetBearerTokenTTL())
	if err != nil {
		return nil, err
	}

	signer, err := kmssigner.NewKMSSigner(
		kms.NewFromConfig(awsCfg),
		c.GetVerifiableCredentialKMSSigningKeyID(),
		c.GetVerifiableCredentialSigningAlgorithm(),
	)
	if err != nil {
		return nil, err
	}
	issuer, err := credential.NewIssuer(signer, c.GetVerifiableCredentialIssuer(), c.GetMaxJWTTTL())
	if err != nil {
		return nil, err
	}

	postcode := postcodelookup.NewService(http.DefaultClient, c.GetOSAPIURL(), c.GetOSAPIKey())

	return server.New(c, server.Services{
		Validator: validator,
		Sessions:  sessionService,
		Exchange:  exchange,
		Issuer:    issuer,
		Postcode:  postcode,
		Store:     sessionRepo,
	})
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
