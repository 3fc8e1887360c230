package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-credential-issuer/address/postcodelookup"
	"github.com/jrsteele09/go-credential-issuer/auth"
	"github.com/jrsteele09/go-credential-issuer/credential"
	"github.com/jrsteele09/go-credential-issuer/internal/config"
	"github.com/jrsteele09/go-credential-issuer/sessions"
	"github.com/jrsteele09/go-credential-issuer/token"
)

// Services holds the domain dependencies the HTTP boundary dispatches to.
type Services struct {
	Validator *auth.RequestValidator
	Sessions  *auth.SessionService
	Exchange  *token.Engine
	Issuer    *credential.Issuer
	Postcode  *postcodelookup.Service
	Store     sessions.Repo
}

// Server routes protocol requests to the domain services and owns the
// error-kind → status mapping.
type Server struct {
	env      string
	mux      *http.ServeMux
	config   config.Config
	services Services
}

func New(cfg config.Config, services Services) (*Server, error) {
	if services.Validator == nil {
		return nil, errors.New("[Server New] request validator is required")
	}
	if services.Sessions == nil {
		return nil, errors.New("[Server New] session service is required")
	}
	if services.Exchange == nil {
		return nil, errors.New("[Server New] token exchange engine is required")
	}
	if services.Issuer == nil {
		return nil, errors.New("[Server New] credential issuer is required")
	}
	if services.Store == nil {
		return nil, errors.New("[Server New] session store is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		services: services,
	}
	s.env = cfg.GetEnv()
	s.initRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
