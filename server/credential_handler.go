package server

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-credential-issuer/auth"
	"github.com/jrsteele09/go-credential-issuer/sessions"
)

const bearerPrefix = "Bearer "

// CredentialHandler issues a signed verifiable credential for the session
// bound to the presented bearer token. The subject comes from the `sub`
// form parameter; the addresses were collected earlier onto the session.
func (s *Server) CredentialHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessToken, ok := bearerToken(r)
		if !ok {
			writeError(w, sessions.ErrNotFound)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, auth.ErrRequestMalformed)
			return
		}
		form, err := url.ParseQuery(string(body))
		if err != nil || form.Get("sub") == "" {
			writeError(w, auth.ErrRequestMalformed)
			return
		}
		subject := form.Get("sub")

		session, err := s.services.Store.GetByAccessToken(r.Context(), accessToken)
		if err != nil {
			log.Info().Err(err).Msg("credential request with unknown bearer token")
			writeError(w, err)
			return
		}

		signedCredential, err := s.services.Issuer.IssueCredential(r.Context(), subject, session.Addresses)
		if err != nil {
			log.Error().Err(err).Msg("credential issuance failed")
			writeError(w, err)
			return
		}

		log.Info().Str("client_id", session.ClientID).Msg("credential issued")
		w.Header().Set("Content-Type", "application/jwt")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(signedCredential))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	return token, token != ""
}
