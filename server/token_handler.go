package server

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-credential-issuer/token"
)

// TokenHandler redeems an authorization code for a bearer token. The body
// is a URL-encoded form with exactly one each of code, client_id,
// redirect_uri and grant_type.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeTokenError(w, err)
			return
		}

		request, err := token.ParseTokenRequest(string(body))
		if err != nil {
			log.Info().Err(err).Msg("token request rejected")
			writeTokenError(w, err)
			return
		}

		response, err := s.services.Exchange.Exchange(r.Context(), request)
		if err != nil {
			log.Info().Err(err).Msg("token exchange failed")
			writeTokenError(w, err)
			return
		}

		log.Info().Str("client_id", request.ClientID).Msg("access token issued")
		writeJSON(w, http.StatusOK, response)
	}
}
