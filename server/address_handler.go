package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-credential-issuer/address"
	"github.com/jrsteele09/go-credential-issuer/auth"
)

// AddressHandler stores a subject's address history on their session. The
// history is date-linked before it is persisted: the first address is the
// current one, each later address's validUntil is derived from the prior
// address's validFrom.
func (s *Server) AddressHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionIDHeader)

		var addresses []address.CanonicalAddress
		if err := json.NewDecoder(r.Body).Decode(&addresses); err != nil {
			writeError(w, auth.ErrRequestMalformed)
			return
		}

		if err := s.services.Sessions.SaveAddresses(r.Context(), sessionID, addresses); err != nil {
			log.Info().Err(err).Msg("address save failed")
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// PostcodeLookupHandler resolves a postcode to candidate addresses for a
// live session.
func (s *Server) PostcodeLookupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionIDHeader)
		postcode := r.PathValue("postcode")

		if _, err := s.services.Sessions.ValidateSessionID(r.Context(), sessionID); err != nil {
			log.Info().Err(err).Msg("postcode lookup rejected")
			writeError(w, err)
			return
		}

		results, err := s.services.Postcode.LookupPostcode(r.Context(), postcode)
		if err != nil {
			log.Error().Err(err).Msg("postcode lookup failed")
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, results)
	}
}
