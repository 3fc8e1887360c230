package server

import (
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SessionIDHeader carries the session id on follow-up requests.
const SessionIDHeader = "session_id"

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

// SessionHandler validates a session-creation request's client assertion
// and creates the session. No session state is persisted when any
// validation check fails.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, err)
			return
		}

		request, err := s.services.Validator.Validate(r.Context(), body)
		if err != nil {
			log.Info().Err(err).Msg("session request validation failed")
			writeError(w, err)
			return
		}

		sessionID, err := s.services.Sessions.CreateSession(r.Context(), request)
		if err != nil {
			log.Error().Err(err).Msg("session creation failed")
			writeError(w, err)
			return
		}

		log.Info().Str("client_id", request.ClientID).Msg("session created")
		writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sessionID})
	}
}
