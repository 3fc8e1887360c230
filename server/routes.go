package server

// Route patterns served by the issuer.
const (
	SessionRoute        = "POST /session"
	TokenRoute          = "POST /token"
	AddressRoute        = "PUT /address"
	PostcodeLookupRoute = "GET /postcode-lookup/{postcode}"
	CredentialRoute     = "POST /credential/issue"
)

func (s *Server) initRoutes() {
	s.mux.HandleFunc(SessionRoute, s.requestLogger(s.SessionHandler()))
	s.mux.HandleFunc(TokenRoute, s.requestLogger(s.TokenHandler()))
	s.mux.HandleFunc(AddressRoute, s.requestLogger(s.AddressHandler()))
	s.mux.HandleFunc(PostcodeLookupRoute, s.requestLogger(s.PostcodeLookupHandler()))
	s.mux.HandleFunc(CredentialRoute, s.requestLogger(s.CredentialHandler()))
}
