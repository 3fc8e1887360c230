package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-credential-issuer/address"
	"github.com/jrsteele09/go-credential-issuer/sessions"
)

const codeGenerationLength = 32

// SessionService owns session creation and session-id validation. Token
// binding happens later in the token package; this service never mutates
// an existing session.
type SessionService struct {
	sessions   sessions.Repo
	sessionTTL time.Duration
	nowTime    func() time.Time
}

// SessionServiceOption defines a function type to modify the SessionService instance.
type SessionServiceOption func(*SessionService)

// WithSessionNowTime sets the now time function (primarily for testing)
func WithSessionNowTime(nowFunc func() time.Time) SessionServiceOption {
	return func(ss *SessionService) {
		ss.nowTime = nowFunc
	}
}

// NewSessionService initializes a new SessionService with required dependencies.
func NewSessionService(sessionRepo sessions.Repo, sessionTTL time.Duration, options ...SessionServiceOption) (*SessionService, error) {
	if sessionRepo == nil {
		return nil, errors.New("[NewSessionService] Sessions repo is required")
	}
	if sessionTTL <= 0 {
		return nil, errors.New("[NewSessionService] session TTL must be positive")
	}

	ss := &SessionService{
		sessions:   sessionRepo,
		sessionTTL: sessionTTL,
		nowTime:    time.Now,
	}

	for _, opt := range options {
		opt(ss)
	}

	return ss, nil
}

// CreateSession persists a new session for a validated request and returns
// its id. A fresh single-use authorization code is generated here; the
// caller relays it to the client out of band.
func (ss *SessionService) CreateSession(ctx context.Context, request *SessionRequest) (string, error) {
	code, err := generateAuthorizationCode()
	if err != nil {
		return "", errors.Wrap(err, "[SessionService.CreateSession] generateAuthorizationCode")
	}

	session := &sessions.Session{
		SessionID:         uuid.New().String(),
		ClientID:          request.ClientID,
		RedirectURI:       request.RedirectURI,
		State:             request.State,
		AuthorizationCode: code,
		ExpiryDate:        ss.nowTime().Add(ss.sessionTTL).Unix(),
	}

	if err := ss.sessions.Put(ctx, session); err != nil {
		return "", errors.Wrap(err, "[SessionService.CreateSession] sessions.Put")
	}
	return session.SessionID, nil
}

// ValidateSessionID confirms a session exists and has not expired.
func (ss *SessionService) ValidateSessionID(ctx context.Context, sessionID string) (*sessions.Session, error) {
	session, err := ss.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionService.ValidateSessionID] sessions.Get")
	}
	return session, nil
}

// SaveAddresses date-links and stores the subject's address history on the
// session, ready for credential issuance. The linking mutates nothing when
// the history is too long to link.
func (ss *SessionService) SaveAddresses(ctx context.Context, sessionID string, addresses []address.CanonicalAddress) error {
	if _, err := ss.sessions.Get(ctx, sessionID); err != nil {
		return errors.Wrap(err, "[SessionService.SaveAddresses] sessions.Get")
	}

	if err := address.LinkDates(addresses); err != nil {
		return err
	}

	if err := ss.sessions.UpdateAddresses(ctx, sessionID, addresses); err != nil {
		return errors.Wrap(err, "[SessionService.SaveAddresses] sessions.UpdateAddresses")
	}
	return nil
}

func generateAuthorizationCode() (string, error) {
	bytes := make([]byte, codeGenerationLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "rand.Read")
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
