package fakesessionrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-credential-issuer/address"
	"github.com/jrsteele09/go-credential-issuer/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	sessions map[string]*sessions.Session
	codes    map[string]string // Map authorization codes to sessionIDs
	tokens   map[string]string // Map access tokens to sessionIDs
	nowTime  func() time.Time
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions: make(map[string]*sessions.Session),
		codes:    make(map[string]string),
		tokens:   make(map[string]string),
		nowTime:  time.Now,
	}
}

// SetNowTime overrides the clock used for expiry filtering (for testing).
func (sr *FakeSessionRepo) SetNowTime(now func() time.Time) {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.nowTime = now
}

func (sr *FakeSessionRepo) Put(_ context.Context, session *sessions.Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	copied := *session
	sr.sessions[session.SessionID] = &copied
	if session.AuthorizationCode != "" {
		sr.codes[session.AuthorizationCode] = session.SessionID
	}
	return nil
}

func (sr *FakeSessionRepo) Get(_ context.Context, sessionID string) (*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	return sr.liveSession(sessionID)
}

func (sr *FakeSessionRepo) GetByAuthorizationCode(_ context.Context, code string) (*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	sessionID, ok := sr.codes[code]
	if !ok {
		return nil, sessions.ErrNotFound
	}
	return sr.liveSession(sessionID)
}

func (sr *FakeSessionRepo) GetByAccessToken(_ context.Context, token string) (*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	sessionID, ok := sr.tokens[token]
	if !ok {
		return nil, sessions.ErrNotFound
	}
	return sr.liveSession(sessionID)
}

func (sr *FakeSessionRepo) UpdateAccessToken(_ context.Context, sessionID, token string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	session, ok := sr.sessions[sessionID]
	if !ok {
		return sessions.ErrNotFound
	}
	if session.AccessToken != "" {
		return sessions.ErrTokenAlreadyIssued
	}

	session.AccessToken = token
	sr.tokens[token] = sessionID
	return nil
}

func (sr *FakeSessionRepo) UpdateAddresses(_ context.Context, sessionID string, addresses []address.CanonicalAddress) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	session, ok := sr.sessions[sessionID]
	if !ok {
		return sessions.ErrNotFound
	}

	session.Addresses = addresses
	return nil
}

// liveSession returns a copy of the stored session, treating expired
// sessions as absent. Callers must hold at least a read lock.
func (sr *FakeSessionRepo) liveSession(sessionID string) (*sessions.Session, error) {
	session, ok := sr.sessions[sessionID]
	if !ok {
		return nil, sessions.ErrNotFound
	}
	if session.Expired(sr.nowTime()) {
		return nil, sessions.ErrNotFound
	}

	copied := *session
	return &copied, nil
}
