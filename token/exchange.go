package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-credential-issuer/sessions"
)

const tokenGenerationLength = 32

// TokenResponse is the bearer-token body returned from a successful
// exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// Engine redeems authorization codes for bearer tokens. Redemption is
// strictly single-use: the token write is conditional on no token being
// bound yet, so a second exchange for the same code fails even when it
// races the first.
type Engine struct {
	sessions  sessions.Repo
	bearerTTL time.Duration
	nowTime   func() time.Time
}

// EngineOption defines a function type to modify the Engine instance.
type EngineOption func(*Engine)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowTime = nowFunc
	}
}

// NewEngine initializes a new Engine with required dependencies.
func NewEngine(sessionRepo sessions.Repo, bearerTTL time.Duration, options ...EngineOption) (*Engine, error) {
	if sessionRepo == nil {
		return nil, errors.New("[NewEngine] Sessions repo is required")
	}
	if bearerTTL <= 0 {
		return nil, errors.New("[NewEngine] bearer token TTL must be positive")
	}

	e := &Engine{
		sessions:  sessionRepo,
		bearerTTL: bearerTTL,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(e)
	}

	return e, nil
}

// Exchange validates an authorization-code grant and binds a fresh bearer
// token to its session. The grant type is checked before the store is
// touched; everything after that reports ErrInvalidGrant undifferentiated.
func (e *Engine) Exchange(ctx context.Context, request *TokenRequest) (*TokenResponse, error) {
	if request.GrantType != AuthorizationCodeGrant {
		return nil, errors.Wrapf(ErrUnsupportedGrantType, "%q", request.GrantType)
	}

	session, err := e.sessions.GetByAuthorizationCode(ctx, request.Code)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			return nil, ErrInvalidGrant
		}
		return nil, errors.Wrap(err, "[Engine.Exchange] sessions.GetByAuthorizationCode")
	}
	if session.Expired(e.nowTime()) {
		return nil, ErrInvalidGrant
	}

	// Case-sensitive equality against the stored code. The index lookup
	// already matched, but the stored value is the source of truth.
	if request.Code != session.AuthorizationCode {
		return nil, ErrInvalidGrant
	}
	if request.RedirectURI != session.RedirectURI {
		return nil, ErrInvalidGrant
	}

	accessToken, err := generateBearerToken()
	if err != nil {
		return nil, errors.Wrap(err, "[Engine.Exchange] generateBearerToken")
	}

	if err := e.sessions.UpdateAccessToken(ctx, session.SessionID, accessToken); err != nil {
		if errors.Is(err, sessions.ErrTokenAlreadyIssued) || errors.Is(err, sessions.ErrNotFound) {
			return nil, ErrInvalidGrant
		}
		return nil, errors.Wrap(err, "[Engine.Exchange] sessions.UpdateAccessToken")
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(e.bearerTTL.Seconds()),
		Scope:       request.Scope,
	}, nil
}

func generateBearerToken() (string, error) {
	bytes := make([]byte, tokenGenerationLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "rand.Read")
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
