package config

import (
	"strconv"
	"time"
)

type SessionConfig interface {
	GetSessionTableName() string
	GetSessionTTL() time.Duration
	GetBearerTokenTTL() time.Duration
	GetClientConfigPathPrefix() string
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionTableName() string {
	return GetEnv("SESSION_TABLE_NAME", "address-sessions")
}

func (Session) GetSessionTTL() time.Duration {
	return durationSecondsEnv("SESSION_TTL_SECONDS", 172800) // two days
}

func (Session) GetBearerTokenTTL() time.Duration {
	return durationSecondsEnv("BEARER_TOKEN_TTL_SECONDS", 3600)
}

func (Session) GetClientConfigPathPrefix() string {
	return GetEnv("CLIENT_CONFIG_PATH_PREFIX", "/clients")
}

func durationSecondsEnv(key string, defaultSeconds int64) time.Duration {
	seconds := defaultSeconds
	if value := GetEnv(key, ""); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed > 0 {
			seconds = parsed
		}
	}
	return time.Duration(seconds) * time.Second
}
