package config

import (
	"path/filepath"
	"time"
)

type SessionConfig interface {
	GetSessionDBPath() string
	GetBrowserCookieMaxAge() time.Duration
	GetSessionIdleTimeout() time.Duration
	GetSessionPurgeInterval() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionDBPath() string {
	return GetEnv("SESSION_DB", filepath.Join(EnvVars{}.GetDataFolder(), "sessions.db"))
}

func (Session) GetBrowserCookieMaxAge() time.Duration {
	return GetDuration("SESSION_COOKIE_MAX_AGE", 30*24*time.Hour)
}

// GetSessionIdleTimeout is how long an untouched browser session is kept.
func (Session) GetSessionIdleTimeout() time.Duration {
	return GetDuration("SESSION_IDLE_TIMEOUT", 7*24*time.Hour)
}

func (Session) GetSessionPurgeInterval() time.Duration {
	return GetDuration("SESSION_PURGE_INTERVAL", time.Hour)
}
