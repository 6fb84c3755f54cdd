package config

import "time"

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetFakeBackend() bool
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the root of the reservation REST API, including /api/v1.
func (API) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://localhost:8080/api/v1")
}

// GetAPITimeout bounds each backend request. Zero disables the limit.
func (API) GetAPITimeout() time.Duration {
	return GetDuration("API_TIMEOUT", 15*time.Second)
}

// GetFakeBackend serves an in-memory demo backend instead of calling API_BASE_URL.
func (API) GetFakeBackend() bool {
	return GetBool("FAKE_BACKEND", false)
}
