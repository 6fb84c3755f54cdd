package config

type SecurityConfig interface {
	GetStorageSecret() string
	GetJWKSURL() string
	GetTokenIssuer() string
	GetSecureCookies() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetStorageSecret keys at-rest encryption of stored sessions. Empty disables it.
func (Security) GetStorageSecret() string {
	return GetEnv("STORAGE_SECRET", "")
}

// GetJWKSURL enables token signature verification on login when set.
func (Security) GetJWKSURL() string {
	return GetEnv("JWKS_URL", "")
}

func (Security) GetTokenIssuer() string {
	return GetEnv("TOKEN_ISSUER", "")
}

func (Security) GetSecureCookies() bool {
	return GetBool("SECURE_COOKIES", EnvVars{}.GetEnv() != "DEV")
}
