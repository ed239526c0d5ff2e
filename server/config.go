package server

import (
	"trustmonitor/shared"

	"github.com/joho/godotenv"
)

type Config struct {
	// Plain HTTP mode
	Port int `json:"port"`

	// Content
	PublicDir   string `json:"public_dir"`
	ContentPath string `json:"content_path,omitempty"`

	// HTTPS mode, enabled when Domain is set
	Domain       string `json:"domain,omitempty"`
	ACMEEmail    string `json:"acme_email,omitempty"`
	CertCacheDir string `json:"cert_cache_dir"`
	HTTPPort     int    `json:"http_port"`
	HTTPSPort    int    `json:"https_port"`

	Development bool   `json:"development"`
	Version     string `json:"version"`
}

// TLSEnabled reports whether certificates should be obtained via ACME.
func (c *Config) TLSEnabled() bool {
	return c.Domain != ""
}

// LoadConfig reads .env (if present) and then the process environment.
// The returned error only reports a missing or unreadable .env file; the
// Config is always usable.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	return ConfigFromEnv(), err
}

// ConfigFromEnv builds a Config from environment variables only.
func ConfigFromEnv() *Config {
	return &Config{
		Port:         shared.GetEnvIntOrDefault("PORT", 8080),
		PublicDir:    shared.GetEnvOrDefault("TM_PUBLIC_DIR", "public"),
		ContentPath:  shared.GetEnvOrDefault("TM_CONTENT_PATH", ""),
		Domain:       shared.GetEnvOrDefault("TM_DOMAIN", ""),
		ACMEEmail:    shared.GetEnvOrDefault("TM_ACME_EMAIL", ""),
		CertCacheDir: shared.GetEnvOrDefault("TM_CERT_CACHE_DIR", "certs"),
		HTTPPort:     shared.GetEnvIntOrDefault("HTTP_PORT", 80),
		HTTPSPort:    shared.GetEnvIntOrDefault("HTTPS_PORT", 443),
		Development:  shared.GetEnvBoolOrDefault("DEVELOPMENT", false),
		Version:      shared.GetEnvOrDefault("TM_VERSION", "dev"),
	}
}
