package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIURL is the marketplace API root the client talks to.
	APIURL      string        `env:"PORTAL_API_URL,     default=http://localhost:8080/api"`
	StorePath   string        `env:"PORTAL_STORE_PATH"`
	HTTPTimeout time.Duration `env:"PORTAL_HTTP_TIMEOUT, default=30s"`
	LogLevel    string        `env:"LOG_LEVEL,          default=info"`
	Pretty      bool          `env:"LOG_PRETTY,         default=true"`

	Sandbox SandboxConfig
}

// SandboxConfig drives the bundled test server (sandboxd).
type SandboxConfig struct {
	Port      string        `env:"SANDBOX_PORT,      default=8080"`
	JWTSecret string        `env:"SANDBOX_JWT_SECRET"`
	TokenTTL  time.Duration `env:"SANDBOX_TOKEN_TTL, default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath()
	}
	return &cfg
}

// defaultStorePath places the session file under the user's home directory,
// falling back to the working directory when home cannot be resolved.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "portal-session.db"
	}
	return filepath.Join(home, ".internhub", "session.db")
}
