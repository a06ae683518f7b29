package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Verification method values for VERIFY_USER_METHOD.
const (
	VerifyMethodLocal         = "local"
	VerifyMethodIntrospection = "tokenIntrospection"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Upstream UpstreamConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

// AuthConfig selects and parameterizes the token verification strategy. The
// choice is made once at startup; it never varies per request.
type AuthConfig struct {
	VerifyUserMethod string `env:"VERIFY_USER_METHOD, default=local"`
	ClientSecret     string `env:"CLIENT_SECRET"`
	UserIDClaim      string `env:"USER_ID_CLAIM, default=sub"`

	TokenIntrospectionURL   string `env:"TOKEN_INTROSPECTION_URL"`
	TokenIntrospectionToken string `env:"TOKEN_INTROSPECTION_TOKEN"`

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE, default=120"`
}

// UpstreamConfig points at the aggregate data resource the proxy forwards to.
// ObfuscationThreshold is typed int so a malformed value fails at startup,
// not at the first query.
type UpstreamConfig struct {
	TargetURL            string `env:"TARGET_PICSURE_URL"`
	TargetToken          string `env:"TARGET_PICSURE_TOKEN"`
	ObfuscationThreshold int    `env:"TARGET_OBFUSCATION_THRESHOLD, default=10"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,  default=query_gateway"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=100"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates the parts whose absence would only surface mid-request.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Auth.VerifyUserMethod {
	case VerifyMethodLocal:
		if c.Auth.ClientSecret == "" {
			return fmt.Errorf("config: CLIENT_SECRET is required with VERIFY_USER_METHOD=%s", VerifyMethodLocal)
		}
	case VerifyMethodIntrospection:
		if c.Auth.TokenIntrospectionURL == "" {
			return fmt.Errorf("config: TOKEN_INTROSPECTION_URL is required with VERIFY_USER_METHOD=%s", VerifyMethodIntrospection)
		}
		if c.Auth.TokenIntrospectionToken == "" {
			return fmt.Errorf("config: TOKEN_INTROSPECTION_TOKEN is required with VERIFY_USER_METHOD=%s", VerifyMethodIntrospection)
		}
	default:
		return fmt.Errorf("config: unknown VERIFY_USER_METHOD %q", c.Auth.VerifyUserMethod)
	}

	if c.Upstream.ObfuscationThreshold < 0 {
		return fmt.Errorf("config: TARGET_OBFUSCATION_THRESHOLD must not be negative")
	}
	return nil
}
