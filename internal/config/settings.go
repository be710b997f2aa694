package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

var (
	ErrMissingDatabaseName   = errors.New("DB_URL must include a database name")
	ErrMemorySessionOnLambda = errors.New("SESSION_STORE=memory does not survive Lambda instances, use redis")
)

type Settings struct {
	DatabaseURL      string `env:"DB_URL,required"`
	DatabaseUser     string `env:"DB_USER,required"`
	DatabasePassword string `env:"DB_PASS,required"`
	DatabaseSSLMode  string `env:"DB_SSLMODE,default=disable"`

	HTTPAddr  string `env:"HTTP_ADDR,default=:8080"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
	Timezone  string `env:"APP_TIMEZONE,default=UTC"`

	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL,default=24h"`
	SessionStore  string        `env:"SESSION_STORE,default=memory"`
	CookieSecure  bool          `env:"COOKIE_SECURE,default=false"`

	RedisAddr     string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`
	CryptoKey     string `env:"CRYPTO_KEY"`

	LambdaFunction string `env:"AWS_LAMBDA_FUNCTION_NAME"`
}

// Load reads an optional .env file and decodes the process environment.
// Missing required variables are reported as an error.
func Load(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			Logger.Debugf("Loaded environment from %s", f)
		}
	}

	var s Settings
	if err := envdecode.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	if s.SessionStore != "memory" && s.SessionStore != "redis" {
		return Settings{}, fmt.Errorf("unknown SESSION_STORE %q", s.SessionStore)
	}
	if s.OnLambda() && s.SessionStore == "memory" {
		return Settings{}, ErrMemorySessionOnLambda
	}
	if s.SessionStore == "redis" && len(s.CryptoKey) != KeySize {
		return Settings{}, fmt.Errorf("CRYPTO_KEY must be %d bytes when SESSION_STORE=redis", KeySize)
	}
	if _, err := s.Location(); err != nil {
		return Settings{}, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	return s, nil
}

// OnLambda reports whether the process runs inside AWS Lambda.
func (s Settings) OnLambda() bool {
	return s.LambdaFunction != ""
}

func (s Settings) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// DSN accepts either a full postgres URL or a bare "host:port/dbname" and
// injects the credentials from DB_USER and DB_PASS.
func (s Settings) DSN() (string, error) {
	u, err := url.Parse(s.DatabaseURL)
	if err != nil || u.Host == "" {
		u, err = url.Parse("postgres://" + strings.TrimPrefix(s.DatabaseURL, "//"))
		if err != nil {
			return "", fmt.Errorf("invalid DB_URL: %w", err)
		}
	}
	if strings.Trim(u.Path, "/") == "" {
		return "", ErrMissingDatabaseName
	}

	u.Scheme = "postgres"
	u.User = url.UserPassword(s.DatabaseUser, s.DatabasePassword)

	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", s.DatabaseSSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
