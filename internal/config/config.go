// Package config loads the process-wide configuration once at startup.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// ErrMissingSecret is returned when JWT_SECRET is not set.
var ErrMissingSecret = errors.New("JWT_SECRET is required")

// HTTP holds the listener settings.
type HTTP struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	// TrustProxy makes client identification (rate limiting) honor
	// CF-Connecting-IP and X-Forwarded-For. Only set it behind a proxy
	// that overwrites those headers.
	TrustProxy bool
}

// Config is built once in main and shared by pointer. Nothing mutates it
// after Load returns.
type Config struct {
	HTTP        HTTP
	DatabaseURL string
	JWTSecret   []byte
	TokenTTL    time.Duration
	BcryptCost  int
	LogLevel    string
	LogFormat   string
}

// Default returns a config with sane defaults. JWTSecret is left empty.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Port:            "5000",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		DatabaseURL: "homebase.db",
		TokenTTL:    7 * 24 * time.Hour,
		BcryptCost:  bcrypt.DefaultCost,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// envMap maps environment variable names to fields in the config struct.
var envMap = map[string]func(v string, c *Config) error{
	"PORT": func(v string, c *Config) error {
		c.HTTP.Port = v
		return nil
	},
	"DATABASE_URL": func(v string, c *Config) error {
		c.DatabaseURL = v
		return nil
	},
	"JWT_SECRET": func(v string, c *Config) error {
		c.JWTSecret = []byte(v)
		return nil
	},
	"TOKEN_TTL": func(v string, c *Config) error {
		return confDuration(v, &c.TokenTTL, time.Minute, math.MaxInt64)
	},
	"BCRYPT_COST": func(v string, c *Config) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if n < bcrypt.MinCost || n > bcrypt.MaxCost {
			return fmt.Errorf("cost %d not in range [%d, %d]", n, bcrypt.MinCost, bcrypt.MaxCost)
		}
		c.BcryptCost = n
		return nil
	},
	"LOG_LEVEL": func(v string, c *Config) error {
		c.LogLevel = v
		return nil
	},
	"LOG_FORMAT": func(v string, c *Config) error {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "text" && v != "json" {
			return fmt.Errorf("must be text or json, got %q", v)
		}
		c.LogFormat = v
		return nil
	},
	"CORS_ORIGINS": func(v string, c *Config) error {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return errors.New("at least one origin is required")
		}
		c.HTTP.CORSOrigins = origins
		return nil
	},
	"TRUST_PROXY": func(v string, c *Config) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.HTTP.TrustProxy = b
		return nil
	},
	"HTTP_READ_TIMEOUT": func(v string, c *Config) error {
		return confDuration(v, &c.HTTP.ReadTimeout, 0, math.MaxInt64)
	},
	"HTTP_WRITE_TIMEOUT": func(v string, c *Config) error {
		return confDuration(v, &c.HTTP.WriteTimeout, 0, math.MaxInt64)
	},
	"HTTP_IDLE_TIMEOUT": func(v string, c *Config) error {
		return confDuration(v, &c.HTTP.IdleTimeout, 0, math.MaxInt64)
	},
	"HTTP_SHUTDOWN_TIMEOUT": func(v string, c *Config) error {
		return confDuration(v, &c.HTTP.ShutdownTimeout, 0, math.MaxInt64)
	},
}

// Load reads envFile (if it exists) into the environment and then builds
// the config from it. Variables already set in the environment win over
// the file. A missing JWT_SECRET is an error.
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	return FromEnv(os.LookupEnv)
}

// LoadNoSecret is Load for commands that never sign tokens: JWT_SECRET may
// be absent.
func LoadNoSecret(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	return fromEnv(os.LookupEnv, false)
}

func loadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	if _, err := os.Stat(envFile); err != nil {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// FromEnv builds a config using lookup for every known variable, falling
// back to defaults for the ones that are not set. A JWT_SECRET that is
// empty or only whitespace is an error.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	return fromEnv(lookup, true)
}

func fromEnv(lookup func(string) (string, bool), requireSecret bool) (*Config, error) {
	c := Default()

	for key, mf := range envMap {
		if val, ok := lookup(key); ok {
			if err := mf(val, &c); err != nil {
				return nil, fmt.Errorf("invalid env variable %s: %w", key, err)
			}
		}
	}

	if requireSecret && len(bytes.TrimSpace(c.JWTSecret)) == 0 {
		return nil, ErrMissingSecret
	}

	return &c, nil
}

// confDuration attempts to parse v into tgt and checks if the result is in
// the provided range (inclusive).
func confDuration(v string, tgt *time.Duration, min, max time.Duration) error {
	dur, err := time.ParseDuration(v)
	if err != nil {
		return err
	}

	if dur < min || dur > max {
		return fmt.Errorf("duration %s not in range [%s, %s] (inclusive)", dur, min, max)
	}

	*tgt = dur

	return nil
}
