package main

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the authgate server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - SigningKey: HMAC secret for signing JWTs (HS256). Must be set in prod.
//   - TokenTTL: issued token lifetime.
//   - BcryptCost: password hashing cost factor.
//   - DatabaseDSN: SQLite DSN; empty selects the in-memory user store.
//   - Issuer: iss claim stamped into issued tokens.
type Config struct {
	Addr        string
	SigningKey  string
	TokenTTL    time.Duration
	BcryptCost  int
	DatabaseDSN string
	Issuer      string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the signing key below is insecure and must be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8577"
	c.SigningKey = "dev-signing-key"
	c.TokenTTL = time.Hour
	c.BcryptCost = 0 // 0 lets the hasher pick its default cost
	c.DatabaseDSN = ""
	c.Issuer = "authgate"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// jsonConfig is the intermediate shape for JSON configuration files.
// Durations are accepted as strings ("30m", "1h").
type jsonConfig struct {
	Addr        string `json:"addr"`
	SigningKey  string `json:"signing_key"`
	TokenTTL    string `json:"token_ttl"`
	BcryptCost  *int   `json:"bcrypt_cost"`
	DatabaseDSN string `json:"database_dsn"`
	Issuer      string `json:"issuer"`
}

// parseJSON overlays values from the file named by AUTHGATE_CONFIG, if set.
// Absent fields leave the current value untouched; an unreadable or invalid
// file is fatal since the operator explicitly asked for it.
func parseJSON(cfg *Config) {
	path := os.Getenv("AUTHGATE_CONFIG")
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if c.SigningKey != "" {
		cfg.SigningKey = c.SigningKey
	}
	if c.TokenTTL != "" {
		d, err := time.ParseDuration(c.TokenTTL)
		if err != nil {
			panic(err)
		}
		cfg.TokenTTL = d
	}
	if c.BcryptCost != nil {
		cfg.BcryptCost = *c.BcryptCost
	}
	if c.DatabaseDSN != "" {
		cfg.DatabaseDSN = c.DatabaseDSN
	}
	if c.Issuer != "" {
		cfg.Issuer = c.Issuer
	}
}

func parseEnv(cfg *Config) {
	if v := os.Getenv("AUTHGATE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("AUTHGATE_SIGNING_KEY"); v != "" {
		cfg.SigningKey = v
	}
	if v := os.Getenv("AUTHGATE_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("AUTHGATE_BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BcryptCost = n
		}
	}
	if v := os.Getenv("AUTHGATE_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("AUTHGATE_ISSUER"); v != "" {
		cfg.Issuer = v
	}
}

func parseFlags(cfg *Config) {
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP bind address")
	flag.StringVar(&cfg.SigningKey, "signing-key", cfg.SigningKey, "JWT signing secret")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "issued token lifetime")
	flag.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost factor (0 = default)")
	flag.StringVar(&cfg.DatabaseDSN, "database-dsn", cfg.DatabaseDSN, "SQLite DSN (empty = in-memory store)")
	flag.StringVar(&cfg.Issuer, "issuer", cfg.Issuer, "token issuer claim")
	flag.Parse()
}
