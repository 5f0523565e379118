package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR"            env-default:"0.0.0.0:8080"`
	LogLevel        string        `env:"LOG_LEVEL"            env-default:"info"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT"        env-default:"5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"     env-default:"30s"`
	SeedCandidates  []string      `env:"SEED_CANDIDATES"      env-separator:"," env-default:"Ada Lovelace,Alan Turing,Grace Hopper,Edsger Dijkstra,Barbara Liskov"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	Database        Database
}

type Database struct {
	Type       string `env:"DATABASE_TYPE" env-default:"postgres"`
	SQLitePath string `env:"SQLITE_PATH"   env-default:"ballotbox.db"`
	Postgres   Postgres
}

type Postgres struct {
	Host     string `env:"POSTGRES_HOST"     env-default:"localhost"`
	Port     string `env:"POSTGRES_PORT"     env-default:"5432"`
	User     string `env:"POSTGRES_USER"     env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	Name     string `env:"POSTGRES_DB"       env-default:"ballotbox"`
	SSLMode  string `env:"POSTGRES_SSLMODE"  env-default:"disable"`
}

// Load reads the optional dotenv files (".env" when none are given) into the
// process environment and then fills Config from it. Missing dotenv files are
// not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes the seed list and rejects configurations the ledger
// cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case DatabasePostgres, DatabaseSQLite:
	default:
		return fmt.Errorf("unsupported DATABASE_TYPE %q", c.Database.Type)
	}

	if c.StoreTimeout < 0 {
		return errors.New("STORE_TIMEOUT must not be negative")
	}

	if len(c.SeedCandidates) == 0 {
		return errors.New("SEED_CANDIDATES must name at least one candidate")
	}
	seen := make(map[string]struct{}, len(c.SeedCandidates))
	for i, name := range c.SeedCandidates {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("SEED_CANDIDATES entry %d is blank", i+1)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("SEED_CANDIDATES lists %q twice", name)
		}
		seen[name] = struct{}{}
		c.SeedCandidates[i] = name
	}

	return nil
}

func (p Postgres) ConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	return u.String()
}
