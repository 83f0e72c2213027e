// Package cli holds the shared wiring for the tendril command line tool:
// configuration loading and dispatcher construction.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	goredis "github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/adapters/manifest"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/adapters/openapi"
	redisadapter "github.com/aretw0/tendril/pkg/adapters/redis"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/persistence/middleware"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/registry"
)

// DefaultConfigFile is looked up in the working directory when no --config
// flag is given.
const DefaultConfigFile = "tendril.yaml"

// Config is the CLI configuration, loaded from a YAML file and overridable
// through TENDRIL_* environment variables.
type Config struct {
	BaseURL     string        `yaml:"base_url" env:"TENDRIL_BASE_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"TENDRIL_TIMEOUT"`
	Debug       bool          `yaml:"debug" env:"TENDRIL_DEBUG"`
	TokenEnv    string        `yaml:"token_env" env:"TENDRIL_TOKEN_ENV"`
	OpenAPI     string        `yaml:"openapi" env:"TENDRIL_OPENAPI"`
	Manifest    string        `yaml:"manifest" env:"TENDRIL_MANIFEST"`
	RedisURL    string        `yaml:"redis_url" env:"TENDRIL_REDIS_URL"`
	JournalSize int           `yaml:"journal_size" env:"TENDRIL_JOURNAL_SIZE"`
	Redact      bool          `yaml:"redact" env:"TENDRIL_REDACT"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() Config {
	return Config{
		JournalSize: memory.DefaultCap,
		Redact:      true,
	}
}

// LoadConfig builds the effective configuration: defaults, then the YAML file
// (required when path is explicit, optional for the default location), then
// environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %q: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine, flags and env remain.
	default:
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// TokenSource returns a source reading the configured environment variable on
// every call, or nil when no token variable is configured.
func (c Config) TokenSource() ports.TokenSource {
	if c.TokenEnv == "" {
		return nil
	}
	name := c.TokenEnv
	return func(ctx context.Context) (string, error) {
		return os.Getenv(name), nil
	}
}

// NewJournal builds the journal the configuration asks for: Redis when a URL
// is set, in-memory otherwise, wrapped in credential redaction unless
// disabled.
func (c Config) NewJournal() (ports.Journal, error) {
	var journal ports.Journal
	if c.RedisURL != "" {
		opts, err := goredis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		redisOpts := []redisadapter.Option{}
		if c.JournalSize > 0 {
			redisOpts = append(redisOpts, redisadapter.WithCap(int64(c.JournalSize)))
		}
		journal = redisadapter.NewFromClient(goredis.NewClient(opts), redisOpts...)
	} else {
		memOpts := []memory.Option{}
		if c.JournalSize > 0 {
			memOpts = append(memOpts, memory.WithCap(c.JournalSize))
		}
		journal = memory.NewJournal(memOpts...)
	}

	if c.Redact {
		journal = middleware.NewRedactMiddleware(middleware.DefaultPatterns)(journal)
	}
	return journal, nil
}

// LoadDeclarations loads the raw declarations from every configured source,
// without registry-level uniqueness checks. Used for linting.
func LoadDeclarations(cfg Config) ([]domain.Declaration, error) {
	var decls []domain.Declaration

	if cfg.OpenAPI != "" {
		src, err := openapi.NewFromFile(cfg.OpenAPI)
		if err != nil {
			return nil, err
		}
		loaded, err := src.Load()
		if err != nil {
			return nil, err
		}
		decls = append(decls, loaded...)
	}
	if cfg.Manifest != "" {
		src, err := manifest.NewFromFile(cfg.Manifest)
		if err != nil {
			return nil, err
		}
		loaded, err := src.Load()
		if err != nil {
			return nil, err
		}
		decls = append(decls, loaded...)
	}
	return decls, nil
}

// NewRegistry loads the configured endpoint sources into a registry. The
// second return value is the effective base URL: the configured one, or the
// first server entry found in a source.
func NewRegistry(cfg Config) (*registry.Registry, string, error) {
	reg := registry.New()
	baseURL := cfg.BaseURL

	if cfg.OpenAPI != "" {
		src, err := openapi.NewFromFile(cfg.OpenAPI)
		if err != nil {
			return nil, "", err
		}
		if err := reg.AddFrom(src); err != nil {
			return nil, "", err
		}
		if baseURL == "" {
			baseURL = src.Server()
		}
	}
	if cfg.Manifest != "" {
		src, err := manifest.NewFromFile(cfg.Manifest)
		if err != nil {
			return nil, "", err
		}
		if err := reg.AddFrom(src); err != nil {
			return nil, "", err
		}
		if baseURL == "" {
			baseURL = src.Server()
		}
	}
	return reg, baseURL, nil
}

// NewDispatcher wires a dispatcher from the configuration: endpoint sources,
// journal, token source and logger. Extra options are applied last.
func NewDispatcher(cfg Config, logger *slog.Logger, extra ...tendril.Option) (*tendril.Dispatcher, error) {
	reg, baseURL, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, fmt.Errorf("no base URL: set base_url, TENDRIL_BASE_URL or a source with a server entry")
	}

	journal, err := cfg.NewJournal()
	if err != nil {
		return nil, err
	}

	opts := []tendril.Option{
		tendril.WithRegistry(reg),
		tendril.WithJournal(journal),
		tendril.WithLogger(logger),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, tendril.WithTimeout(cfg.Timeout))
	}
	if src := cfg.TokenSource(); src != nil {
		opts = append(opts, tendril.WithTokenSource(src))
	}
	opts = append(opts, extra...)

	return tendril.New(baseURL, opts...)
}

// NewLogger configures the CLI logger. Debug mode writes to stderr so it does
// not mix with stdout output.
func NewLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}
