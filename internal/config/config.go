package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vadimbarashkov/og-shortener/internal/resolver"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPebble   = "pebble"
)

var (
	errEmptyBaseURL       = errors.New("base_url is required")
	errUnknownResolveMode = errors.New("unknown resolve mode")
	errUnknownStoreDriver = errors.New("unknown store driver")
)

type Config struct {
	Env        string `yaml:"env"`
	BaseURL    string `yaml:"base_url"`
	HTTPServer `yaml:"http_server"`
	Resolve    `yaml:"resolve"`
	Store      `yaml:"store"`
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
	AllowedOrigins: []string{"https://*"},
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Resolve selects how short links are answered.
type Resolve struct {
	Mode          string        `yaml:"mode"`
	RedirectDelay time.Duration `yaml:"redirect_delay"`
	BotAgents     []string      `yaml:"bot_agents"`
}

var defaultResolve = Resolve{
	Mode:          resolver.ModePreview,
	RedirectDelay: resolver.DefaultRedirectDelay,
	BotAgents:     resolver.DefaultBotAgents,
}

type Store struct {
	Driver          string        `yaml:"driver"`
	CacheSize       int           `yaml:"cache_size"`
	ConnectAttempts uint          `yaml:"connect_attempts"`
	ConnectDelay    time.Duration `yaml:"connect_delay"`
	Postgres        Postgres      `yaml:"postgres"`
	SQLite          SQLite        `yaml:"sqlite"`
	Pebble          Pebble        `yaml:"pebble"`
}

var defaultStore = Store{
	Driver:          StoreDriverPebble,
	CacheSize:       1024,
	ConnectAttempts: 5,
	ConnectDelay:    time.Second,
	Postgres:        defaultPostgres,
	SQLite:          defaultSQLite,
	Pebble:          defaultPebble,
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	MigrationsPath  string        `yaml:"migrations_path"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	MigrationsPath:  "file://migrations/postgres",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

// SQLite holds a local file DSN or a remote libSQL URL.
type SQLite struct {
	URL string `yaml:"url"`
}

var defaultSQLite = SQLite{
	URL: "file:data/links.db",
}

type Pebble struct {
	Path string `yaml:"path"`
}

var defaultPebble = Pebble{
	Path: "data/links",
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errEmptyBaseURL
	}

	switch c.Resolve.Mode {
	case resolver.ModePreview, resolver.ModeRedirect:
	default:
		return fmt.Errorf("%w: %q", errUnknownResolveMode, c.Resolve.Mode)
	}

	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverPebble:
	default:
		return fmt.Errorf("%w: %q", errUnknownStoreDriver, c.Store.Driver)
	}

	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.HTTPServer = defaultHTTPServer
	cfg.Resolve = defaultResolve
	cfg.Store = defaultStore
}
