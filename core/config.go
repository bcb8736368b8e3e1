package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultTokenURL  = "https://www.nuvemshop.com.br/apps/authorize/token"
	DefaultUserAgent = "go-nuvemshop callbackd"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type OAuthConfig struct {
	ClientID       string        `koanf:"client_id" mapstructure:"client_id"`
	ClientSecret   string        `koanf:"client_secret" mapstructure:"client_secret"`
	TokenURL       string        `koanf:"token_url" mapstructure:"token_url"`
	RequestTimeout time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
	UserAgent      string        `koanf:"user_agent" mapstructure:"user_agent"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver" mapstructure:"driver"`
	URL             string        `koanf:"url" mapstructure:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	PingTimeout     time.Duration `koanf:"ping_timeout" mapstructure:"ping_timeout"`
	Debug           bool          `koanf:"debug" mapstructure:"debug"`
}

type ServerConfig struct {
	Port            int           `koanf:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `koanf:"level" mapstructure:"level"`
	JSON  bool   `koanf:"json" mapstructure:"json"`
}

// Config is built once at process start and passed by value afterwards.
type Config struct {
	OAuth    OAuthConfig    `koanf:"oauth" mapstructure:"oauth"`
	Database DatabaseConfig `koanf:"database" mapstructure:"database"`
	Server   ServerConfig   `koanf:"server" mapstructure:"server"`
	Log      LogConfig      `koanf:"log" mapstructure:"log"`
}

func DefaultConfig() Config {
	return Config{
		OAuth: OAuthConfig{
			TokenURL:  DefaultTokenURL,
			UserAgent: DefaultUserAgent,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			PingTimeout:     5 * time.Second,
		},
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.OAuth.ClientID) == "" {
		return fmt.Errorf("core: oauth.client_id is required")
	}
	if strings.TrimSpace(c.OAuth.ClientSecret) == "" {
		return fmt.Errorf("core: oauth.client_secret is required")
	}
	if strings.TrimSpace(c.OAuth.TokenURL) == "" {
		return fmt.Errorf("core: oauth.token_url is required")
	}
	if c.OAuth.RequestTimeout < 0 {
		return fmt.Errorf("core: oauth.request_timeout must not be negative")
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("core: server.port %d is out of range", c.Server.Port)
	}
	return nil
}

// Normalized returns a copy with the driver name trimmed and lowercased,
// the form sql.Open registers drivers under.
func (c DatabaseConfig) Normalized() DatabaseConfig {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	return c
}

func (c DatabaseConfig) Validate() error {
	switch c.Normalized().Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("core: database.driver %q is not supported", c.Driver)
	}
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("core: database.url is required")
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 {
		return fmt.Errorf("core: database pool sizes must not be negative")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
